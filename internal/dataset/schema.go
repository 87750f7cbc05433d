package dataset

// JSON schemas the dataset files must satisfy before a snapshot is swapped in.
// Validation failures keep the previous snapshot live.

const cropsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["crops"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "crops": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "open_shelf_life_days", "cold_shelf_life_days", "sensitivity"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "open_shelf_life_days": {"type": "integer", "minimum": 1},
          "cold_shelf_life_days": {"type": "integer", "minimum": 1},
          "sensitivity": {"enum": ["low", "medium", "high"]},
          "optimal_temp_c": {"type": "number"},
          "humidity_tolerance_pct": {"type": "number", "minimum": 0, "maximum": 100}
        }
      }
    }
  }
}`

const marketsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["markets", "prices"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "markets": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "location"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "district": {"type": "string"},
          "location": {
            "type": "object",
            "required": ["lat", "lon"],
            "properties": {
              "lat": {"type": "number", "minimum": -90, "maximum": 90},
              "lon": {"type": "number", "minimum": -180, "maximum": 180}
            }
          }
        }
      }
    },
    "prices": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["market", "crop", "current_price", "history"],
        "properties": {
          "market": {"type": "string", "minLength": 1},
          "crop": {"type": "string", "minLength": 1},
          "current_price": {"type": "number", "exclusiveMinimum": 0},
          "history": {"type": "array", "items": {"type": "number", "minimum": 0}},
          "demand": {"enum": ["low", "medium", "high"]}
        }
      }
    }
  }
}`

const facilitiesSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["facilities"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "facilities": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "type", "location", "capacity_kg", "available_kg", "daily_cost_per_kg"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "type": {"enum": ["open", "cold", "controlled_atmosphere"]},
          "district": {"type": "string"},
          "location": {
            "type": "object",
            "required": ["lat", "lon"],
            "properties": {
              "lat": {"type": "number", "minimum": -90, "maximum": 90},
              "lon": {"type": "number", "minimum": -180, "maximum": 180}
            }
          },
          "capacity_kg": {"type": "number", "minimum": 0},
          "available_kg": {"type": "number", "minimum": 0},
          "daily_cost_per_kg": {"type": "number", "minimum": 0},
          "available": {"type": "boolean"}
        }
      }
    }
  }
}`
