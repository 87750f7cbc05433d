// Package crops holds the static crop metadata reference set: shelf life under
// open and cold storage plus the intrinsic spoilage sensitivity that drives the
// spoilage risk calculator.
package crops

import "strings"

// Sensitivity classifies how quickly a crop degrades post-harvest.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Metadata is immutable reference data for one crop.
type Metadata struct {
	Name                 string      `yaml:"name" json:"name"`
	OpenShelfLifeDays    int         `yaml:"open_shelf_life_days" json:"open_shelf_life_days"`
	ColdShelfLifeDays    int         `yaml:"cold_shelf_life_days" json:"cold_shelf_life_days"`
	Sensitivity          Sensitivity `yaml:"sensitivity" json:"sensitivity"`
	OptimalTempC         float64     `yaml:"optimal_temp_c" json:"optimal_temp_c"`
	HumidityTolerancePct float64     `yaml:"humidity_tolerance_pct" json:"humidity_tolerance_pct"`
}

// Store is a read-only lookup keyed by normalized crop name.
type Store struct {
	byName map[string]Metadata
	names  []string
}

// NewStore builds a store from a slice of metadata records. Later duplicates
// win, matching last-writer semantics of the dataset files.
func NewStore(items []Metadata) *Store {
	s := &Store{byName: make(map[string]Metadata, len(items))}
	for _, item := range items {
		key := Normalize(item.Name)
		if key == "" {
			continue
		}
		if _, exists := s.byName[key]; !exists {
			s.names = append(s.names, key)
		}
		s.byName[key] = item
	}
	return s
}

// Lookup resolves crop metadata case-insensitively.
func (s *Store) Lookup(name string) (Metadata, bool) {
	if s == nil {
		return Metadata{}, false
	}
	meta, ok := s.byName[Normalize(name)]
	return meta, ok
}

// Names returns the known crop keys in insertion order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Normalize lower-cases and trims a crop or market name for map keying.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultProfile is the conservative fallback used when a crop is unknown:
// 7 days open, 21 days cold, medium sensitivity.
func DefaultProfile(name string) Metadata {
	return Metadata{
		Name:                 Normalize(name),
		OpenShelfLifeDays:    7,
		ColdShelfLifeDays:    21,
		Sensitivity:          SensitivityMedium,
		OptimalTempC:         10,
		HumidityTolerancePct: 85,
	}
}
