package config

// Config is the root configuration for the mandimitra daemon.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Data      DataConfig      `mapstructure:"data"`
	Store     StoreConfig     `mapstructure:"store"`
	Transport TransportConfig `mapstructure:"transport"`
	Decision  DecisionConfig  `mapstructure:"decision"`
}

// AppConfig carries process-level settings.
type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	LogPath  string `mapstructure:"log_path"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DataConfig points at optional on-disk dataset overrides. Empty paths mean
// the embedded defaults are used. Watch enables hot reload of override files.
type DataConfig struct {
	CropsPath      string `mapstructure:"crops_path"`
	MarketsPath    string `mapstructure:"markets_path"`
	FacilitiesPath string `mapstructure:"facilities_path"`
	Watch          bool   `mapstructure:"watch"`
}

// StoreConfig describes the evaluation log database.
type StoreConfig struct {
	DecisionLogPath string `mapstructure:"decision_log_path"`
}

// TransportConfig is the haulage rate table. Cost = base_fee + per_km_per_kg *
// distance * quantity. Both knobs are operator-tunable, not business logic.
type TransportConfig struct {
	BaseFee    float64 `mapstructure:"base_fee"`
	PerKmPerKg float64 `mapstructure:"per_km_per_kg"`
}

// DecisionConfig tunes the decision engine thresholds.
type DecisionConfig struct {
	MaxDistanceKm         float64 `mapstructure:"max_distance_km"`
	MinImprovementPct     float64 `mapstructure:"min_improvement_pct"`
	ForecastHorizonDays   int     `mapstructure:"forecast_horizon_days"`
	MaxAlternativeMarkets int     `mapstructure:"max_alternative_markets"`
	MaxProjectionSwingPct float64 `mapstructure:"max_projection_swing_pct"`
}
