package config

const (
	defaultServerAddr      = ":8990"
	defaultDecisionLogPath = "data/mandimitra.db"

	defaultBaseFee    = 150.0
	defaultPerKmPerKg = 0.015

	defaultMaxDistanceKm         = 50.0
	defaultMinImprovementPct     = 10.0
	defaultForecastHorizonDays   = 14
	defaultMaxAlternativeMarkets = 3
	defaultMaxProjectionSwingPct = 40.0
)

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}
	if c.Store.DecisionLogPath == "" {
		c.Store.DecisionLogPath = defaultDecisionLogPath
	}
	if c.Transport.BaseFee <= 0 {
		c.Transport.BaseFee = defaultBaseFee
	}
	if c.Transport.PerKmPerKg <= 0 {
		c.Transport.PerKmPerKg = defaultPerKmPerKg
	}
	if c.Decision.MaxDistanceKm <= 0 {
		c.Decision.MaxDistanceKm = defaultMaxDistanceKm
	}
	if c.Decision.MinImprovementPct <= 0 {
		c.Decision.MinImprovementPct = defaultMinImprovementPct
	}
	if c.Decision.ForecastHorizonDays <= 0 {
		c.Decision.ForecastHorizonDays = defaultForecastHorizonDays
	}
	if c.Decision.MaxAlternativeMarkets <= 0 {
		c.Decision.MaxAlternativeMarkets = defaultMaxAlternativeMarkets
	}
	if c.Decision.MaxProjectionSwingPct <= 0 {
		c.Decision.MaxProjectionSwingPct = defaultMaxProjectionSwingPct
	}
}

// Default returns a fully-defaulted config, used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
