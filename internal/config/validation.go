package config

import "fmt"

func validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Transport.BaseFee < 0 {
		return fmt.Errorf("transport.base_fee must be >= 0, got %v", cfg.Transport.BaseFee)
	}
	if cfg.Transport.PerKmPerKg < 0 {
		return fmt.Errorf("transport.per_km_per_kg must be >= 0, got %v", cfg.Transport.PerKmPerKg)
	}
	if cfg.Decision.MaxDistanceKm <= 0 {
		return fmt.Errorf("decision.max_distance_km must be > 0, got %v", cfg.Decision.MaxDistanceKm)
	}
	if cfg.Decision.ForecastHorizonDays <= 0 || cfg.Decision.ForecastHorizonDays > 60 {
		return fmt.Errorf("decision.forecast_horizon_days must be in (0,60], got %d", cfg.Decision.ForecastHorizonDays)
	}
	if cfg.Decision.MaxProjectionSwingPct <= 0 || cfg.Decision.MaxProjectionSwingPct > 100 {
		return fmt.Errorf("decision.max_projection_swing_pct must be in (0,100], got %v", cfg.Decision.MaxProjectionSwingPct)
	}
	return nil
}
