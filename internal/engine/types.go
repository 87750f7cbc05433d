package engine

import (
	"errors"
	"time"

	"mandimitra/internal/crops"
	"mandimitra/internal/facility"
	"mandimitra/internal/forecast"
	"mandimitra/internal/mandi"
	"mandimitra/internal/marketsel"
	"mandimitra/internal/matcher"
	"mandimitra/internal/pkg/geo"
	"mandimitra/internal/spoilage"
)

// ErrInvalidInput marks contract violations: non-positive quantity, malformed
// coordinates, evaluation before harvest. Data-availability gaps never surface
// as errors; they degrade to SELL_NOW results.
var ErrInvalidInput = errors.New("invalid input")

// Decision is the sell-now vs store-and-sell verdict.
type Decision string

const (
	DecisionSellNow      Decision = "sell_now"
	DecisionStoreAndSell Decision = "store_and_sell"
)

// Request is one evaluation of a harvested lot.
type Request struct {
	Crop           string
	QuantityKg     float64
	Location       geo.Point
	HarvestDate    time.Time
	EvaluationDate time.Time
}

// Sources bundles the read-only reference data the engine consumes. Injected
// so live feeds or test doubles can replace the dataset snapshots without
// touching engine logic.
type Sources interface {
	Crops() *crops.Store
	Markets() mandi.Provider
	Facilities() []facility.Facility
}

// Options are the policy thresholds, normally taken from config.
type Options struct {
	MaxDistanceKm         float64
	MinImprovementPct     float64
	ForecastHorizonDays   int
	MaxAlternativeMarkets int
	MaxProjectionSwingPct float64
}

// DefaultOptions mirrors the config defaults.
func DefaultOptions() Options {
	return Options{
		MaxDistanceKm:         50,
		MinImprovementPct:     10,
		ForecastHorizonDays:   14,
		MaxAlternativeMarkets: 3,
		MaxProjectionSwingPct: 40,
	}
}

// Result is the unified engine output. It carries no clock or randomness:
// identical inputs against an unchanged dataset produce an identical Result.
type Result struct {
	Crop             string  `json:"crop"`
	QuantityKg       float64 `json:"quantity_kg"`
	DaysSinceHarvest int     `json:"days_since_harvest"`

	StorageDecision        Decision       `json:"storage_decision"`
	RecommendedWaitDays    int            `json:"recommended_wait_days"`
	SpoilageRisk           spoilage.Risk  `json:"spoilage_risk"`
	MaxSafeStorageDays     int            `json:"max_safe_storage_days"`
	StorageTypeRecommended *facility.Type `json:"storage_type_recommended"`
	StorageFacility        *matcher.Option `json:"storage_facility,omitempty"`
	StorageReasoning       string         `json:"storage_reasoning"`
	ProfitImprovementPct   float64        `json:"profit_improvement_percent"`

	BestMarketName  string  `json:"best_market_name"`
	MarketPrice     float64 `json:"market_price"`
	TransportCost   float64 `json:"transport_cost"`
	StorageCost     float64 `json:"storage_cost"`
	NetProfit       float64 `json:"net_profit"`
	ProfitMarginPct float64 `json:"profit_margin_percent"`

	CurrentPrice float64        `json:"current_price"`
	PeakPrice    float64        `json:"peak_price"`
	PeakDay      int            `json:"peak_day"`
	PriceTrend   forecast.Trend `json:"price_trend"`

	AlternativeMarkets []marketsel.Option `json:"alternative_markets"`
	Notes              string             `json:"notes,omitempty"`
}
