package engine

import (
	"fmt"

	"mandimitra/internal/forecast"
	"mandimitra/internal/matcher"
	"mandimitra/internal/profit"
	"mandimitra/internal/spoilage"
)

// PolicyInputs feeds the storage decision. Storage is nil when the matcher
// found no facility.
type PolicyInputs struct {
	QuantityKg        float64
	CurrentPrice      float64
	Forecast          forecast.Forecast
	Spoilage          spoilage.Assessment
	Storage           *matcher.Option
	TransportCost     float64
	MinImprovementPct float64
}

// StorageDecision is the policy verdict plus the numbers behind it.
type StorageDecision struct {
	Decision            Decision
	RecommendedWaitDays int
	Storage             *matcher.Option
	ImprovementPct      float64
	ProfitToday         float64
	ProfitAtPeak        float64
	Reasoning           string
}

// DecideStorage is the policy core: a pure function over its inputs, evaluated
// in strict first-match-wins order. This purity is the single most important
// contract of the engine — every verdict is re-derivable from the inputs.
func DecideStorage(in PolicyInputs) StorageDecision {
	if in.Storage == nil {
		return StorageDecision{
			Decision:  DecisionSellNow,
			Reasoning: "no storage facility within range; sell now",
		}
	}
	if in.Spoilage.Risk == spoilage.RiskHigh {
		return StorageDecision{
			Decision:  DecisionSellNow,
			Reasoning: "spoilage risk too high to store; sell now. " + in.Spoilage.Reasoning,
		}
	}

	profitToday := profit.Net(in.CurrentPrice, in.QuantityKg, in.TransportCost, 0)
	safeWaitDays := in.Forecast.PeakDay
	if in.Spoilage.MaxSafeStorageDays < safeWaitDays {
		safeWaitDays = in.Spoilage.MaxSafeStorageDays
	}
	profitAtPeak := profit.Net(in.Forecast.PeakPrice, in.QuantityKg, in.TransportCost, in.Storage.TotalCost)
	improvement := profit.ImprovementPct(profitToday, profitAtPeak)

	if improvement >= in.MinImprovementPct && safeWaitDays > 0 {
		return StorageDecision{
			Decision:            DecisionStoreAndSell,
			RecommendedWaitDays: safeWaitDays,
			Storage:             in.Storage,
			ImprovementPct:      improvement,
			ProfitToday:         profitToday,
			ProfitAtPeak:        profitAtPeak,
			Reasoning: fmt.Sprintf(
				"%s price trend projects a peak in %d day(s); storing at %s improves net profit by %.1f%%",
				in.Forecast.Trend, safeWaitDays, in.Storage.Facility.Name, improvement),
		}
	}

	reason := fmt.Sprintf("waiting offers %.1f%% improvement, below the %.1f%% threshold; sell now",
		improvement, in.MinImprovementPct)
	if in.Forecast.Trend != forecast.TrendRising {
		reason = fmt.Sprintf("%s price trend offers no gain from waiting; sell now", in.Forecast.Trend)
	} else if safeWaitDays <= 0 {
		reason = "no safe storage window remains before the projected peak; sell now"
	}
	return StorageDecision{
		Decision:       DecisionSellNow,
		Storage:        in.Storage,
		ImprovementPct: improvement,
		ProfitToday:    profitToday,
		ProfitAtPeak:   profitAtPeak,
		Reasoning:      reason,
	}
}
