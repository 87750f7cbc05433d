// Package engine orchestrates the post-harvest decision: spoilage risk, price
// forecast, storage matching and market selection combined into a single
// sell-now vs store-and-sell recommendation. The engine is stateless and
// synchronous per invocation; every lookup runs against an immutable snapshot.
package engine

import (
	"context"
	"fmt"

	"mandimitra/internal/crops"
	"mandimitra/internal/facility"
	"mandimitra/internal/forecast"
	"mandimitra/internal/logger"
	"mandimitra/internal/logistics"
	"mandimitra/internal/marketsel"
	"mandimitra/internal/matcher"
	"mandimitra/internal/profit"
	"mandimitra/internal/spoilage"
)

// Engine evaluates farmer requests against injected reference data.
type Engine struct {
	sources Sources
	rates   logistics.RateTable
	opts    Options
}

// New wires an engine. Zero option fields fall back to defaults.
func New(sources Sources, rates logistics.RateTable, opts Options) *Engine {
	def := DefaultOptions()
	if opts.MaxDistanceKm <= 0 {
		opts.MaxDistanceKm = def.MaxDistanceKm
	}
	if opts.MinImprovementPct <= 0 {
		opts.MinImprovementPct = def.MinImprovementPct
	}
	if opts.ForecastHorizonDays <= 0 {
		opts.ForecastHorizonDays = def.ForecastHorizonDays
	}
	if opts.MaxAlternativeMarkets <= 0 {
		opts.MaxAlternativeMarkets = def.MaxAlternativeMarkets
	}
	if opts.MaxProjectionSwingPct <= 0 {
		opts.MaxProjectionSwingPct = def.MaxProjectionSwingPct
	}
	return &Engine{sources: sources, rates: rates, opts: opts}
}

// Evaluate runs the full decision sequence for one lot. Only contract
// violations return an error; missing markets or facilities degrade to a
// SELL_NOW result with an explanatory note.
func (e *Engine) Evaluate(ctx context.Context, req Request) (*Result, error) {
	days, err := validate(req)
	if err != nil {
		return nil, err
	}

	meta, known := e.sources.Crops().Lookup(req.Crop)
	if !known {
		meta = crops.DefaultProfile(req.Crop)
		logger.Warnf("unknown crop %q, using conservative default profile", req.Crop)
	}
	storageType := requiredStorageType(meta)

	result := &Result{
		Crop:             crops.Normalize(req.Crop),
		QuantityKg:       req.QuantityKg,
		DaysSinceHarvest: days,
	}

	selector := marketsel.NewSelector(e.sources.Markets(), e.rates, e.opts.MaxAlternativeMarkets)
	rec, marketsFound, err := selector.Select(ctx, req.Location, req.Crop, req.QuantityKg, 0)
	if err != nil {
		return nil, fmt.Errorf("market selection failed: %w", err)
	}
	if !marketsFound {
		assessment := spoilage.Assess(meta, days, storageType, !known)
		result.StorageDecision = DecisionSellNow
		result.SpoilageRisk = assessment.Risk
		result.MaxSafeStorageDays = assessment.MaxSafeStorageDays
		result.StorageReasoning = "no market trades this crop; sell at the nearest local buyer"
		result.PriceTrend = forecast.TrendStable
		result.Notes = "no price data available for " + result.Crop
		return result, nil
	}

	data, _, err := e.sources.Markets().Snapshot(ctx, rec.Best.Market, req.Crop)
	if err != nil {
		return nil, fmt.Errorf("price snapshot failed: %w", err)
	}
	fc := forecast.Project(data.History, data.CurrentPrice, e.opts.ForecastHorizonDays, e.opts.MaxProjectionSwingPct)

	assessment := spoilage.Assess(meta, days, storageType, !known)

	daysNeeded := fc.PeakDay
	if assessment.MaxSafeStorageDays < daysNeeded {
		daysNeeded = assessment.MaxSafeStorageDays
	}
	// The risk tier is re-checked at the projected sell day: a lot that is
	// safe today but crosses into high risk before the peak must not be
	// stored.
	if daysNeeded > 0 && assessment.Risk != spoilage.RiskHigh {
		future := spoilage.Assess(meta, days+daysNeeded, storageType, !known)
		if future.Risk == spoilage.RiskHigh {
			assessment.Risk = spoilage.RiskHigh
			assessment.Reasoning += "; spoilage risk becomes high before the projected peak"
		}
	}

	options := matcher.Match(e.sources.Facilities(), matcher.Request{
		Origin:        req.Location,
		Type:          storageType,
		QuantityKg:    req.QuantityKg,
		DaysNeeded:    daysNeeded,
		MaxDistanceKm: e.opts.MaxDistanceKm,
	})
	var storageOpt *matcher.Option
	if best, ok := matcher.Best(options); ok {
		storageOpt = &best
	}

	sd := DecideStorage(PolicyInputs{
		QuantityKg:        req.QuantityKg,
		CurrentPrice:      data.CurrentPrice,
		Forecast:          fc,
		Spoilage:          assessment,
		Storage:           storageOpt,
		TransportCost:     rec.Best.TransportCost,
		MinImprovementPct: e.opts.MinImprovementPct,
	})

	result.StorageDecision = sd.Decision
	result.RecommendedWaitDays = sd.RecommendedWaitDays
	result.SpoilageRisk = assessment.Risk
	result.MaxSafeStorageDays = assessment.MaxSafeStorageDays
	result.StorageReasoning = sd.Reasoning
	result.ProfitImprovementPct = sd.ImprovementPct
	if sd.Decision == DecisionStoreAndSell {
		t := storageType
		result.StorageTypeRecommended = &t
		result.StorageFacility = sd.Storage
	}

	result.BestMarketName = rec.Best.Market
	result.MarketPrice = rec.Best.PricePerKg
	result.TransportCost = rec.Best.TransportCost
	result.CurrentPrice = data.CurrentPrice
	result.PeakPrice = fc.PeakPrice
	result.PeakDay = fc.PeakDay
	result.PriceTrend = fc.Trend
	result.AlternativeMarkets = rec.Alternatives

	if sd.Decision == DecisionStoreAndSell {
		result.StorageCost = sd.Storage.TotalCost
		result.NetProfit = sd.ProfitAtPeak
		result.ProfitMarginPct = profit.MarginPct(sd.ProfitAtPeak, fc.PeakPrice*req.QuantityKg)
	} else {
		result.NetProfit = rec.Best.NetProfit
		result.ProfitMarginPct = profit.MarginPct(rec.Best.NetProfit, rec.Best.PricePerKg*req.QuantityKg)
	}
	return result, nil
}

func validate(req Request) (int, error) {
	if req.QuantityKg <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive, got %v", ErrInvalidInput, req.QuantityKg)
	}
	if !req.Location.Valid() {
		return 0, fmt.Errorf("%w: malformed coordinates (%v, %v)", ErrInvalidInput, req.Location.Lat, req.Location.Lon)
	}
	if req.HarvestDate.IsZero() || req.EvaluationDate.IsZero() {
		return 0, fmt.Errorf("%w: harvest and evaluation dates are required", ErrInvalidInput)
	}
	days := int(req.EvaluationDate.Sub(req.HarvestDate).Hours() / 24)
	if days < 0 {
		return 0, fmt.Errorf("%w: evaluation date precedes harvest date", ErrInvalidInput)
	}
	return days, nil
}

// requiredStorageType picks the storage technology to match for: sensitive
// crops need the cold chain, hardy ones store in the open.
func requiredStorageType(meta crops.Metadata) facility.Type {
	if meta.Sensitivity == crops.SensitivityLow {
		return facility.TypeOpen
	}
	return facility.TypeCold
}
