// Package forecast projects a short-horizon price path from a trailing daily
// price series and locates the projected peak.
package forecast

import (
	"mandimitra/internal/mandi"

	talib "github.com/markcheno/go-talib"
)

// Trend tags the direction of the trailing series.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// Daily-rate thresholds (percent) separating rising/stable/falling.
const trendThresholdPct = 1.0

// Forecast is the projection output. Projected[0] is today's price; PeakDay is
// the offset into Projected with the highest price. For stable and falling
// trends the peak collapses to day 0: storing is only ever recommended under a
// rising trend.
type Forecast struct {
	CurrentPrice   float64   `json:"current_price"`
	PeakPrice      float64   `json:"peak_price"`
	PeakDay        int       `json:"peak_day"`
	Trend          Trend     `json:"trend"`
	DailyChangePct float64   `json:"daily_change_pct"`
	Projected      []float64 `json:"projected"`
}

// Project classifies the trend of history (oldest to newest) via the linear
// regression slope of the series and compounds the fitted daily rate forward
// horizonDays, clamping the cumulative move to ±maxSwingPct of the current
// price so a steep fortnight cannot compound into an unbounded projection.
func Project(history []mandi.PricePoint, currentPrice float64, horizonDays int, maxSwingPct float64) Forecast {
	if horizonDays <= 0 {
		horizonDays = 14
	}
	if maxSwingPct <= 0 {
		maxSwingPct = 40
	}

	fc := Forecast{
		CurrentPrice: currentPrice,
		PeakPrice:    currentPrice,
		PeakDay:      0,
		Trend:        TrendStable,
	}
	if len(history) < 2 || currentPrice <= 0 {
		fc.Projected = flatPath(currentPrice, horizonDays)
		return fc
	}

	prices := make([]float64, len(history))
	var sum float64
	for i, p := range history {
		prices[i] = p.Price
		sum += p.Price
	}
	mean := sum / float64(len(prices))
	if mean <= 0 {
		fc.Projected = flatPath(currentPrice, horizonDays)
		return fc
	}

	slopes := talib.LinearRegSlope(prices, len(prices))
	slope := slopes[len(slopes)-1]
	fc.DailyChangePct = slope / mean * 100

	switch {
	case fc.DailyChangePct > trendThresholdPct:
		fc.Trend = TrendRising
	case fc.DailyChangePct < -trendThresholdPct:
		fc.Trend = TrendFalling
	}

	fc.Projected = compoundPath(currentPrice, fc.DailyChangePct/100, horizonDays, maxSwingPct)
	if fc.Trend != TrendRising {
		return fc
	}
	for day, price := range fc.Projected {
		if price > fc.PeakPrice {
			fc.PeakPrice = price
			fc.PeakDay = day
		}
	}
	return fc
}

func flatPath(price float64, horizonDays int) []float64 {
	path := make([]float64, horizonDays+1)
	for i := range path {
		path[i] = price
	}
	return path
}

func compoundPath(current, dailyRate float64, horizonDays int, maxSwingPct float64) []float64 {
	upper := current * (1 + maxSwingPct/100)
	lower := current * (1 - maxSwingPct/100)
	if lower < 0 {
		lower = 0
	}
	path := make([]float64, horizonDays+1)
	path[0] = current
	price := current
	for day := 1; day <= horizonDays; day++ {
		price *= 1 + dailyRate
		if price > upper {
			price = upper
		}
		if price < lower {
			price = lower
		}
		path[day] = price
	}
	return path
}
