package forecast

import (
	"testing"
	"time"

	"mandimitra/internal/mandi"

	"github.com/stretchr/testify/assert"
)

func series(prices ...float64) []mandi.PricePoint {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	out := make([]mandi.PricePoint, len(prices))
	for i, p := range prices {
		out[i] = mandi.PricePoint{Date: base.AddDate(0, 0, i), Price: p}
	}
	return out
}

func risingSeries() []mandi.PricePoint {
	// ~2% daily growth over 14 days.
	prices := make([]float64, 14)
	p := 20.0
	for i := range prices {
		prices[i] = p
		p *= 1.02
	}
	return series(prices...)
}

func TestProjectRising(t *testing.T) {
	fc := Project(risingSeries(), 25.0, 14, 40)

	assert.Equal(t, TrendRising, fc.Trend)
	assert.Greater(t, fc.DailyChangePct, 1.0)
	assert.Greater(t, fc.PeakDay, 0)
	assert.Greater(t, fc.PeakPrice, fc.CurrentPrice)
	assert.Len(t, fc.Projected, 15)
	// Cumulative projection never exceeds the ±40% clamp.
	assert.LessOrEqual(t, fc.PeakPrice, 25.0*1.4+1e-9)
}

func TestProjectFallingCollapsesPeak(t *testing.T) {
	fc := Project(series(30, 29, 28, 27, 26, 25, 24, 23, 22, 21, 20, 19, 18, 17), 17, 14, 40)

	assert.Equal(t, TrendFalling, fc.Trend)
	assert.Equal(t, 0, fc.PeakDay)
	assert.Equal(t, 17.0, fc.PeakPrice)
}

func TestProjectStable(t *testing.T) {
	fc := Project(series(20, 20.1, 19.9, 20, 20.05, 19.95, 20, 20.1, 19.9, 20, 20, 20.05, 19.95, 20), 20, 14, 40)

	assert.Equal(t, TrendStable, fc.Trend)
	assert.Equal(t, 0, fc.PeakDay)
	assert.Equal(t, 20.0, fc.PeakPrice)
}

func TestProjectShortHistory(t *testing.T) {
	fc := Project(series(20), 20, 14, 40)

	assert.Equal(t, TrendStable, fc.Trend)
	assert.Equal(t, 0, fc.PeakDay)
	assert.Equal(t, 20.0, fc.PeakPrice)
	assert.Len(t, fc.Projected, 15)
}

func TestProjectDeterministic(t *testing.T) {
	a := Project(risingSeries(), 25.0, 14, 40)
	b := Project(risingSeries(), 25.0, 14, 40)
	assert.Equal(t, a, b)
}
