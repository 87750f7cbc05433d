// Package mandi supplies per-(market, crop) price snapshots: the current price,
// a trailing daily price history and a coarse demand tier. In production this
// would front a live agmarknet-style feed; here it serves versioned dataset
// snapshots so every engine invocation sees immutable data.
package mandi

import (
	"context"
	"time"

	"mandimitra/internal/crops"
	"mandimitra/internal/pkg/geo"
)

// DemandTier is a coarse buyer-demand signal carried for presentation; the
// market ranking itself is strictly net-profit based.
type DemandTier string

const (
	DemandLow    DemandTier = "low"
	DemandMedium DemandTier = "medium"
	DemandHigh   DemandTier = "high"
)

// Market is one mandi in the directory.
type Market struct {
	Name     string    `yaml:"name" json:"name"`
	District string    `yaml:"district" json:"district"`
	Location geo.Point `yaml:"location" json:"location"`
}

// PricePoint is one day of the trailing history.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PriceData is the snapshot for one (market, crop) pair. History runs oldest
// to newest and typically covers the trailing 14 days.
type PriceData struct {
	Market       string       `json:"market"`
	Crop         string       `json:"crop"`
	CurrentPrice float64      `json:"current_price"`
	History      []PricePoint `json:"history"`
	Demand       DemandTier   `json:"demand"`
}

// PriceSeries is the dataset-file shape: bare prices, dates synthesized at
// load time as the trailing days before the anchor date.
type PriceSeries struct {
	Market       string     `yaml:"market"`
	Crop         string     `yaml:"crop"`
	CurrentPrice float64    `yaml:"current_price"`
	History      []float64  `yaml:"history"`
	Demand       DemandTier `yaml:"demand"`
}

// Provider yields market directory entries and price snapshots. Snapshot
// returns ok=false when the market does not trade the crop; that is a data
// gap, not an error.
type Provider interface {
	Markets() []Market
	Snapshot(ctx context.Context, market, crop string) (PriceData, bool, error)
}

// StaticProvider is the snapshot-backed Provider used both in production (over
// the loaded dataset) and in tests.
type StaticProvider struct {
	markets []Market
	prices  map[string]PriceData
}

var _ Provider = (*StaticProvider)(nil)

// NewStaticProvider indexes the given series by normalized (market, crop) key.
// History dates are assigned ending the day before anchor.
func NewStaticProvider(markets []Market, series []PriceSeries, anchor time.Time) *StaticProvider {
	p := &StaticProvider{
		markets: append([]Market(nil), markets...),
		prices:  make(map[string]PriceData, len(series)),
	}
	day := anchor.Truncate(24 * time.Hour)
	for _, s := range series {
		key := priceKey(s.Market, s.Crop)
		if key == "|" {
			continue
		}
		hist := make([]PricePoint, len(s.History))
		for i, price := range s.History {
			hist[i] = PricePoint{
				Date:  day.AddDate(0, 0, i-len(s.History)),
				Price: price,
			}
		}
		demand := s.Demand
		if demand == "" {
			demand = DemandMedium
		}
		p.prices[key] = PriceData{
			Market:       s.Market,
			Crop:         crops.Normalize(s.Crop),
			CurrentPrice: s.CurrentPrice,
			History:      hist,
			Demand:       demand,
		}
	}
	return p
}

// Markets returns a copy of the market directory.
func (p *StaticProvider) Markets() []Market {
	out := make([]Market, len(p.markets))
	copy(out, p.markets)
	return out
}

// Snapshot returns the price data for (market, crop), copying the history
// slice so callers can never mutate the shared snapshot.
func (p *StaticProvider) Snapshot(_ context.Context, market, crop string) (PriceData, bool, error) {
	data, ok := p.prices[priceKey(market, crop)]
	if !ok {
		return PriceData{}, false, nil
	}
	hist := make([]PricePoint, len(data.History))
	copy(hist, data.History)
	data.History = hist
	return data, true, nil
}

func priceKey(market, crop string) string {
	return crops.Normalize(market) + "|" + crops.Normalize(crop)
}
