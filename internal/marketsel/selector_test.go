package marketsel

import (
	"context"
	"testing"
	"time"

	"mandimitra/internal/logistics"
	"mandimitra/internal/mandi"
	"mandimitra/internal/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var farm = geo.Point{Lat: 18.5204, Lon: 73.8567}

func provider() *mandi.StaticProvider {
	anchor := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	markets := []mandi.Market{
		{Name: "Pune", District: "Pune", Location: geo.Point{Lat: 18.53, Lon: 73.86}},
		{Name: "Mumbai", District: "Mumbai", Location: geo.Point{Lat: 19.0760, Lon: 72.8777}},
		{Name: "Nashik", District: "Nashik", Location: geo.Point{Lat: 19.9975, Lon: 73.7898}},
	}
	series := []mandi.PriceSeries{
		{Market: "Pune", Crop: "potato", CurrentPrice: 20, History: []float64{20, 20, 20}, Demand: mandi.DemandMedium},
		{Market: "Mumbai", Crop: "potato", CurrentPrice: 21, History: []float64{21, 21, 21}, Demand: mandi.DemandHigh},
		{Market: "Nashik", Crop: "onion", CurrentPrice: 25, History: []float64{25, 25, 25}, Demand: mandi.DemandHigh},
	}
	return mandi.NewStaticProvider(markets, series, anchor)
}

func TestSelectRanksByNetProfit(t *testing.T) {
	// High per-km rate: Mumbai's +1/kg price cannot pay for ~120km of haulage.
	sel := NewSelector(provider(), logistics.RateTable{BaseFee: 150, PerKmPerKg: 0.05}, 3)

	rec, ok, err := sel.Select(context.Background(), farm, "potato", 2000, 0)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "Pune", rec.Best.Market)
	require.Len(t, rec.Alternatives, 1)
	assert.Equal(t, "Mumbai", rec.Alternatives[0].Market)
	assert.GreaterOrEqual(t, rec.Best.NetProfit, rec.Alternatives[0].NetProfit)
	// Mumbai's nominal price is still higher.
	assert.Greater(t, rec.Alternatives[0].PricePerKg, rec.Best.PricePerKg)
}

func TestSelectHigherPriceWinsWhenTransportCheap(t *testing.T) {
	sel := NewSelector(provider(), logistics.RateTable{BaseFee: 10, PerKmPerKg: 0.0001}, 3)

	rec, ok, err := sel.Select(context.Background(), farm, "potato", 2000, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Mumbai", rec.Best.Market)
}

func TestSelectNoMarketTradesCrop(t *testing.T) {
	sel := NewSelector(provider(), logistics.DefaultRateTable(), 3)

	_, ok, err := sel.Select(context.Background(), farm, "durian", 100, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSelectDeterministic(t *testing.T) {
	sel := NewSelector(provider(), logistics.DefaultRateTable(), 3)

	a, _, err := sel.Select(context.Background(), farm, "potato", 500, 0)
	require.NoError(t, err)
	b, _, err := sel.Select(context.Background(), farm, "potato", 500, 0)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSelectStorageCostLowersNet(t *testing.T) {
	sel := NewSelector(provider(), logistics.DefaultRateTable(), 3)

	free, _, err := sel.Select(context.Background(), farm, "potato", 500, 0)
	require.NoError(t, err)
	stored, _, err := sel.Select(context.Background(), farm, "potato", 500, 1000)
	require.NoError(t, err)
	assert.Equal(t, free.Best.NetProfit-1000, stored.Best.NetProfit)
}
