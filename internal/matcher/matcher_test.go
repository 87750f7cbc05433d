package matcher

import (
	"testing"

	"mandimitra/internal/facility"
	"mandimitra/internal/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var origin = geo.Point{Lat: 18.5204, Lon: 73.8567} // Pune

func nearPune(dLat float64) geo.Point {
	return geo.Point{Lat: origin.Lat + dLat, Lon: origin.Lon}
}

func testFacilities() []facility.Facility {
	return []facility.Facility{
		{ID: "f1", Name: "Pune Cold Hub", Type: facility.TypeCold, Location: nearPune(0.05), AvailableKg: 5000, DailyCostPerKg: 0.5, Available: true},
		{ID: "f2", Name: "Shivajinagar Cold", Type: facility.TypeCold, Location: nearPune(0.10), AvailableKg: 3000, DailyCostPerKg: 0.3, Available: true},
		{ID: "f3", Name: "Open Yard", Type: facility.TypeOpen, Location: nearPune(0.02), AvailableKg: 9000, DailyCostPerKg: 0.1, Available: true},
		{ID: "f4", Name: "Far Cold", Type: facility.TypeCold, Location: geo.Point{Lat: 19.9975, Lon: 73.7898}, AvailableKg: 9000, DailyCostPerKg: 0.2, Available: true}, // Nashik, ~165km
		{ID: "f5", Name: "Full Cold", Type: facility.TypeCold, Location: nearPune(0.03), AvailableKg: 500, DailyCostPerKg: 0.2, Available: true},
		{ID: "f6", Name: "Closed Cold", Type: facility.TypeCold, Location: nearPune(0.04), AvailableKg: 5000, DailyCostPerKg: 0.2, Available: false},
	}
}

func TestMatchFiltersAndRanks(t *testing.T) {
	opts := Match(testFacilities(), Request{
		Origin:        origin,
		Type:          facility.TypeCold,
		QuantityKg:    1000,
		DaysNeeded:    5,
		MaxDistanceKm: 50,
	})

	// f4 too far, f5 too small, f6 unavailable, f3 wrong type.
	require.Len(t, opts, 2)
	// f2 is cheaper (0.3*1000*5=1500) than f1 (0.5*1000*5=2500) despite being farther.
	assert.Equal(t, "f2", opts[0].Facility.ID)
	assert.Equal(t, 1500.0, opts[0].TotalCost)
	assert.Equal(t, "f1", opts[1].Facility.ID)
	assert.Equal(t, 2500.0, opts[1].TotalCost)
}

func TestMatchTieBreaks(t *testing.T) {
	same := []facility.Facility{
		{ID: "b", Type: facility.TypeCold, Location: nearPune(0.05), AvailableKg: 2000, DailyCostPerKg: 0.2, Available: true},
		{ID: "a", Type: facility.TypeCold, Location: nearPune(0.05), AvailableKg: 2000, DailyCostPerKg: 0.2, Available: true},
		{ID: "c", Type: facility.TypeCold, Location: nearPune(0.01), AvailableKg: 2000, DailyCostPerKg: 0.2, Available: true},
	}
	opts := Match(same, Request{Origin: origin, Type: facility.TypeCold, QuantityKg: 1000, DaysNeeded: 3, MaxDistanceKm: 50})

	require.Len(t, opts, 3)
	// Equal cost: nearer first, then id ascending.
	assert.Equal(t, "c", opts[0].Facility.ID)
	assert.Equal(t, "a", opts[1].Facility.ID)
	assert.Equal(t, "b", opts[2].Facility.ID)
}

func TestBest(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	opts := Match(testFacilities(), Request{Origin: origin, Type: facility.TypeCold, QuantityKg: 1000, DaysNeeded: 5, MaxDistanceKm: 50})
	best, ok := Best(opts)
	require.True(t, ok)
	assert.Equal(t, "f2", best.Facility.ID)
}

func TestMatchNoCandidates(t *testing.T) {
	opts := Match(testFacilities(), Request{
		Origin:        origin,
		Type:          facility.TypeControlledAtmosphere,
		QuantityKg:    1000,
		DaysNeeded:    5,
		MaxDistanceKm: 50,
	})
	assert.Empty(t, opts)
}
