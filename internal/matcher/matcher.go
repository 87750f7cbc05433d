// Package matcher filters and ranks storage facilities for a lot. Absence of a
// candidate is a valid decision branch, not an error.
package matcher

import (
	"sort"

	"mandimitra/internal/facility"
	"mandimitra/internal/pkg/geo"

	"github.com/shopspring/decimal"
)

// Request describes what the lot needs from a facility.
type Request struct {
	Origin        geo.Point
	Type          facility.Type
	QuantityKg    float64
	DaysNeeded    int
	MaxDistanceKm float64
}

// Option is a facility that satisfies the request, with the computed distance
// and the total cost of storing the lot for the requested duration.
type Option struct {
	Facility   facility.Facility `json:"facility"`
	DistanceKm float64           `json:"distance_km"`
	TotalCost  float64           `json:"total_cost"`
}

// Match returns all matching facilities sorted ascending by total cost, ties
// broken by distance then facility id so selection is deterministic across
// runs and platforms.
func Match(facilities []facility.Facility, req Request) []Option {
	if req.MaxDistanceKm <= 0 {
		req.MaxDistanceKm = 50
	}
	days := req.DaysNeeded
	if days < 1 {
		days = 1
	}
	var out []Option
	for _, f := range facilities {
		if !f.Available || f.Type != req.Type {
			continue
		}
		if f.AvailableKg < req.QuantityKg {
			continue
		}
		dist := geo.DistanceKm(req.Origin, f.Location)
		if dist > req.MaxDistanceKm {
			continue
		}
		out = append(out, Option{
			Facility:   f,
			DistanceKm: dist,
			TotalCost:  totalCost(f.DailyCostPerKg, req.QuantityKg, days),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalCost != out[j].TotalCost {
			return out[i].TotalCost < out[j].TotalCost
		}
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].Facility.ID < out[j].Facility.ID
	})
	return out
}

// Best returns the cheapest option, ok=false when nothing matched.
func Best(options []Option) (Option, bool) {
	if len(options) == 0 {
		return Option{}, false
	}
	return options[0], true
}

func totalCost(dailyCostPerKg, quantityKg float64, days int) float64 {
	total := decimal.NewFromFloat(dailyCostPerKg).
		Mul(decimal.NewFromFloat(quantityKg)).
		Mul(decimal.NewFromInt(int64(days)))
	f, _ := total.Round(2).Float64()
	return f
}
