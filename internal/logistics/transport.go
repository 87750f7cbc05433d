// Package logistics estimates the cost of moving a lot to a market. The rate
// table is operator configuration, not business logic: the estimator itself is
// a fixed base fee plus a per-km-per-kg component.
package logistics

import "github.com/shopspring/decimal"

// RateTable holds the haulage pricing knobs (rupees).
type RateTable struct {
	BaseFee    float64
	PerKmPerKg float64
}

// DefaultRateTable mirrors the config defaults.
func DefaultRateTable() RateTable {
	return RateTable{BaseFee: 150, PerKmPerKg: 0.015}
}

// Cost returns the deterministic transport cost for quantityKg over
// distanceKm, rounded to the paisa. Non-positive quantity costs nothing; it is
// rejected upstream before any estimate is requested.
func (r RateTable) Cost(distanceKm, quantityKg float64) float64 {
	if quantityKg <= 0 {
		return 0
	}
	if distanceKm < 0 {
		distanceKm = 0
	}
	variable := decimal.NewFromFloat(r.PerKmPerKg).
		Mul(decimal.NewFromFloat(distanceKm)).
		Mul(decimal.NewFromFloat(quantityKg))
	total := decimal.NewFromFloat(r.BaseFee).Add(variable)
	f, _ := total.Round(2).Float64()
	return f
}
