// Package profit holds the money math shared by the market selector and the
// storage decision policy. Intermediate arithmetic runs on decimals so equal
// candidates compare equal regardless of evaluation order.
package profit

import "github.com/shopspring/decimal"

// Net returns pricePerKg*quantityKg - transportCost - storageCost, rounded to
// the paisa. Negative results are meaningful and returned as-is.
func Net(pricePerKg, quantityKg, transportCost, storageCost float64) float64 {
	gross := decimal.NewFromFloat(pricePerKg).Mul(decimal.NewFromFloat(quantityKg))
	net := gross.
		Sub(decimal.NewFromFloat(transportCost)).
		Sub(decimal.NewFromFloat(storageCost))
	f, _ := net.Round(2).Float64()
	return f
}

// ImprovementPct returns the percentage gain of candidate over baseline,
// clamped to 0 when the baseline is non-positive so a degenerate today-profit
// never divides into a bogus percentage.
func ImprovementPct(baseline, candidate float64) float64 {
	if baseline <= 0 {
		return 0
	}
	diff := decimal.NewFromFloat(candidate).Sub(decimal.NewFromFloat(baseline))
	pct := diff.Div(decimal.NewFromFloat(baseline)).Mul(decimal.NewFromInt(100))
	f, _ := pct.Round(2).Float64()
	return f
}

// MarginPct is net profit as a percentage of gross revenue, 0 when revenue is
// non-positive.
func MarginPct(netProfit, grossRevenue float64) float64 {
	if grossRevenue <= 0 {
		return 0
	}
	pct := decimal.NewFromFloat(netProfit).
		Div(decimal.NewFromFloat(grossRevenue)).
		Mul(decimal.NewFromInt(100))
	f, _ := pct.Round(2).Float64()
	return f
}
