// Package marketsel evaluates every market that trades a crop and ranks the
// candidates by net profit. Transport cost is subtracted before ranking and
// never used to exclude a market: a nearer, cheaper-price mandi can
// legitimately beat a farther one with a higher nominal price.
package marketsel

import (
	"context"
	"sort"

	"mandimitra/internal/logistics"
	"mandimitra/internal/mandi"
	"mandimitra/internal/pkg/geo"
	"mandimitra/internal/profit"

	"golang.org/x/sync/errgroup"
)

// Option is one evaluated market candidate.
type Option struct {
	Market        string           `json:"market_name"`
	District      string           `json:"district,omitempty"`
	PricePerKg    float64          `json:"price"`
	DistanceKm    float64          `json:"distance_km"`
	TransportCost float64          `json:"transport_cost"`
	NetProfit     float64          `json:"net_profit"`
	Demand        mandi.DemandTier `json:"demand"`
}

// Recommendation is the best market plus ranked alternatives.
type Recommendation struct {
	Best         Option   `json:"best"`
	Alternatives []Option `json:"alternatives"`
}

// Selector ranks markets for a lot.
type Selector struct {
	provider        mandi.Provider
	rates           logistics.RateTable
	maxAlternatives int
}

// NewSelector wires the selector. maxAlternatives caps the alternatives list
// (the best option is not counted against it).
func NewSelector(provider mandi.Provider, rates logistics.RateTable, maxAlternatives int) *Selector {
	if maxAlternatives <= 0 {
		maxAlternatives = 3
	}
	return &Selector{provider: provider, rates: rates, maxAlternatives: maxAlternatives}
}

// Select fetches a price snapshot per market concurrently, computes net profit
// for each and returns the ranked recommendation. ok=false means no market
// trades this crop, which the engine degrades to a SELL_NOW-only result.
func (s *Selector) Select(ctx context.Context, origin geo.Point, crop string, quantityKg, storageCost float64) (Recommendation, bool, error) {
	markets := s.provider.Markets()
	candidates := make([]*Option, len(markets))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range markets {
		g.Go(func() error {
			data, ok, err := s.provider.Snapshot(gctx, m.Name, crop)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			dist := geo.DistanceKm(origin, m.Location)
			transport := s.rates.Cost(dist, quantityKg)
			candidates[i] = &Option{
				Market:        m.Name,
				District:      m.District,
				PricePerKg:    data.CurrentPrice,
				DistanceKm:    dist,
				TransportCost: transport,
				NetProfit:     profit.Net(data.CurrentPrice, quantityKg, transport, storageCost),
				Demand:        data.Demand,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Recommendation{}, false, err
	}

	options := make([]Option, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			options = append(options, *c)
		}
	}
	if len(options) == 0 {
		return Recommendation{}, false, nil
	}

	sort.SliceStable(options, func(i, j int) bool {
		if options[i].NetProfit != options[j].NetProfit {
			return options[i].NetProfit > options[j].NetProfit
		}
		if options[i].TransportCost != options[j].TransportCost {
			return options[i].TransportCost < options[j].TransportCost
		}
		return options[i].Market < options[j].Market
	})

	rec := Recommendation{Best: options[0]}
	rest := options[1:]
	if len(rest) > s.maxAlternatives {
		rest = rest[:s.maxAlternatives]
	}
	rec.Alternatives = append([]Option(nil), rest...)
	return rec, true, nil
}
