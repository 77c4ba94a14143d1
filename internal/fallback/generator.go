// Package fallback produces synthetic market data so the board keeps
// rendering when the exchange is unreachable. Pure in-process generation:
// it never performs I/O and never fails.
package fallback

import (
	"math/rand"
	"sync"
	"time"

	"alpha-radar/internal/domain"
)

// ratioChoices mirrors the plausible day-to-day volume ratios of a quiet
// market, with one inflated value so the burst highlight path gets
// exercised now and then.
var ratioChoices = []float64{0.8, 1.1, 1.2, 4.5}

// SyntheticTicker couples a fabricated snapshot row with the trailing
// average that produced its volume ratio, so the calculator can run the
// same derivation it runs on real data.
type SyntheticTicker struct {
	Ticker      domain.RawTicker
	TrailingAvg float64
}

type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator seeds the source; pass 0 for a time-based seed.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Snapshot fabricates one ticker per registry symbol. Prices sit in a
// plausible small-cap range and the high/low band is kept narrow so
// synthetic volatility stays low by construction (roughly 1-6%).
func (g *Generator) Snapshot(reg *domain.Registry) []SyntheticTicker {
	g.mu.Lock()
	defer g.mu.Unlock()

	symbols := reg.Symbols()
	out := make([]SyntheticTicker, 0, len(symbols))
	for _, symbol := range symbols {
		price := g.uniform(0.5, 5.0)
		band := price * g.uniform(0.005, 0.03)
		volume := g.uniform(5_000_000, 50_000_000)
		ratio := ratioChoices[g.rnd.Intn(len(ratioChoices))]

		out = append(out, SyntheticTicker{
			Ticker: domain.RawTicker{
				Symbol:      symbol,
				LastPrice:   price,
				HighPrice:   price + band,
				LowPrice:    price - band,
				QuoteVolume: volume,
				TradeCount:  int64(10_000 + g.rnd.Intn(40_001)),
			},
			TrailingAvg: volume / ratio,
		})
	}
	return out
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rnd.Float64()*(hi-lo)
}
