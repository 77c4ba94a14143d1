package domain

import "time"

// Mode tells the presentation layer whether a board was computed from live
// exchange data or from the synthetic fallback. A board is never mixed.
type Mode string

const (
	ModeReal      Mode = "real"
	ModeSimulated Mode = "simulated"
)

// RawTicker is one row of the exchange's full-market 24h snapshot.
// Transient: discarded after indicator derivation.
type RawTicker struct {
	Symbol      string
	LastPrice   float64
	HighPrice   float64
	LowPrice    float64
	QuoteVolume float64
	TradeCount  int64
}

// KlineBar is one daily candle. The pipeline only consumes the quote-asset
// volume; the price fields are kept for the kline store and API.
type KlineBar struct {
	Symbol      string    `json:"symbol"`
	OpenTime    time.Time `json:"open_time"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	Close       float64   `json:"close"`
	QuoteVolume float64   `json:"quote_volume"`
}

type VolumeState string

const (
	VolumeBurst   VolumeState = "burst"
	VolumeStable  VolumeState = "stable"
	VolumeUnknown VolumeState = "unknown"
)

// IndicatorRecord is the pipeline's sole output unit, created fresh each
// refresh and never mutated afterwards.
//
// VolumeRatio is only meaningful when HasRatio is true. A missing or zero
// trailing average is reported as unavailable, not as a numeric zero, so a
// genuinely flat market (HasRatio=true, ratio 0) stays distinguishable.
type IndicatorRecord struct {
	Symbol        string       `json:"symbol"`
	Price         float64      `json:"price"`
	VolatilityPct float64      `json:"volatility_pct"`
	QuoteVolume   float64      `json:"quote_volume"`
	VolumeRatio   float64      `json:"volume_ratio"`
	HasRatio      bool         `json:"has_ratio"`
	VolumeState   VolumeState  `json:"volume_state"`
	TradeCount    int64        `json:"trade_count"`
	DaysRemaining int          `json:"days_remaining"`
	CampaignType  CampaignType `json:"campaign_type"`
}

// Board is one complete refresh result: a fully materialized, ranked record
// set plus the mode it was computed under. It atomically replaces the
// previous cycle's board; there is no incremental merge.
type Board struct {
	Mode        Mode              `json:"mode"`
	GeneratedAt time.Time         `json:"generated_at"`
	Records     []IndicatorRecord `json:"records"`
}

// TopByTrades returns the n busiest records of an already-ranked board.
func (b Board) TopByTrades(n int) []IndicatorRecord {
	if n > len(b.Records) {
		n = len(b.Records)
	}
	return b.Records[:n]
}

// Bursts returns only the records flagged with anomalous volume.
func (b Board) Bursts() []IndicatorRecord {
	var out []IndicatorRecord
	for _, r := range b.Records {
		if r.VolumeState == VolumeBurst {
			out = append(out, r)
		}
	}
	return out
}
