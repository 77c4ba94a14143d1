// Package indicator holds the pure derivation step of the refresh pipeline:
// one ticker row + campaign metadata + an optional trailing average in, one
// indicator record out. No I/O, no clock reads, no shared state.
package indicator

import (
	"time"

	"alpha-radar/internal/domain"
)

// DefaultBurstThreshold flags anomalous volume when the 24h quote volume
// exceeds this many times the trailing daily average.
const DefaultBurstThreshold = 3.8

type Inputs struct {
	Ticker   domain.RawTicker
	Campaign domain.CampaignEntry

	// TrailingAvg is only consulted when HasTrailingAvg is set; the
	// secondary kline fetch is best-effort and may have failed.
	TrailingAvg    float64
	HasTrailingAvg bool

	Now            time.Time
	BurstThreshold float64
}

// Derive computes one indicator record. The second return is false when the
// symbol must be excluded from the board: a non-positive price makes the
// volatility undefined, so the record is dropped rather than zero-filled.
func Derive(in Inputs) (domain.IndicatorRecord, bool) {
	t := in.Ticker
	if t.LastPrice <= 0 {
		return domain.IndicatorRecord{}, false
	}

	threshold := in.BurstThreshold
	if threshold <= 0 {
		threshold = DefaultBurstThreshold
	}

	rec := domain.IndicatorRecord{
		Symbol:        t.Symbol,
		Price:         t.LastPrice,
		VolatilityPct: (t.HighPrice - t.LowPrice) / t.LastPrice * 100,
		QuoteVolume:   t.QuoteVolume,
		TradeCount:    t.TradeCount,
		DaysRemaining: DaysRemaining(in.Campaign.End, in.Now),
		CampaignType:  in.Campaign.Type,
		VolumeState:   domain.VolumeUnknown,
	}

	// A zero trailing average is indistinguishable from "no data yet" on
	// this endpoint, so both report the ratio as unavailable.
	if in.HasTrailingAvg && in.TrailingAvg > 0 {
		rec.VolumeRatio = t.QuoteVolume / in.TrailingAvg
		rec.HasRatio = true
		rec.VolumeState = Classify(rec.VolumeRatio, threshold)
	}

	return rec, true
}

// Classify labels a volume ratio as burst or stable.
func Classify(ratio, threshold float64) domain.VolumeState {
	if ratio > threshold {
		return domain.VolumeBurst
	}
	return domain.VolumeStable
}

// DaysRemaining counts whole days from now until the campaign end date,
// clamped at zero for campaigns that already ended.
func DaysRemaining(end, now time.Time) int {
	d := int(end.Sub(now).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
