package domain

import (
	"fmt"
	"sort"
	"time"
)

type CampaignType string

const (
	CampaignMegadrop   CampaignType = "Megadrop"
	CampaignLaunchpool CampaignType = "Launchpool"
	CampaignOther      CampaignType = "Other"
)

// CampaignEntry describes one watched trading pair and the promotion
// attached to it. End is a UTC calendar date (midnight).
type CampaignEntry struct {
	Symbol string       `json:"symbol"`
	End    time.Time    `json:"end"`
	Type   CampaignType `json:"type"`
}

// Registry is the immutable watch-list, built once at startup and passed
// explicitly to whoever needs campaign metadata.
type Registry struct {
	entries map[string]CampaignEntry
	order   []string
}

func NewRegistry(entries []CampaignEntry) (*Registry, error) {
	r := &Registry{entries: make(map[string]CampaignEntry, len(entries))}
	for _, e := range entries {
		if e.Symbol == "" {
			return nil, fmt.Errorf("campaign entry with empty symbol")
		}
		if _, dup := r.entries[e.Symbol]; dup {
			return nil, fmt.Errorf("duplicate campaign symbol %s", e.Symbol)
		}
		r.entries[e.Symbol] = e
		r.order = append(r.order, e.Symbol)
	}
	if len(r.order) == 0 {
		return nil, fmt.Errorf("campaign registry is empty")
	}
	sort.Strings(r.order)
	return r, nil
}

func (r *Registry) Lookup(symbol string) (CampaignEntry, bool) {
	e, ok := r.entries[symbol]
	return e, ok
}

// Symbols returns the watch-list in a stable (sorted) order.
func (r *Registry) Symbols() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}

// Entries returns all campaigns in symbol order.
func (r *Registry) Entries() []CampaignEntry {
	out := make([]CampaignEntry, 0, len(r.order))
	for _, s := range r.order {
		out = append(out, r.entries[s])
	}
	return out
}

// AirdropRecord is a static reference row for past campaign payouts,
// shown alongside the live board.
type AirdropRecord struct {
	Project     string `json:"project"`
	Type        string `json:"type"`
	AvgDailyPct string `json:"avg_daily_pct"`
	PeakReturn  string `json:"peak_return"`
}

// HistoryAirdrops is display-only reference data; it never feeds the pipeline.
var HistoryAirdrops = []AirdropRecord{
	{Project: "ENA", Type: "Launchpool", AvgDailyPct: "1.5%", PeakReturn: "12x"},
	{Project: "ETHFI", Type: "Launchpool", AvgDailyPct: "1.2%", PeakReturn: "8x"},
}

// AnnouncementURL points at the exchange's campaign announcement feed.
const AnnouncementURL = "https://www.binance.com/en/support/announcement/launchpool-updates"
