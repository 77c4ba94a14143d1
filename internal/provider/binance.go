package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"alpha-radar/internal/domain"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	ticker24hPath = "/api/v3/ticker/24hr"
	klinesPath    = "/api/v3/klines"
)

// BinanceProvider fetches the full-market 24h ticker snapshot and per-symbol
// daily klines from the Binance public REST API. All numeric fields arrive
// string-encoded and are parsed here; callers only see typed values.
//
// There is no retry: a failed attempt is final for the cycle and the caller
// decides whether to degrade or fall back.
type BinanceProvider struct {
	client          *http.Client
	baseURL         string
	tracer          trace.Tracer
	limiter         *rate.Limiter
	snapshotTimeout time.Duration
	klineTimeout    time.Duration
}

func NewBinanceProvider(tracer trace.Tracer, baseURL string, snapshotTimeout, klineTimeout time.Duration) *BinanceProvider {
	if snapshotTimeout <= 0 {
		snapshotTimeout = 5 * time.Second
	}
	if klineTimeout <= 0 {
		klineTimeout = 3 * time.Second
	}
	return &BinanceProvider{
		client:          &http.Client{},
		baseURL:         baseURL,
		tracer:          tracer,
		limiter:         rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		snapshotTimeout: snapshotTimeout,
		klineTimeout:    klineTimeout,
	}
}

type ticker24hRow struct {
	Symbol      string `json:"symbol"`
	LastPrice   string `json:"lastPrice"`
	HighPrice   string `json:"highPrice"`
	LowPrice    string `json:"lowPrice"`
	QuoteVolume string `json:"quoteVolume"`
	Count       int64  `json:"count"`
}

// FetchSnapshot retrieves one full-market 24h ticker snapshot. The response
// must be a non-empty array of objects each carrying a symbol; anything else
// is ErrMalformedResponse. Transport failures, timeouts and non-200 statuses
// are ErrUnreachable.
func (p *BinanceProvider) FetchSnapshot(ctx context.Context) ([]domain.RawTicker, error) {
	ctx, span := p.tracer.Start(ctx, "binance.fetch-snapshot")
	defer span.End()

	body, err := p.doRequest(ctx, "fetch snapshot", p.baseURL+ticker24hPath, p.snapshotTimeout)
	if err != nil {
		return nil, err
	}

	var rows []ticker24hRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, malformed("fetch snapshot", err)
	}
	if len(rows) == 0 {
		return nil, malformed("fetch snapshot", fmt.Errorf("empty ticker array"))
	}

	tickers := make([]domain.RawTicker, 0, len(rows))
	for _, row := range rows {
		if row.Symbol == "" {
			return nil, malformed("fetch snapshot", fmt.Errorf("ticker row without symbol"))
		}
		t := domain.RawTicker{Symbol: row.Symbol, TradeCount: row.Count}
		if t.LastPrice, err = parseDecimal(row.LastPrice); err != nil {
			return nil, malformed("fetch snapshot", fmt.Errorf("%s lastPrice: %w", row.Symbol, err))
		}
		if t.HighPrice, err = parseDecimal(row.HighPrice); err != nil {
			return nil, malformed("fetch snapshot", fmt.Errorf("%s highPrice: %w", row.Symbol, err))
		}
		if t.LowPrice, err = parseDecimal(row.LowPrice); err != nil {
			return nil, malformed("fetch snapshot", fmt.Errorf("%s lowPrice: %w", row.Symbol, err))
		}
		if t.QuoteVolume, err = parseDecimal(row.QuoteVolume); err != nil {
			return nil, malformed("fetch snapshot", fmt.Errorf("%s quoteVolume: %w", row.Symbol, err))
		}
		tickers = append(tickers, t)
	}
	return tickers, nil
}

// TrailingAvgVolume fetches the last `days` daily klines for one symbol and
// returns the arithmetic mean of their quote-asset volumes, plus the parsed
// bars for optional persistence. This is the secondary, per-symbol call: the
// caller treats any error here as "ratio unavailable", never as cycle-fatal.
func (p *BinanceProvider) TrailingAvgVolume(ctx context.Context, symbol string, days int) (float64, []domain.KlineBar, error) {
	ctx, span := p.tracer.Start(ctx, "binance.trailing-avg-volume")
	defer span.End()

	op := "fetch klines " + symbol
	url := fmt.Sprintf("%s%s?symbol=%s&interval=1d&limit=%d", p.baseURL, klinesPath, symbol, days)
	body, err := p.doRequest(ctx, op, url, p.klineTimeout)
	if err != nil {
		return 0, nil, err
	}

	// Klines are fixed-position arrays; index 7 is the quote-asset volume.
	var rows [][]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, nil, malformed(op, err)
	}
	if len(rows) == 0 {
		return 0, nil, malformed(op, fmt.Errorf("empty kline array"))
	}

	bars := make([]domain.KlineBar, 0, len(rows))
	var total float64
	for i, row := range rows {
		bar, err := parseKlineRow(symbol, row)
		if err != nil {
			return 0, nil, malformed(op, fmt.Errorf("kline %d: %w", i, err))
		}
		total += bar.QuoteVolume
		bars = append(bars, bar)
	}
	return total / float64(len(bars)), bars, nil
}

func parseKlineRow(symbol string, row []any) (domain.KlineBar, error) {
	if len(row) < 8 {
		return domain.KlineBar{}, fmt.Errorf("want >=8 fields, got %d", len(row))
	}
	openMs, ok := row[0].(float64)
	if !ok {
		return domain.KlineBar{}, fmt.Errorf("open time is not a number")
	}
	bar := domain.KlineBar{
		Symbol:   symbol,
		OpenTime: time.UnixMilli(int64(openMs)).UTC(),
	}
	var err error
	if bar.High, err = stringField(row, 2, "high"); err != nil {
		return domain.KlineBar{}, err
	}
	if bar.Low, err = stringField(row, 3, "low"); err != nil {
		return domain.KlineBar{}, err
	}
	if bar.Close, err = stringField(row, 4, "close"); err != nil {
		return domain.KlineBar{}, err
	}
	if bar.QuoteVolume, err = stringField(row, 7, "quote volume"); err != nil {
		return domain.KlineBar{}, err
	}
	return bar, nil
}

func stringField(row []any, idx int, name string) (float64, error) {
	s, ok := row[idx].(string)
	if !ok {
		return 0, fmt.Errorf("%s field is not a string", name)
	}
	return parseDecimal(s)
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func (p *BinanceProvider) doRequest(ctx context.Context, op, url string, timeout time.Duration) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, unreachable(op, fmt.Errorf("rate limit wait: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, unreachable(op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, unreachable(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		return nil, unreachable(op, fmt.Errorf("status %d: %s", resp.StatusCode, string(snippet)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unreachable(op, err)
	}
	return body, nil
}
