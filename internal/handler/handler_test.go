package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alpha-radar/internal/domain"
	"alpha-radar/internal/fallback"
	"alpha-radar/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func testRegistry(t *testing.T) *domain.Registry {
	t.Helper()
	reg, err := domain.NewRegistry([]domain.CampaignEntry{
		{Symbol: "LISTAUSDT", End: time.Now().UTC().AddDate(0, 0, 30), Type: domain.CampaignMegadrop},
		{Symbol: "BBUSDT", End: time.Now().UTC().AddDate(0, 0, 10), Type: domain.CampaignLaunchpool},
	})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

type stubSnapshots struct {
	tickers []domain.RawTicker
	err     error
}

func (s *stubSnapshots) FetchSnapshot(ctx context.Context) ([]domain.RawTicker, error) {
	return s.tickers, s.err
}

type stubHistory struct{}

func (s *stubHistory) TrailingAvgVolume(ctx context.Context, symbol string, days int) (float64, []domain.KlineBar, error) {
	return 40, nil, nil
}

type stubKlines struct {
	bars []domain.KlineBar
	err  error
}

func (s *stubKlines) GetKlines(ctx context.Context, symbol string, limit int) ([]domain.KlineBar, error) {
	return s.bars, s.err
}

func newTestRouter(t *testing.T, snaps *stubSnapshots, klines KlineReader, apiKey string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewRefreshService(testTracer, testRegistry(t), snaps, &stubHistory{},
		fallback.NewGenerator(1), nil, nil, 7, 3.8, time.Minute)

	r := gin.New()
	New(testTracer, svc, klines).RegisterRoutes(r, apiKey)
	return r
}

func testTickers() []domain.RawTicker {
	return []domain.RawTicker{
		{Symbol: "LISTAUSDT", LastPrice: 0.42, HighPrice: 0.44, LowPrice: 0.40, QuoteVolume: 160, TradeCount: 40_000},
		{Symbol: "BBUSDT", LastPrice: 0.51, HighPrice: 0.53, LowPrice: 0.50, QuoteVolume: 80, TradeCount: 30_000},
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, &stubSnapshots{tickers: testTickers()}, nil, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if body != "{\"status\":\"healthy\"}\n" && body != "{\"status\":\"healthy\"}" {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestGetIndicators(t *testing.T) {
	r := newTestRouter(t, &stubSnapshots{tickers: testTickers()}, nil, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/indicators", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var board domain.Board
	if err := json.Unmarshal(w.Body.Bytes(), &board); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	if board.Mode != domain.ModeReal || len(board.Records) != 2 {
		t.Fatalf("unexpected board: %+v", board)
	}
}

func TestGetIndicatorsSimulatedOnUpstreamFailure(t *testing.T) {
	r := newTestRouter(t, &stubSnapshots{err: errors.New("exchange down")}, nil, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/indicators", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("degraded board must still serve 200, got %d", w.Code)
	}
	var board domain.Board
	if err := json.Unmarshal(w.Body.Bytes(), &board); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	if board.Mode != domain.ModeSimulated {
		t.Fatalf("expected simulated mode, got %s", board.Mode)
	}
}

func TestForceRefreshAuth(t *testing.T) {
	r := newTestRouter(t, &stubSnapshots{tickers: testTickers()}, nil, "sekret")

	cases := []struct {
		name   string
		key    string
		status int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "nope", http.StatusForbidden},
		{"valid key", "sekret", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/refresh", nil)
			if tc.key != "" {
				req.Header.Set("X-API-Key", tc.key)
			}
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
		})
	}
}

func TestForceRefreshOpenWithoutKey(t *testing.T) {
	r := newTestRouter(t, &stubSnapshots{tickers: testTickers()}, nil, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/refresh", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("auth disabled must pass through, got %d", w.Code)
	}
}

func TestGetCampaigns(t *testing.T) {
	r := newTestRouter(t, &stubSnapshots{tickers: testTickers()}, nil, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/campaigns", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Campaigns []campaignRow `json:"campaigns"`
		Announce  string        `json:"announcements"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Campaigns) != 2 {
		t.Fatalf("expected 2 campaigns, got %d", len(resp.Campaigns))
	}
	if resp.Announce != domain.AnnouncementURL {
		t.Fatalf("announcement link missing: %+v", resp)
	}
	for _, row := range resp.Campaigns {
		if row.DaysRemaining < 0 {
			t.Fatalf("negative days remaining: %+v", row)
		}
	}
}

func TestGetHistory(t *testing.T) {
	r := newTestRouter(t, &stubSnapshots{tickers: testTickers()}, nil, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/history", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Airdrops []domain.AirdropRecord `json:"airdrops"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Airdrops) != len(domain.HistoryAirdrops) {
		t.Fatalf("expected %d records, got %d", len(domain.HistoryAirdrops), len(resp.Airdrops))
	}
}

func TestGetKlines(t *testing.T) {
	klines := &stubKlines{bars: []domain.KlineBar{
		{Symbol: "LISTAUSDT", OpenTime: time.Now().UTC(), High: 0.44, Low: 0.40, Close: 0.42, QuoteVolume: 100},
	}}
	r := newTestRouter(t, &stubSnapshots{tickers: testTickers()}, klines, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/klines/listausdt", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Symbol string            `json:"symbol"`
		Klines []domain.KlineBar `json:"klines"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Symbol != "LISTAUSDT" || len(resp.Klines) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGetKlinesUnwatchedSymbol(t *testing.T) {
	r := newTestRouter(t, &stubSnapshots{tickers: testTickers()}, &stubKlines{}, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/klines/DOGEUSDT", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unwatched symbol, got %d", w.Code)
	}
}

func TestGetKlinesWithoutStore(t *testing.T) {
	r := newTestRouter(t, &stubSnapshots{tickers: testTickers()}, nil, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/klines/LISTAUSDT", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without kline storage, got %d", w.Code)
	}
}
