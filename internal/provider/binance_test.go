package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestProvider(rt roundTripFunc) *BinanceProvider {
	p := NewBinanceProvider(testTracer, "http://example", time.Second, time.Second)
	p.client = &http.Client{Transport: rt}
	return p
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func TestFetchSnapshot(t *testing.T) {
	t.Parallel()

	p := newTestProvider(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/v3/ticker/24hr" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		body := `[
			{"symbol":"LISTAUSDT","lastPrice":"0.4210","highPrice":"0.4400","lowPrice":"0.4000","quoteVolume":"12345678.90","count":54321},
			{"symbol":"BBUSDT","lastPrice":"0.5100","highPrice":"0.5300","lowPrice":"0.5000","quoteVolume":"9876543.21","count":12345}
		]`
		return jsonResponse(http.StatusOK, body), nil
	})

	tickers, err := p.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tickers) != 2 {
		t.Fatalf("expected 2 tickers, got %d", len(tickers))
	}
	first := tickers[0]
	if first.Symbol != "LISTAUSDT" || first.LastPrice != 0.4210 || first.TradeCount != 54321 {
		t.Fatalf("unexpected ticker: %+v", first)
	}
	if first.HighPrice != 0.44 || first.LowPrice != 0.40 || first.QuoteVolume != 12345678.90 {
		t.Fatalf("unexpected ticker fields: %+v", first)
	}
}

func TestFetchSnapshotNon200IsUnreachable(t *testing.T) {
	t.Parallel()

	p := newTestProvider(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnavailableForLegalReasons, `{"code":-1}`), nil
	})

	_, err := p.FetchSnapshot(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestFetchSnapshotTransportErrorIsUnreachable(t *testing.T) {
	t.Parallel()

	p := newTestProvider(func(req *http.Request) (*http.Response, error) {
		return nil, fmt.Errorf("connection refused")
	})

	_, err := p.FetchSnapshot(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestFetchSnapshotMalformedShapes(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"error object":   `{"code":-1003,"msg":"banned"}`,
		"empty array":    `[]`,
		"missing symbol": `[{"lastPrice":"1.0","highPrice":"1.1","lowPrice":"0.9","quoteVolume":"5","count":1}]`,
		"bad decimal":    `[{"symbol":"LISTAUSDT","lastPrice":"abc","highPrice":"1.1","lowPrice":"0.9","quoteVolume":"5","count":1}]`,
	}
	for name, body := range bodies {
		p := newTestProvider(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, body), nil
		})
		if _, err := p.FetchSnapshot(context.Background()); !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("%s: expected ErrMalformedResponse, got %v", name, err)
		}
	}
}

func klineRow(openMs int64, quoteVol string) string {
	return fmt.Sprintf(`[%d,"1.0","1.1","0.9","1.05","1000",%d,"%s",100,"500","525","0"]`,
		openMs, openMs+86_400_000-1, quoteVol)
}

func TestTrailingAvgVolume(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	vols := []string{"10", "20", "30", "40", "50", "60", "70"}
	rows := make([]string, len(vols))
	for i, v := range vols {
		rows[i] = klineRow(base.AddDate(0, 0, i).UnixMilli(), v)
	}

	p := newTestProvider(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/v3/klines" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		q := req.URL.Query()
		if q.Get("symbol") != "LISTAUSDT" || q.Get("interval") != "1d" || q.Get("limit") != "7" {
			t.Fatalf("unexpected query: %s", req.URL.RawQuery)
		}
		return jsonResponse(http.StatusOK, "["+strings.Join(rows, ",")+"]"), nil
	})

	avg, bars, err := p.TrailingAvgVolume(context.Background(), "LISTAUSDT", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avg != 40 {
		t.Fatalf("expected avg 40, got %f", avg)
	}
	if len(bars) != 7 {
		t.Fatalf("expected 7 bars, got %d", len(bars))
	}
	if !bars[0].OpenTime.Equal(base) || bars[0].QuoteVolume != 10 {
		t.Fatalf("unexpected first bar: %+v", bars[0])
	}
	if bars[6].High != 1.1 || bars[6].Low != 0.9 || bars[6].Close != 1.05 {
		t.Fatalf("unexpected last bar prices: %+v", bars[6])
	}
}

func TestTrailingAvgVolumeFailures(t *testing.T) {
	t.Parallel()

	p := newTestProvider(func(req *http.Request) (*http.Response, error) {
		return nil, fmt.Errorf("i/o timeout")
	})
	if _, _, err := p.TrailingAvgVolume(context.Background(), "LISTAUSDT", 7); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}

	for name, body := range map[string]string{
		"empty array": `[]`,
		"short row":   `[[1700000000000,"1.0","1.1"]]`,
		"error shape": `{"code":-1121,"msg":"Invalid symbol."}`,
		"bad volume":  `[[1700000000000,"1.0","1.1","0.9","1.05","1000",1700086399999,"oops",100,"500","525","0"]]`,
	} {
		p := newTestProvider(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, body), nil
		})
		if _, _, err := p.TrailingAvgVolume(context.Background(), "LISTAUSDT", 7); !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("%s: expected ErrMalformedResponse, got %v", name, err)
		}
	}
}

func TestFetchErrorUnwrapsCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("boom")
	err := unreachable("op", cause)
	if !errors.Is(err, ErrUnreachable) || !errors.Is(err, cause) {
		t.Fatalf("expected kind and cause to match: %v", err)
	}
	if errors.Is(err, ErrMalformedResponse) {
		t.Fatal("kinds must not overlap")
	}
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Op != "op" {
		t.Fatalf("expected FetchError with op, got %v", err)
	}
}
