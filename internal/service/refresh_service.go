package service

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"alpha-radar/internal/domain"
	"alpha-radar/internal/fallback"
	"alpha-radar/internal/indicator"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const boardCacheKey = "board:latest"

type SnapshotProvider interface {
	FetchSnapshot(ctx context.Context) ([]domain.RawTicker, error)
}

type HistoryProvider interface {
	TrailingAvgVolume(ctx context.Context, symbol string, days int) (float64, []domain.KlineBar, error)
}

type FallbackGenerator interface {
	Snapshot(reg *domain.Registry) []fallback.SyntheticTicker
}

type KlineStore interface {
	UpsertKlines(ctx context.Context, bars []domain.KlineBar) error
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RefreshService runs the data-refresh pipeline: snapshot fetch, per-symbol
// trailing-average fetch, derivation, ranking. A failed primary fetch
// switches the entire cycle to synthetic data; a board is never part real,
// part simulated. Refresh is synchronous and re-entrant: the only state
// shared between calls is the immutable registry.
type RefreshService struct {
	tracer    trace.Tracer
	registry  *domain.Registry
	snapshots SnapshotProvider
	history   HistoryProvider
	fallback  FallbackGenerator
	store     KlineStore
	redis     RedisClient

	windowDays     int
	burstThreshold float64
	cacheTTL       time.Duration

	now func() time.Time
}

func NewRefreshService(
	tracer trace.Tracer,
	registry *domain.Registry,
	snapshots SnapshotProvider,
	history HistoryProvider,
	fb FallbackGenerator,
	store KlineStore,
	redisClient RedisClient,
	windowDays int,
	burstThreshold float64,
	cacheTTL time.Duration,
) *RefreshService {
	if windowDays <= 0 {
		windowDays = 7
	}
	if cacheTTL <= 0 {
		cacheTTL = 90 * time.Second
	}
	return &RefreshService{
		tracer:         tracer,
		registry:       registry,
		snapshots:      snapshots,
		history:        history,
		fallback:       fb,
		store:          store,
		redis:          redisClient,
		windowDays:     windowDays,
		burstThreshold: burstThreshold,
		cacheTTL:       cacheTTL,
		now:            time.Now,
	}
}

// Refresh computes a fresh board. It never fails: when the primary snapshot
// is unreachable or malformed the whole cycle degrades to the fallback
// generator and the board is tagged simulated.
func (s *RefreshService) Refresh(ctx context.Context) domain.Board {
	ctx, span := s.tracer.Start(ctx, "refresh-service.refresh")
	defer span.End()

	var board domain.Board
	tickers, err := s.snapshots.FetchSnapshot(ctx)
	if err != nil {
		log.Printf("snapshot fetch failed, switching cycle to simulated mode: %v", err)
		board = s.simulatedBoard()
	} else {
		board = s.realBoard(ctx, tickers)
	}

	rank(board.Records)

	if s.redis != nil {
		if err := s.setBoardCache(ctx, board); err != nil {
			log.Printf("board cache write error: %v", err)
		}
	}
	return board
}

// Latest serves the cached board when one is fresh enough, recomputing on a
// miss. The cache holds only the current cycle; old boards are never read.
func (s *RefreshService) Latest(ctx context.Context) domain.Board {
	ctx, span := s.tracer.Start(ctx, "refresh-service.latest")
	defer span.End()

	if s.redis != nil {
		if board, ok := s.getBoardCache(ctx); ok {
			return board
		}
	}
	return s.Refresh(ctx)
}

// Registry exposes the immutable watch-list for presentation consumers.
func (s *RefreshService) Registry() *domain.Registry {
	return s.registry
}

type trailingSlot struct {
	avg  float64
	ok   bool
	bars []domain.KlineBar
}

func (s *RefreshService) realBoard(ctx context.Context, tickers []domain.RawTicker) domain.Board {
	now := s.now().UTC()

	// Only registry symbols matter; the full-market snapshot carries
	// thousands of rows we never look at again.
	bySymbol := make(map[string]domain.RawTicker, s.registry.Len())
	for _, t := range tickers {
		if _, ok := s.registry.Lookup(t.Symbol); ok {
			bySymbol[t.Symbol] = t
		}
	}

	symbols := make([]string, 0, len(bySymbol))
	for _, symbol := range s.registry.Symbols() {
		if _, ok := bySymbol[symbol]; ok {
			symbols = append(symbols, symbol)
		}
	}

	// The kline calls are independent and best-effort: each goroutine
	// writes only its own slot, and a failure just leaves that symbol's
	// ratio unavailable.
	slots := make([]trailingSlot, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			avg, bars, err := s.history.TrailingAvgVolume(ctx, symbol, s.windowDays)
			if err != nil {
				log.Printf("trailing volume unavailable for %s: %v", symbol, err)
				return
			}
			slots[i] = trailingSlot{avg: avg, ok: true, bars: bars}
		}(i, symbol)
	}
	wg.Wait()

	records := make([]domain.IndicatorRecord, 0, len(symbols))
	var allBars []domain.KlineBar
	for i, symbol := range symbols {
		campaign, _ := s.registry.Lookup(symbol)
		rec, ok := indicator.Derive(indicator.Inputs{
			Ticker:         bySymbol[symbol],
			Campaign:       campaign,
			TrailingAvg:    slots[i].avg,
			HasTrailingAvg: slots[i].ok,
			Now:            now,
			BurstThreshold: s.burstThreshold,
		})
		if !ok {
			continue
		}
		records = append(records, rec)
		allBars = append(allBars, slots[i].bars...)
	}

	if s.store != nil && len(allBars) > 0 {
		if err := s.store.UpsertKlines(ctx, allBars); err != nil {
			log.Printf("kline store write error: %v", err)
		}
	}

	return domain.Board{Mode: domain.ModeReal, GeneratedAt: now, Records: records}
}

func (s *RefreshService) simulatedBoard() domain.Board {
	now := s.now().UTC()

	rows := s.fallback.Snapshot(s.registry)
	records := make([]domain.IndicatorRecord, 0, len(rows))
	for _, row := range rows {
		campaign, _ := s.registry.Lookup(row.Ticker.Symbol)
		rec, ok := indicator.Derive(indicator.Inputs{
			Ticker:         row.Ticker,
			Campaign:       campaign,
			TrailingAvg:    row.TrailingAvg,
			HasTrailingAvg: true,
			Now:            now,
			BurstThreshold: s.burstThreshold,
		})
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	return domain.Board{Mode: domain.ModeSimulated, GeneratedAt: now, Records: records}
}

// rank orders the board for display: busiest symbols first, symbol name as
// the deterministic tiebreak.
func rank(records []domain.IndicatorRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].TradeCount != records[j].TradeCount {
			return records[i].TradeCount > records[j].TradeCount
		}
		return records[i].Symbol < records[j].Symbol
	})
}

func (s *RefreshService) setBoardCache(ctx context.Context, board domain.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, boardCacheKey, data, s.cacheTTL).Err()
}

func (s *RefreshService) getBoardCache(ctx context.Context) (domain.Board, bool) {
	data, err := s.redis.Get(ctx, boardCacheKey).Bytes()
	if err == redis.Nil {
		return domain.Board{}, false
	}
	if err != nil {
		log.Printf("board cache read error: %v", err)
		return domain.Board{}, false
	}
	var board domain.Board
	if err := json.Unmarshal(data, &board); err != nil {
		log.Printf("board cache decode error: %v", err)
		return domain.Board{}, false
	}
	return board, true
}
