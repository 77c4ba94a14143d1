package repository

import (
	"context"

	"alpha-radar/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createKlinesTable = `
CREATE TABLE IF NOT EXISTS klines (
    symbol       TEXT        NOT NULL,
    open_time    TIMESTAMPTZ NOT NULL,
    high         NUMERIC     NOT NULL,
    low          NUMERIC     NOT NULL,
    close        NUMERIC     NOT NULL,
    quote_volume NUMERIC     NOT NULL,
    PRIMARY KEY (symbol, open_time)
);

CREATE INDEX IF NOT EXISTS idx_klines_symbol_time
    ON klines (symbol, open_time DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// KlineRepository keeps an audit trail of the daily bars the refresh cycle
// pulled. The pipeline itself never reads it back; the klines API endpoint
// does.
type KlineRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewKlineRepository(pool PgxPool, tracer trace.Tracer) *KlineRepository {
	return &KlineRepository{pool: pool, tracer: tracer}
}

func (r *KlineRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "kline-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createKlinesTable)
	return err
}

func (r *KlineRepository) UpsertKlines(ctx context.Context, bars []domain.KlineBar) error {
	if len(bars) == 0 {
		return nil
	}

	_, span := r.tracer.Start(ctx, "kline-repo.upsert-klines")
	defer span.End()

	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(
			`INSERT INTO klines (symbol, open_time, high, low, close, quote_volume)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (symbol, open_time) DO UPDATE SET
			     high = EXCLUDED.high,
			     low = EXCLUDED.low,
			     close = EXCLUDED.close,
			     quote_volume = EXCLUDED.quote_volume`,
			b.Symbol, b.OpenTime, b.High, b.Low, b.Close, b.QuoteVolume,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range bars {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *KlineRepository) GetKlines(ctx context.Context, symbol string, limit int) ([]domain.KlineBar, error) {
	_, span := r.tracer.Start(ctx, "kline-repo.get-klines")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT symbol, open_time, high, low, close, quote_volume
		 FROM klines
		 WHERE symbol = $1
		 ORDER BY open_time DESC
		 LIMIT $2`,
		symbol, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []domain.KlineBar
	for rows.Next() {
		var b domain.KlineBar
		if err := rows.Scan(&b.Symbol, &b.OpenTime, &b.High, &b.Low, &b.Close, &b.QuoteVolume); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}
