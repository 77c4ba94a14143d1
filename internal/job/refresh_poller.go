package job

import (
	"context"
	"log"
	"time"

	"alpha-radar/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// RefreshPoller keeps the board current in the background so interactive
// consumers mostly hit the cache.
type RefreshPoller struct {
	tracer       trace.Tracer
	refresher    BoardRefresher
	pollInterval time.Duration
}

type BoardRefresher interface {
	Refresh(ctx context.Context) domain.Board
}

func NewRefreshPoller(tracer trace.Tracer, refresher BoardRefresher, pollIntervalSecs int) *RefreshPoller {
	return &RefreshPoller{
		tracer:       tracer,
		refresher:    refresher,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
	}
}

// Start blocks until ctx is cancelled, refreshing once immediately and then
// on every tick. Mode flips between real and simulated are logged so an
// operator can spot upstream trouble in the service log.
func (p *RefreshPoller) Start(ctx context.Context) {
	log.Println("Refresh poller starting...")

	lastMode := domain.Mode("")
	runOnce := func() {
		ctx, span := p.tracer.Start(ctx, "refresh-poller.tick")
		defer span.End()

		board := p.refresher.Refresh(ctx)
		if board.Mode != lastMode {
			log.Printf("board mode is now %s (%d records)", board.Mode, len(board.Records))
			lastMode = board.Mode
		}
	}

	runOnce()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Refresh poller stopped")
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
