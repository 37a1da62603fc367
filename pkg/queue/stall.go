package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/ci-loglens/loglens/pkg/models"
)

// StallTracker is the subset of pkg/store.Store the stall sweep and
// workers use. It extends RunTracker with StalledRuns, the read side of
// the sweep.
type StallTracker interface {
	RunTracker
	StalledRuns(ctx context.Context, staleAfterSeconds int) ([]models.Run, error)
}

// runStallSweep periodically logs runs whose last_heartbeat_at is
// stale, mirroring the teacher's pkg/queue/orphan.go ticker-driven scan
// — but purely for observability here (SPEC_FULL.md §5): JetStream's
// own AckWait/MaxDeliver redelivery is what actually recovers a stalled
// job, this sweep just clears the DB-side claim so /health and the
// runs table don't report a run as in_progress forever if redelivery
// has already handed it to a different worker.
func (p *WorkerPool) runStallSweep(ctx context.Context) {
	interval := p.cfg.StallSweepInterval()
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.sweepOnce(ctx)
		}
	}
}

func (p *WorkerPool) sweepOnce(ctx context.Context) {
	stalled, err := p.tracker.StalledRuns(ctx, p.cfg.JobLockSeconds)
	if err != nil {
		slog.Error("stall sweep query failed", "error", err)
		return
	}

	recovered := 0
	for _, r := range stalled {
		if err := p.tracker.FinishRun(ctx, r.ID, "stalled"); err != nil {
			slog.Error("failed to clear stalled run claim", "run_id", r.ID, "error", err)
			continue
		}
		recovered++
	}
	if recovered > 0 {
		slog.Warn("cleared stalled run claims", "count", recovered)
	}

	p.stallMu.Lock()
	p.lastSweep = time.Now()
	p.recoveredCnt += recovered
	p.stallMu.Unlock()
}
