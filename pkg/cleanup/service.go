// Package cleanup provides the background data retention sweep,
// grounded on the teacher's pkg/cleanup.Service (same start/stop/ticker
// shape), generalized from the teacher's "soft-delete old sessions +
// cleanup orphaned events" pair to this domain's single concern: hard-
// deleting runs (and their cascaded chunks/analysis) past the
// configured retention window.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/ci-loglens/loglens/pkg/config"
)

// RunDeleter is the subset of pkg/store.Store the cleanup service
// depends on.
type RunDeleter interface {
	DeleteRunsOlderThan(ctx context.Context, olderThanDays int) (int, error)
}

// Service periodically enforces the run retention policy. All sweeps
// are idempotent and safe to run from multiple processes.
type Service struct {
	cfg    config.RetentionConfig
	store  RunDeleter
	logger *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService builds a Service.
func NewService(cfg config.RetentionConfig, store RunDeleter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, store: store, logger: logger}
}

// Start launches the background sweep loop. It is a no-op if already
// running.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	s.logger.Info("cleanup service started",
		"run_retention_days", s.cfg.RunRetentionDays,
		"interval", s.cfg.CleanupInterval())
}

// Stop signals the sweep loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.logger.Info("cleanup service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.sweep(ctx)

	ticker := time.NewTicker(s.cfg.CleanupInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	count, err := s.store.DeleteRunsOlderThan(ctx, s.cfg.RunRetentionDays)
	if err != nil {
		s.logger.Error("retention sweep failed", "error", err)
		return
	}
	if count > 0 {
		s.logger.Info("retention sweep deleted old runs", "count", count)
	}
}
