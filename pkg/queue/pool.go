package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ci-loglens/loglens/pkg/config"
)

// WorkerPool manages a pool of JetStream pull-consumer workers sharing
// one durable consumer, mirroring the teacher's pkg/queue.WorkerPool
// (spawn N workers, run a background sweep, expose aggregate health).
type WorkerPool struct {
	nc       *nats.Conn
	js       nats.JetStreamContext
	executor Executor
	tracker  StallTracker
	cfg      config.QueueConfig

	workers []*Worker
	stopCh  chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	started bool

	stallMu      sync.Mutex
	lastSweep    time.Time
	recoveredCnt int
}

// NewWorkerPool opens a JetStream context on the already-connected nc,
// ensures the stream exists, and builds
// a pool ready to Start.
func NewWorkerPool(nc *nats.Conn, executor Executor, tracker StallTracker, cfg config.QueueConfig) (*WorkerPool, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("queue: jetstream context: %w", err)
	}
	if err := EnsureStream(js); err != nil {
		return nil, err
	}

	return &WorkerPool{
		nc:       nc,
		js:       js,
		executor: executor,
		tracker:  tracker,
		cfg:      cfg,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start spawns cfg.WorkerCount workers, each on its own pull
// subscription against the shared DurableConsumer, plus the stall
// sweep goroutine. Safe to call once; later calls are no-ops.
func (p *WorkerPool) Start(ctx context.Context) error {
	if p.started {
		slog.Warn("worker pool already started, ignoring duplicate Start call")
		return nil
	}
	p.started = true

	n := p.cfg.WorkerCount
	if n <= 0 {
		n = 1
	}

	slog.Info("starting worker pool", "worker_count", n)

	for i := 0; i < n; i++ {
		sub, err := p.js.PullSubscribe(Subject, DurableConsumer,
			nats.AckWait(p.cfg.JobLock()),
			nats.MaxDeliver(p.cfg.MaxStalledRetries+1),
			nats.ManualAck(),
		)
		if err != nil {
			return fmt.Errorf("queue: pull subscribe worker %d: %w", i, err)
		}

		workerID := fmt.Sprintf("worker-%d", i)
		w := NewWorker(workerID, sub, p.executor, p.tracker, p.cfg)
		p.workers = append(p.workers, w)
		w.Start(ctx)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runStallSweep(ctx)
	}()

	slog.Info("worker pool started")
	return nil
}

// Stop signals every worker and the sweep goroutine to stop, and waits
// for in-flight jobs to finish.
func (p *WorkerPool) Stop() {
	slog.Info("stopping worker pool")
	for _, w := range p.workers {
		w.Stop()
	}
	p.once.Do(func() { close(p.stopCh) })
	p.wg.Wait()
	slog.Info("worker pool stopped")
}

// Health returns the pool's aggregate health snapshot for GET /health.
func (p *WorkerPool) Health() PoolHealth {
	stats := make([]WorkerHealth, len(p.workers))
	active := 0
	for i, w := range p.workers {
		h := w.Health()
		stats[i] = h
		if h.Status == string(WorkerStatusWorking) {
			active++
		}
	}

	p.stallMu.Lock()
	lastSweep := p.lastSweep
	recovered := p.recoveredCnt
	p.stallMu.Unlock()

	return PoolHealth{
		IsHealthy:        len(p.workers) > 0 && p.nc != nil && p.nc.IsConnected(),
		WorkerCount:      len(p.workers),
		ActiveWorkers:    active,
		WorkerStats:      stats,
		LastStallSweep:   lastSweep,
		StalledRecovered: recovered,
	}
}
