package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ci-loglens/loglens/pkg/config"
)

// RunTracker is the subset of pkg/store.Store a Worker uses to keep the
// ambient runs.processing_status/worker_id/last_heartbeat_at columns
// current for observability (spec.md §5; SPEC_FULL.md §5 "Queue
// transport" — JetStream redelivery is the source of truth, these
// columns are not).
type RunTracker interface {
	ClaimRun(ctx context.Context, runID, workerID string) error
	Heartbeat(ctx context.Context, runID string) error
	FinishRun(ctx context.Context, runID, processingStatus string) error
}

// Worker pulls job envelopes off a shared JetStream durable consumer
// and runs them through an Executor, mirroring the teacher's
// pkg/queue.Worker poll loop and per-worker health tracking but with a
// JetStream Fetch in place of the teacher's `claimNextSession` DB
// transaction.
type Worker struct {
	id       string
	sub      *nats.Subscription
	executor Executor
	tracker  RunTracker
	cfg      config.QueueConfig
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu           sync.RWMutex
	status       WorkerStatus
	currentRunID string
	jobsHandled  int
	lastActivity time.Time
}

// NewWorker creates a Worker bound to a pull subscription already
// created against DurableConsumer.
func NewWorker(id string, sub *nats.Subscription, executor Executor, tracker RunTracker, cfg config.QueueConfig) *Worker {
	return &Worker{
		id:           id,
		sub:          sub,
		executor:     executor,
		tracker:      tracker,
		cfg:          cfg,
		stopCh:       make(chan struct{}),
		status:       WorkerStatusIdle,
		lastActivity: time.Now(),
	}
}

// Start begins the worker's fetch loop in a goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop signals the worker to stop and waits for the current job, if
// any, to finish.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

// Health returns the current worker health snapshot.
func (w *Worker) Health() WorkerHealth {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return WorkerHealth{
		ID:           w.id,
		Status:       string(w.status),
		CurrentRunID: w.currentRunID,
		JobsHandled:  w.jobsHandled,
		LastActivity: w.lastActivity,
	}
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	log := slog.With("worker_id", w.id)
	log.Info("worker started")

	for {
		select {
		case <-w.stopCh:
			log.Info("worker shutting down")
			return
		case <-ctx.Done():
			log.Info("context cancelled, worker shutting down")
			return
		default:
			w.fetchAndProcess(ctx, log)
		}
	}
}

// fetchAndProcess pulls a single message (bounded fetch timeout so the
// loop can observe stopCh/ctx), decodes the envelope, and dispatches it
// to the executor.
func (w *Worker) fetchAndProcess(ctx context.Context, log *slog.Logger) {
	msgs, err := w.sub.Fetch(1, nats.MaxWait(2*time.Second))
	if err != nil {
		if !errors.Is(err, nats.ErrTimeout) {
			log.Error("fetch failed", "error", err)
			w.sleep(time.Second)
		}
		return
	}
	if len(msgs) == 0 {
		return
	}
	msg := msgs[0]

	var job JobEnvelope
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		log.Error("bad job envelope, terminating delivery", "error", err)
		_ = msg.Term()
		return
	}

	w.setStatus(WorkerStatusWorking, job.RunID)
	defer w.setStatus(WorkerStatusIdle, "")

	w.processJob(ctx, log, msg, job)
}

func (w *Worker) processJob(ctx context.Context, log *slog.Logger, msg *nats.Msg, job JobEnvelope) {
	log = log.With("run_id", job.RunID, "repo", job.RepoFullName)

	jobCtx, cancel := context.WithTimeout(ctx, w.cfg.JobLock())
	defer cancel()

	if err := w.tracker.ClaimRun(jobCtx, job.RunID, w.id); err != nil {
		log.Error("claim run failed", "error", err)
	}

	heartbeatCtx, cancelHeartbeat := context.WithCancel(jobCtx)
	go w.runHeartbeat(heartbeatCtx, job.RunID)

	execErr := w.executor.Execute(jobCtx, job)
	cancelHeartbeat()

	finishCtx := context.Background()
	if execErr != nil {
		log.Error("job failed", "error", execErr)
		_ = w.tracker.FinishRun(finishCtx, job.RunID, "failed")

		if Retryable(execErr) {
			delay := w.cfg.BackoffInitial()
			if n, _ := msg.Metadata(); n != nil {
				delay = backoffFor(w.cfg.BackoffInitial(), int(n.NumDelivered))
			}
			_ = msg.NakWithDelay(delay)
			return
		}
		_ = msg.Term()
		return
	}

	_ = w.tracker.FinishRun(finishCtx, job.RunID, "completed")
	_ = msg.Ack()

	w.mu.Lock()
	w.jobsHandled++
	w.lastActivity = time.Now()
	w.mu.Unlock()

	log.Info("job completed")
}

// runHeartbeat refreshes the run's heartbeat column every third of the
// job lock duration until heartbeatCtx is cancelled.
func (w *Worker) runHeartbeat(ctx context.Context, runID string) {
	interval := w.cfg.JobLock() / 3
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = w.tracker.Heartbeat(ctx, runID)
		}
	}
}

func (w *Worker) sleep(d time.Duration) {
	select {
	case <-w.stopCh:
	case <-time.After(d):
	}
}

func (w *Worker) setStatus(status WorkerStatus, runID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
	w.currentRunID = runID
	w.lastActivity = time.Now()
}

// backoffFor doubles initial for every redelivery attempt past the
// first, capped at 5 minutes, mirroring the teacher's capped
// exponential backoff reasoning in pkg/queue/worker.go.
func backoffFor(initial time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := initial
	for i := 1; i < attempt; i++ {
		d *= 2
		if d > 5*time.Minute {
			return 5 * time.Minute
		}
	}
	return d
}
