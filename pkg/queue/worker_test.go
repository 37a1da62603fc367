package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ci-loglens/loglens/pkg/config"
)

func testQueueConfig() config.QueueConfig {
	return config.QueueConfig{
		WorkerCount:           3,
		JobLockSeconds:        30,
		MaxStalledRetries:     3,
		BackoffInitialMS:      2000,
		StallSweepIntervalSec: 30,
	}
}

func TestWorkerHealthIdleByDefault(t *testing.T) {
	w := NewWorker("worker-0", nil, nil, nil, testQueueConfig())

	h := w.Health()
	assert.Equal(t, "worker-0", h.ID)
	assert.Equal(t, string(WorkerStatusIdle), h.Status)
	assert.Equal(t, "", h.CurrentRunID)
	assert.Equal(t, 0, h.JobsHandled)
}

func TestWorkerSetStatus(t *testing.T) {
	w := NewWorker("worker-0", nil, nil, nil, testQueueConfig())

	w.setStatus(WorkerStatusWorking, "run-123")
	h := w.Health()
	assert.Equal(t, string(WorkerStatusWorking), h.Status)
	assert.Equal(t, "run-123", h.CurrentRunID)

	w.setStatus(WorkerStatusIdle, "")
	h = w.Health()
	assert.Equal(t, string(WorkerStatusIdle), h.Status)
	assert.Equal(t, "", h.CurrentRunID)
}

func TestWorkerStop(t *testing.T) {
	w := NewWorker("worker-0", nil, nil, nil, testQueueConfig())
	done := make(chan struct{})
	go func() {
		w.sleep(5 * time.Second)
		close(done)
	}()

	w.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sleep did not return after Stop")
	}
}

func TestBackoffForMonotonic(t *testing.T) {
	var prev time.Duration
	for attempt := 1; attempt <= 5; attempt++ {
		d := backoffFor(time.Second, attempt)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
}
