package cleanup

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ci-loglens/loglens/pkg/config"
)

type fakeDeleter struct {
	calls    int32
	deleted  int
	err      error
	lastDays int
}

func (f *fakeDeleter) DeleteRunsOlderThan(_ context.Context, olderThanDays int) (int, error) {
	atomic.AddInt32(&f.calls, 1)
	f.lastDays = olderThanDays
	return f.deleted, f.err
}

func TestSweepDeletesOldRuns(t *testing.T) {
	deleter := &fakeDeleter{deleted: 3}
	svc := NewService(config.RetentionConfig{RunRetentionDays: 90, CleanupIntervalMin: 60}, deleter, nil)

	svc.sweep(context.Background())

	assert.Equal(t, int32(1), atomic.LoadInt32(&deleter.calls))
	assert.Equal(t, 90, deleter.lastDays)
}

func TestSweepToleratesStoreError(t *testing.T) {
	deleter := &fakeDeleter{err: errors.New("db unavailable")}
	svc := NewService(config.RetentionConfig{RunRetentionDays: 30, CleanupIntervalMin: 60}, deleter, nil)

	require.NotPanics(t, func() { svc.sweep(context.Background()) })
}

func TestStartStopRunsAtLeastOneSweep(t *testing.T) {
	deleter := &fakeDeleter{}
	svc := NewService(config.RetentionConfig{RunRetentionDays: 90, CleanupIntervalMin: 1}, deleter, nil)

	svc.Start(context.Background())
	defer svc.Stop()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&deleter.calls) >= 1
	}, time.Second, 10*time.Millisecond)
}

func TestStartTwiceIsNoOp(t *testing.T) {
	deleter := &fakeDeleter{}
	svc := NewService(config.RetentionConfig{RunRetentionDays: 90, CleanupIntervalMin: 60}, deleter, nil)

	svc.Start(context.Background())
	firstDone := svc.done
	svc.Start(context.Background())
	assert.True(t, firstDone == svc.done, "second Start must not replace the running loop")
	svc.Stop()
}
