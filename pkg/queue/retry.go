package queue

import (
	"context"
	"errors"
	"net"

	"github.com/ci-loglens/loglens/pkg/archive"
	"github.com/ci-loglens/loglens/pkg/llm"
)

// Retryable reports whether err is a transient condition worth
// redelivering a job for (network failures, 5xx responses, context
// deadlines), mirroring the teacher's retry/backoff reasoning in
// pkg/queue/worker.go (exponential backoff, capped retries) — but
// applied to the JetStream nak path instead of a DB-side retry counter.
// Decode failures (ErrBadEnvelope) and domain-permanent failures
// (archive.ErrEmptyLog, archive.ErrArchiveFormat) are NOT retryable: the
// input will never become valid on redelivery.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrBadEnvelope) ||
		errors.Is(err, archive.ErrEmptyLog) ||
		errors.Is(err, archive.ErrArchiveFormat) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var se *llm.StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}

	return false
}
