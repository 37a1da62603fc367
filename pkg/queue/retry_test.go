package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ci-loglens/loglens/pkg/archive"
	"github.com/ci-loglens/loglens/pkg/llm"
)

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad envelope", ErrBadEnvelope, false},
		{"empty log", archive.ErrEmptyLog, false},
		{"archive format", archive.ErrArchiveFormat, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, true},
		{"llm 500", &llm.StatusError{Code: 500}, true},
		{"llm 503", &llm.StatusError{Code: 503}, true},
		{"llm 400", &llm.StatusError{Code: 400}, false},
		{"generic error", errors.New("boom"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Retryable(tc.err))
		})
	}
}

func TestBackoffFor(t *testing.T) {
	initial := 2 * time.Second
	assert.Equal(t, 2*time.Second, backoffFor(initial, 1))
	assert.Equal(t, 4*time.Second, backoffFor(initial, 2))
	assert.Equal(t, 8*time.Second, backoffFor(initial, 3))
	assert.Equal(t, 2*time.Second, backoffFor(initial, 0))
}

func TestBackoffForCapped(t *testing.T) {
	d := backoffFor(2*time.Second, 20)
	assert.Equal(t, 5*time.Minute, d)
}
