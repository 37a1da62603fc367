package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ci-loglens/loglens/pkg/config"
	"github.com/ci-loglens/loglens/pkg/models"
	"github.com/ci-loglens/loglens/pkg/store"
)

type fakeRunReader struct {
	result models.AnalysisResult
	err    error
}

func (f fakeRunReader) GetAnalysisResultByRunID(_ context.Context, _ string) (models.AnalysisResult, error) {
	return f.result, f.err
}

func newTestServer(reader RunReader) *Server {
	cfg := &config.Config{GinMode: "test"}
	return NewServer(nil, cfg, reader, nil, nil, nil, nil, nil)
}

func TestHandleGetRunAnalysisFound(t *testing.T) {
	reader := fakeRunReader{result: models.AnalysisResult{RunID: "run-1", FailureType: models.FailureBuild}}
	s := newTestServer(reader)

	req := httptest.NewRequest(http.MethodGet, "/runs/run-1/analysis", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "run-1")
}

func TestHandleGetRunAnalysisNotFound(t *testing.T) {
	reader := fakeRunReader{err: store.ErrAnalysisNotFound}
	s := newTestServer(reader)

	req := httptest.NewRequest(http.MethodGet, "/runs/missing/analysis", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetRunAnalysisStoreError(t *testing.T) {
	reader := fakeRunReader{err: assert.AnError}
	s := newTestServer(reader)

	req := httptest.NewRequest(http.MethodGet, "/runs/run-1/analysis", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
