package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ci-loglens/loglens/pkg/analyze"
	"github.com/ci-loglens/loglens/pkg/llm"
	"github.com/ci-loglens/loglens/pkg/models"
	"github.com/ci-loglens/loglens/pkg/rag"
)

type discardWriter struct{}

func (discardWriter) UpsertAnalysisResult(_ context.Context, a models.AnalysisResult) (models.AnalysisResult, error) {
	return a, nil
}

type nopRetriever struct{}

func (nopRetriever) FindSimilarWithAnalysis(_ context.Context, _ []float32, _ int) ([]rag.RetrievedChunk, error) {
	return nil, nil
}

func TestHandleAnalyzeWithoutAnalyzerFallsBackToDeterministic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	s := &Server{}
	router.POST("/analyze", s.handleAnalyze)

	body := "npm ERR! Cannot find module 'react'\n"
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "detectedErrors")
}

func TestHandleAnalyzeEmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	s := &Server{}
	router.POST("/analyze", s.handleAnalyze)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(""))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeWithAnalyzer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fake := llm.NewFakeProvider()
	fake.AddGenerate(llm.GenerateEntry{Text: `{"rootCause": "missing dependency", "failureStage": "install", "suggestedFix": "run npm install"}`})

	a := analyze.New(fake, nopRetriever{}, discardWriter{}, 0, 0, slog.Default())

	router := gin.New()
	s := &Server{analyzer: a}
	router.POST("/analyze", s.handleAnalyze)

	body := "npm ERR! Cannot find module 'react'\n"
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rootCause")
}
