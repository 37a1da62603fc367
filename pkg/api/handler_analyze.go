package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ci-loglens/loglens/pkg/analyze"
	"github.com/ci-loglens/loglens/pkg/pipeline"
)

var errEmptyBody = errors.New("request body is empty")

// handleAnalyze implements POST /analyze (spec.md §6): the request body
// is the raw log text (text/plain), parsed synchronously through the
// same pipeline.Run + classify/RAG/LLM path the queue executor uses,
// but without ever touching the store.
func (s *Server) handleAnalyze(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if len(body) == 0 {
		writeError(c, http.StatusBadRequest, errEmptyBody)
		return
	}

	result := pipeline.Run(string(body), s.pipelineOpts)

	analyzer := s.analyzer
	if analyzer == nil {
		// No LLM/store wiring available (e.g. a minimal deployment) — return
		// only the deterministic pipeline output (detected errors and
		// steps), with no classification or narrative.
		c.JSON(http.StatusOK, AnalyzeResponse{
			DetectedErrors: result.Errors,
			Steps:          result.Steps,
		})
		return
	}

	res, err := analyzer.AnalyzeEphemeral(c.Request.Context(), analyze.Input{
		Chunks:      result.Chunks,
		Errors:      result.Errors,
		Steps:       result.Steps,
		FullContent: result.CleanedText,
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		DetectedErrors: result.Errors,
		Steps:          result.Steps,
		RootCause:      res.RootCause,
		FailureStage:   res.FailureStage,
		SuggestedFix:   res.SuggestedFix,
	})
}
