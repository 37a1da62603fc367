package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ci-loglens/loglens/pkg/store"
)

// handleGetRunAnalysis implements GET /runs/:id/analysis, a minimal
// read endpoint so the pipeline's persisted output is observable
// without the full CRUD surface spec.md §1 keeps out of scope.
func (s *Server) handleGetRunAnalysis(c *gin.Context) {
	runID := c.Param("id")

	result, err := s.reader.GetAnalysisResultByRunID(c.Request.Context(), runID)
	if err != nil {
		if errors.Is(err, store.ErrAnalysisNotFound) {
			writeError(c, http.StatusNotFound, err)
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
