package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ci-loglens/loglens/pkg/store"
)

var errMissingQuery = errors.New("query parameter 'q' is required")

// handleSearch implements GET /search (spec.md §4.7): embeds the query
// text and returns the most similar chunks, optionally restricted to
// error-bearing chunks. min_similarity defaults to
// pkg/config.PipelineConfig.SearchMinSimilarity when omitted.
func (s *Server) handleSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		writeError(c, http.StatusBadRequest, errMissingQuery)
		return
	}
	if s.embedder == nil || s.searcher == nil {
		writeError(c, http.StatusServiceUnavailable, errors.New("search is not configured"))
		return
	}

	limit := 10
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	minSim := s.defaultMinSimilarity
	if v := c.Query("min_similarity"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			minSim = f
		}
	}

	vec, err := s.embedder.Embed(c.Request.Context(), query)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}

	var results []store.SimilarChunk
	if c.Query("errors_only") == "true" {
		results, err = s.searcher.FindSimilarErrors(c.Request.Context(), vec, limit, minSim)
	} else {
		results, err = s.searcher.FindSimilarChunks(c.Request.Context(), vec, limit, minSim)
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{Results: results})
}
