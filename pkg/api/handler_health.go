package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ci-loglens/loglens/pkg/database"
)

// handleHealth implements GET /health, grounded on the teacher's
// cmd/tarsy/main.go health handler (db reachability + config stats),
// extended with queue pool health and the embedding backlog
// (SPEC_FULL.md §6).
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbHealth, dbErr := database.Health(ctx, s.db.DB())

	resp := HealthResponse{
		Status:        "healthy",
		Database:      dbHealth,
		Configuration: s.cfg.Stats(),
	}

	if s.pool != nil {
		resp.Queue = s.pool.Health()
	}
	if s.stats != nil {
		if stats, err := s.stats.EmbeddingStats(ctx); err == nil {
			resp.Embeddings = stats
		}
	}

	if dbErr != nil {
		resp.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
