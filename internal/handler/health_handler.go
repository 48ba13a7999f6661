package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable. *sqlx.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ReadyInfo describes the optional parts of the import pipeline that were
// switched on at startup.
type ReadyInfo struct {
	// ArchiveBucket is empty when uploads are not archived.
	ArchiveBucket string
	// HSNCodes is the size of the loaded HSN master, 0 when rate checks are off.
	HSNCodes int
}

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	db   Pinger
	info ReadyInfo
}

func NewHealthHandler(db Pinger, info ReadyInfo) *HealthHandler {
	return &HealthHandler{db: db, info: info}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. Imports need the database; archiving and HSN
// checks are reported but never fail readiness.
func (h *HealthHandler) Readiness(c *gin.Context) {
	archive := "disabled"
	if h.info.ArchiveBucket != "" {
		archive = "s3://" + h.info.ArchiveBucket
	}
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "not reachable", "archive": archive})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok", "archive": archive, "hsn_codes": h.info.HSNCodes})
}
