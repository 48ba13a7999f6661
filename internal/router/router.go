package router

import (
	"github.com/gin-gonic/gin"

	"invoicer/internal/handler"
	"invoicer/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Health   *handler.HealthHandler
	Import   *handler.ImportHandler
	Invoice  *handler.InvoiceHandler
	Settings *handler.SettingsHandler
}

// Options configures the Gin engine.
type Options struct {
	AllowedOrigins []string
	// MaxUploadBytes caps import request bodies.
	MaxUploadBytes int64
}

// multipartOverhead is allowed on top of the upload limit for form boundaries
// and the other form fields.
const multipartOverhead = 1 << 20

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, opts Options) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")

	imports := v1.Group("/imports")
	upload := middleware.MaxBodySize(opts.MaxUploadBytes + multipartOverhead)
	imports.POST("/preview", upload, h.Import.Preview)
	imports.POST("", upload, h.Import.Commit)
	imports.GET("", h.Import.List)
	imports.GET("/:id", h.Import.GetByID)
	imports.GET("/:id/source", h.Import.SourceURL)

	invoices := v1.Group("/invoices")
	invoices.GET("", h.Invoice.List)
	invoices.GET("/export", h.Invoice.ExportCSV)
	invoices.GET("/:id", h.Invoice.GetByID)
	invoices.PUT("/:id", h.Invoice.Update)
	invoices.DELETE("/:id", h.Invoice.Delete)

	settings := v1.Group("/settings")
	settings.GET("", h.Settings.Get)
	settings.PUT("", h.Settings.Update)

	return r
}
