package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoicer/internal/csvexport"
	"invoicer/internal/domain"
	"invoicer/internal/port"
	"invoicer/internal/service"
)

// InvoiceHandler handles stored invoice endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// parseFilter reads ?q, ?status and ?import_id. It writes the error response
// and returns false on a malformed import_id.
func parseFilter(c *gin.Context) (port.InvoiceFilter, bool) {
	filter := port.InvoiceFilter{
		Query:  c.Query("q"),
		Status: domain.FinancialStatus(c.Query("status")),
	}
	if raw := c.Query("import_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_IMPORT_ID", "invalid import_id")
			return filter, false
		}
		filter.ImportID = &id
	}
	return filter, true
}

// List handles GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)
	invoices, total, err := h.invoiceService.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	detail, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// Update handles PUT /api/v1/invoices/:id with an InvoiceData body.
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var data domain.InvoiceData
	if err := c.ShouldBindJSON(&data); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be invoice data")
		return
	}
	detail, err := h.invoiceService.Update(c.Request.Context(), id, &data)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// Delete handles DELETE /api/v1/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "invoice deleted"})
}

// ExportCSV handles GET /api/v1/invoices/export
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, csvexport.BuildFilename("invoice_register", time.Now())))
	c.Status(http.StatusOK)

	n, err := h.invoiceService.Export(c.Request.Context(), c.Writer, filter)
	if err != nil {
		// Headers may already be sent; only the log can carry the failure.
		log.Printf("invoiceHandler.ExportCSV: export failed after %d invoices: %v", n, err)
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Type")
			c.Writer.Header().Del("Content-Disposition")
			HandleError(c, err)
		}
	}
}
