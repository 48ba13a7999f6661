package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicer/internal/domain"
	"invoicer/internal/service"
)

// ImportHandler handles order export uploads.
type ImportHandler struct {
	importService service.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// readUpload opens the multipart "file" field. The returned close func is
// non-nil whenever ok is true.
func readUpload(c *gin.Context) (service.ImportInput, func(), bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			HandleError(c, domain.ErrFileTooLarge)
		} else {
			RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		}
		return service.ImportInput{}, nil, false
	}
	input := service.ImportInput{
		FileName:     header.Filename,
		Content:      file,
		Size:         header.Size,
		GroupingMode: domain.GroupingMode(c.PostForm("grouping_mode")),
	}
	return input, func() { _ = file.Close() }, true
}

// Preview handles POST /api/v1/imports/preview
func (h *ImportHandler) Preview(c *gin.Context) {
	input, closeFile, ok := readUpload(c)
	if !ok {
		return
	}
	defer closeFile()

	result, err := h.importService.Preview(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Commit handles POST /api/v1/imports
func (h *ImportHandler) Commit(c *gin.Context) {
	input, closeFile, ok := readUpload(c)
	if !ok {
		return
	}
	defer closeFile()

	result, err := h.importService.Commit(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, result)
}

// List handles GET /api/v1/imports
func (h *ImportHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	batches, total, err := h.importService.ListBatches(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, batches, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/imports/:id
func (h *ImportHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	batch, err := h.importService.GetBatch(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, batch)
}

// SourceURL handles GET /api/v1/imports/:id/source
func (h *ImportHandler) SourceURL(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	url, err := h.importService.GetSourceURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}
