package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoicer/internal/domain"
	"invoicer/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound, "INVOICE_NOT_FOUND", "invoice not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrDuplicateInvoiceNumber):
		return http.StatusConflict, "DUPLICATE_INVOICE_NUMBER", "invoice number already exists"
	case errors.Is(err, domain.ErrUnsupportedSourceType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: csv, xlsx"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrNoDataRows):
		return http.StatusUnprocessableEntity, "NO_DATA_ROWS", "file contains no data rows"
	case errors.Is(err, domain.ErrMalformedSource):
		return http.StatusUnprocessableEntity, "MALFORMED_FILE", "file could not be parsed"
	case errors.Is(err, domain.ErrInvalidInvoiceData):
		return http.StatusBadRequest, "INVALID_INVOICE_DATA", err.Error()
	case errors.Is(err, domain.ErrInvalidSettings):
		return http.StatusBadRequest, "INVALID_SETTINGS", err.Error()
	case errors.Is(err, domain.ErrInvalidGroupingMode):
		return http.StatusBadRequest, "INVALID_GROUPING_MODE", "invalid grouping mode; allowed: order, row"
	case errors.Is(err, domain.ErrInvoiceNumberExhausted):
		return http.StatusConflict, "INVOICE_NUMBER_EXHAUSTED", "could not allocate a free invoice number"
	case errors.Is(err, domain.ErrArchiveFailed):
		return http.StatusBadGateway, "ARCHIVE_FAILED", "source file upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		log.Printf("[%s] internal error: %v", middleware.GetRequestID(c), err)
	}
	RespondError(c, status, code, msg)
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// parseIDParam reads the :id path parameter. It writes the error response and
// returns false when the parameter is not a UUID.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
