package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicer/internal/domain"
	"invoicer/internal/service"
)

// SettingsHandler handles seller and numbering settings.
type SettingsHandler struct {
	settingsService service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, s)
}

// Update handles PUT /api/v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var in domain.Settings
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid settings body")
		return
	}
	s, err := h.settingsService.Update(c.Request.Context(), &in)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, s)
}
