package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/kgview"
	"github.com/soundprediction/kgview/pkg/server/dto"
	"github.com/soundprediction/kgview/pkg/types"
)

// PreferencesHandler reads and writes the theme preference.
type PreferencesHandler struct {
	app kgview.KGView
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(app kgview.KGView) *PreferencesHandler {
	return &PreferencesHandler{app: app}
}

// GetTheme handles GET /api/v1/preferences/theme
func (h *PreferencesHandler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, dto.Loaded(dto.ThemeResponse{Theme: h.app.Theme()}, false))
}

// SetTheme handles PUT /api/v1/preferences/theme
func (h *PreferencesHandler) SetTheme(c *gin.Context) {
	var req dto.ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorJSON(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	theme, err := types.ParseTheme(req.Theme)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.app.SetTheme(theme); err != nil {
		writeErrorJSON(c, http.StatusInternalServerError, "preferences_failed", types.ErrorMessage(err))
		return
	}
	c.JSON(http.StatusOK, dto.Loaded(dto.ThemeResponse{Theme: theme}, false))
}

// ToggleTheme handles POST /api/v1/preferences/theme/toggle
func (h *PreferencesHandler) ToggleTheme(c *gin.Context) {
	theme, err := h.app.ToggleTheme()
	if err != nil {
		writeErrorJSON(c, http.StatusInternalServerError, "preferences_failed", types.ErrorMessage(err))
		return
	}
	c.JSON(http.StatusOK, dto.Loaded(dto.ThemeResponse{Theme: theme}, false))
}
