package handler

import (
	settingsapp "github.com/mecanicpro/backend/internal/application/settings"
	"github.com/gin-gonic/gin"
)

// SettingsHandler handles workshop settings API endpoints
type SettingsHandler struct {
	BaseHandler
	settingsService *settingsapp.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settingsapp.Service) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// Get godoc
// @ID           getSettings
// @Summary      Get settings
// @Description  Get workshop info, the next service order number and the daily counters
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[settings.SettingsResponse]
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	resp, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateWorkshopInfo godoc
// @ID           updateWorkshopInfo
// @Summary      Update workshop info
// @Description  Update the workshop name, contact data and logo
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body settings.WorkshopInfoRequest true "Workshop info"
// @Success      200 {object} APIResponse[settings.SettingsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/workshop [put]
func (h *SettingsHandler) UpdateWorkshopInfo(c *gin.Context) {
	var req settingsapp.WorkshopInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.settingsService.UpdateWorkshopInfo(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ResetDailyCounters godoc
// @ID           resetDailyCounters
// @Summary      Reset daily counters
// @Description  Reset the finished-today counter and stamp the reset date
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[settings.SettingsResponse]
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/reset-counters [post]
func (h *SettingsHandler) ResetDailyCounters(c *gin.Context) {
	if err := h.settingsService.ResetDailyCounters(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
