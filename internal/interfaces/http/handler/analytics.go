package handler

import (
	financeapp "github.com/mecanicpro/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler handles cash-flow analytics API endpoints
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *financeapp.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *financeapp.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// Compute godoc
// @ID           computeAnalytics
// @Summary      Cash-flow analytics
// @Description  Compute incomes, expenses, balance, method breakdown and service ranking for a date range
// @Tags         analytics
// @Produce      json
// @Param        start query string true "Range start (inclusive)" format(date) example(2026-01-01)
// @Param        end query string true "Range end (inclusive)" format(date) example(2026-01-31)
// @Success      200 {object} APIResponse[finance.AnalyticsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics [get]
func (h *AnalyticsHandler) Compute(c *gin.Context) {
	var req financeapp.AnalyticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	resp, err := h.analyticsService.Compute(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
