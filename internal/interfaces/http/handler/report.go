package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/groundplan/backend/internal/application/analytics"
)

// ReportHandler handles the analytics and dashboard endpoints
type ReportHandler struct {
	BaseHandler
	reportService *analytics.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *analytics.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// DashboardStats returns the dashboard figures for the caller's scope.
// Without explicit bounds the trailing default window ending today is used.
func (h *ReportHandler) DashboardStats(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req analytics.StatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stats, err := h.reportService.DashboardStats(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stats)
}

// Summary returns the KPI report over an explicit period
func (h *ReportHandler) Summary(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req analytics.SummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.reportService.SummaryReport(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// Trend returns the trailing-months trend and forecast
func (h *ReportHandler) Trend(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req analytics.TrendRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	trend, err := h.reportService.TrendReport(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, trend)
}

// Comparison returns a side-by-side of two periods' monthly series
func (h *ReportHandler) Comparison(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req analytics.ComparisonRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmp, err := h.reportService.ComparisonReport(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cmp)
}
