package handler

import (
	billingapp "github.com/billmate/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *billingapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *billingapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers report routes on the given group
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/sales-summary", h.GetSalesSummary)
		reports.GET("/collection-summary", h.GetCollectionSummary)
	}
}

// GetSalesSummary aggregates bills over an optional date range
func (h *ReportHandler) GetSalesSummary(c *gin.Context) {
	var filter billingapp.SummaryRangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.reportService.GetSalesSummary(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}

// GetCollectionSummary aggregates collections over an optional date range
func (h *ReportHandler) GetCollectionSummary(c *gin.Context) {
	var filter billingapp.SummaryRangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.reportService.GetCollectionSummary(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}
