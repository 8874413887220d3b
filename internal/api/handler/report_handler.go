package handler

import (
	"github.com/gin-gonic/gin"

	"tradelab/backend/internal/service"
	"tradelab/backend/pkg/response"
)

// ReportHandler 报表 / 看板 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// GetReports 获取报表聚合数据
// GET /api/v1/reports
func (h *ReportHandler) GetReports(c *gin.Context) {
	reports, err := h.reportSvc.Reports(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, reports)
}

// GetDashboardSummary 获取看板摘要
// GET /api/v1/dashboard/summary
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.reportSvc.DashboardSummary(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, summary)
}
