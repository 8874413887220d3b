package handler

import (
	"github.com/gin-gonic/gin"

	"tradelab/backend/internal/service"
	"tradelab/backend/pkg/response"
)

// MetricsHandler 运营指标 HTTP 处理器
type MetricsHandler struct {
	metricsSvc service.MetricsService
}

// NewMetricsHandler 创建 MetricsHandler
func NewMetricsHandler(metricsSvc service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsSvc: metricsSvc}
}

// GetResponseMetrics 获取客服响应时长
// GET /api/v1/metrics/response-times
func (h *MetricsHandler) GetResponseMetrics(c *gin.Context) {
	rows, err := h.metricsSvc.ResponseMetrics(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": rows})
}

// GetMessageVolumes 获取每日消息量
// GET /api/v1/metrics/message-volumes
func (h *MetricsHandler) GetMessageVolumes(c *gin.Context) {
	rows, err := h.metricsSvc.MessageVolumes(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": rows})
}

// GetInquiryThemes 获取咨询主题分布
// GET /api/v1/metrics/inquiry-themes
func (h *MetricsHandler) GetInquiryThemes(c *gin.Context) {
	rows, err := h.metricsSvc.InquiryThemes(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": rows})
}

// GetInsights 获取运营洞察
// GET /api/v1/metrics/insights
func (h *MetricsHandler) GetInsights(c *gin.Context) {
	rows, err := h.metricsSvc.Insights(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": rows})
}
