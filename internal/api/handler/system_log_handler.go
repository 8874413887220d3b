package handler

import (
	"github.com/gin-gonic/gin"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/service"
	"tradelab/backend/pkg/response"
)

// SystemLogHandler 系统日志 HTTP 处理器
type SystemLogHandler struct {
	logSvc service.SystemLogService
}

// NewSystemLogHandler 创建 SystemLogHandler
func NewSystemLogHandler(logSvc service.SystemLogService) *SystemLogHandler {
	return &SystemLogHandler{logSvc: logSvc}
}

// ListLogs 获取日志列表
// GET /api/v1/logs
func (h *SystemLogHandler) ListLogs(c *gin.Context) {
	var req dto.SystemLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "查询参数无效")
		return
	}

	logs, total, err := h.logSvc.List(c.Request.Context(), &req)
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		response.InternalError(c)
		return
	}

	response.OKPage(c, logs, total, req.GetPage(), req.GetPageSize())
}

// PurgeLogs 清理超过保留期的日志
// POST /api/v1/logs/purge
func (h *SystemLogHandler) PurgeLogs(c *gin.Context) {
	result, err := h.logSvc.Purge(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKMessage(c, result, "日志清理完成")
}

// TruncateLogs 清空全部日志
// DELETE /api/v1/logs
func (h *SystemLogHandler) TruncateLogs(c *gin.Context) {
	if err := h.logSvc.Truncate(c.Request.Context()); err != nil {
		response.InternalError(c)
		return
	}

	response.OKMessage(c, nil, "日志已全部清空")
}
