package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/service"
	"tradelab/backend/pkg/response"
)

// ExportHandler 数据导出 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportStudents 导出学员花名册 Excel
// GET /api/v1/students/export（查询参数与列表接口一致）
func (h *ExportHandler) ExportStudents(c *gin.Context) {
	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "查询参数无效")
		return
	}

	f, filename, err := h.exportSvc.ExportStudents(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := f.Write(c.Writer); err != nil {
		// 响应头已写出，只能中断连接
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
