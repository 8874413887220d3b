package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/service"
	"tradelab/backend/pkg/response"
)

// SettingHandler 键值配置 HTTP 处理器
type SettingHandler struct {
	settingSvc service.SettingService
}

// NewSettingHandler 创建 SettingHandler
func NewSettingHandler(settingSvc service.SettingService) *SettingHandler {
	return &SettingHandler{settingSvc: settingSvc}
}

// ListSettings 获取全部设置
// GET /api/v1/settings
func (h *SettingHandler) ListSettings(c *gin.Context) {
	settings, err := h.settingSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": settings})
}

// GetSetting 获取单个设置项
// GET /api/v1/settings/:key
func (h *SettingHandler) GetSetting(c *gin.Context) {
	setting, err := h.settingSvc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.handleSettingError(c, err)
		return
	}

	response.OK(c, setting)
}

// PutSetting 写入设置项（不存在则创建）
// PUT /api/v1/settings/:key
func (h *SettingHandler) PutSetting(c *gin.Context) {
	var req dto.PutSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	setting, err := h.settingSvc.Put(c.Request.Context(), c.Param("key"), &req)
	if err != nil {
		h.handleSettingError(c, err)
		return
	}

	response.OK(c, setting)
}

// handleSettingError 统一处理设置模块业务错误
func (h *SettingHandler) handleSettingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSettingNotFound):
		response.NotFound(c, "设置项不存在")
	default:
		response.InternalError(c)
	}
}
