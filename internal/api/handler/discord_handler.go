package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/service"
	"tradelab/backend/pkg/response"
)

// DiscordHandler Discord 角色同步台账 HTTP 处理器
type DiscordHandler struct {
	discordSvc service.DiscordRoleService
}

// NewDiscordHandler 创建 DiscordHandler
func NewDiscordHandler(discordSvc service.DiscordRoleService) *DiscordHandler {
	return &DiscordHandler{discordSvc: discordSvc}
}

// ListRoles 获取同步台账列表
// GET /api/v1/discord/roles
func (h *DiscordHandler) ListRoles(c *gin.Context) {
	var req dto.DiscordRoleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "查询参数无效")
		return
	}

	roles, total, err := h.discordSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleDiscordError(c, err)
		return
	}

	response.OKPage(c, roles, total, req.GetPage(), req.GetPageSize())
}

// GetStudentRole 获取学员的同步台账
// GET /api/v1/students/:id/discord-role
func (h *DiscordHandler) GetStudentRole(c *gin.Context) {
	role, err := h.discordSvc.GetByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleDiscordError(c, err)
		return
	}

	response.OK(c, role)
}

// UpsertStudentRole 登记/更新学员目标角色
// PUT /api/v1/students/:id/discord-role
func (h *DiscordHandler) UpsertStudentRole(c *gin.Context) {
	var req dto.UpsertDiscordRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	role, err := h.discordSvc.Upsert(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleDiscordError(c, err)
		return
	}

	response.OK(c, role)
}

// RecordSyncResult 回写一次同步结果
// POST /api/v1/students/:id/discord-role/sync-result
func (h *DiscordHandler) RecordSyncResult(c *gin.Context) {
	var req dto.RecordSyncResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	role, err := h.discordSvc.RecordSyncResult(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleDiscordError(c, err)
		return
	}

	response.OK(c, role)
}

// handleDiscordError 统一处理 Discord 模块业务错误
func (h *DiscordHandler) handleDiscordError(c *gin.Context, err error) {
	if writeValidationError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, "学员不存在")
	case errors.Is(err, service.ErrDiscordRoleNotFound):
		response.NotFound(c, "Discord 角色记录不存在")
	default:
		response.InternalError(c)
	}
}
