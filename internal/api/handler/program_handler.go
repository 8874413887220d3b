package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/service"
	"tradelab/backend/pkg/response"
)

// ProgramHandler 课程产品 HTTP 处理器
type ProgramHandler struct {
	programSvc service.ProgramService
}

// NewProgramHandler 创建 ProgramHandler
func NewProgramHandler(programSvc service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programSvc: programSvc}
}

// ListPrograms 获取课程列表
// GET /api/v1/programs
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	programs, err := h.programSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": programs})
}

// GetProgram 获取课程详情
// GET /api/v1/programs/:id
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "课程ID无效")
		return
	}

	program, err := h.programSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}

	response.OK(c, program)
}

// CreateProgram 创建课程
// POST /api/v1/programs
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req dto.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	program, err := h.programSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}

	response.Created(c, program)
}

// UpdateProgram 部分更新课程
// PATCH /api/v1/programs/:id
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "课程ID无效")
		return
	}

	var req dto.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	program, err := h.programSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}

	response.OK(c, program)
}

// handleProgramError 统一处理课程模块业务错误
func (h *ProgramHandler) handleProgramError(c *gin.Context, err error) {
	if writeValidationError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, "课程不存在")
	default:
		response.InternalError(c)
	}
}
