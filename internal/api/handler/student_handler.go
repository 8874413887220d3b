package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/service"
	"tradelab/backend/pkg/response"
)

// StudentHandler 学员模块 HTTP 处理器
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// ListStudents 获取学员列表
// GET /api/v1/students
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "查询参数无效")
		return
	}

	students, total, err := h.studentSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OKPage(c, students, total, req.GetPage(), req.GetPageSize())
}

// GetStudent 获取学员详情
// GET /api/v1/students/:id （:id 支持内部 ID 或 UUID）
func (h *StudentHandler) GetStudent(c *gin.Context) {
	student, err := h.studentSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, student)
}

// CreateStudent 创建学员
// POST /api/v1/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	student, err := h.studentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.Created(c, student)
}

// UpdateStudent 部分更新学员
// PATCH /api/v1/students/:id
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	student, err := h.studentSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, student)
}

// DeleteStudent 软删除学员
// DELETE /api/v1/students/:id
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	if err := h.studentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OKMessage(c, nil, "学员已删除")
}

// SetOnboardingStatus 直接设置入学进度
// PATCH /api/v1/students/:id/onboarding-status
func (h *StudentHandler) SetOnboardingStatus(c *gin.Context) {
	var req dto.SetOnboardingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	student, err := h.studentSvc.SetOnboardingStatus(c.Request.Context(), c.Param("id"), req.OnboardingStatus)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, student)
}

// UpdateTimelineStep 更新时间线步骤（联动重算入学进度）
// PATCH /api/v1/students/:id/timeline/:stepId
func (h *StudentHandler) UpdateTimelineStep(c *gin.Context) {
	stepID, err := strconv.ParseInt(c.Param("stepId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "步骤ID无效")
		return
	}

	var req dto.UpdateTimelineStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	student, err := h.studentSvc.UpdateTimelineStep(c.Request.Context(), c.Param("id"), stepID, &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, student)
}

// BulkUpdateStudents 批量更新付款/入学状态
// POST /api/v1/students/bulk-update
func (h *StudentHandler) BulkUpdateStudents(c *gin.Context) {
	var req dto.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.studentSvc.BulkUpdate(c.Request.Context(), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, result)
}

// GetStudentStats 获取学员统计
// GET /api/v1/students/stats
func (h *StudentHandler) GetStudentStats(c *gin.Context) {
	stats, err := h.studentSvc.Stats(c.Request.Context())
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, stats)
}

// handleStudentError 统一处理学员模块业务错误
func (h *StudentHandler) handleStudentError(c *gin.Context, err error) {
	if writeValidationError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, "学员不存在")
	case errors.Is(err, service.ErrStepNotFound):
		response.NotFound(c, "时间线步骤不存在")
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, "课程不存在")
	default:
		response.InternalError(c)
	}
}
