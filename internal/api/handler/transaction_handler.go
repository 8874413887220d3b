package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/service"
	"tradelab/backend/pkg/response"
)

// TransactionHandler 交易模块 HTTP 处理器
type TransactionHandler struct {
	txSvc service.TransactionService
}

// NewTransactionHandler 创建 TransactionHandler
func NewTransactionHandler(txSvc service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txSvc: txSvc}
}

// ListTransactions 获取交易列表
// GET /api/v1/transactions
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var req dto.TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "查询参数无效")
		return
	}

	txs, total, err := h.txSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleTransactionError(c, err)
		return
	}

	response.OKPage(c, txs, total, req.GetPage(), req.GetPageSize())
}

// GetTransaction 获取交易详情
// GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "交易ID无效")
		return
	}

	tx, err := h.txSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleTransactionError(c, err)
		return
	}

	response.OK(c, tx)
}

// CreateTransaction 创建交易
// POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	tx, err := h.txSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleTransactionError(c, err)
		return
	}

	response.Created(c, tx)
}

// UpdateTransactionStatus 更新交易状态
// PATCH /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransactionStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "交易ID无效")
		return
	}

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	tx, err := h.txSvc.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTransactionError(c, err)
		return
	}

	response.OK(c, tx)
}

// DeleteTransaction 删除交易
// DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "交易ID无效")
		return
	}

	if err := h.txSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleTransactionError(c, err)
		return
	}

	response.OKMessage(c, nil, "交易已删除")
}

// handleTransactionError 统一处理交易模块业务错误
func (h *TransactionHandler) handleTransactionError(c *gin.Context, err error) {
	if writeValidationError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrTransactionNotFound):
		response.NotFound(c, "交易不存在")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, "学员不存在")
	default:
		response.InternalError(c)
	}
}
