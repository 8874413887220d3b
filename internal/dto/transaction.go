package dto

// ── 交易模块 DTO ──

// CreateTransactionRequest 创建交易请求
type CreateTransactionRequest struct {
	StudentID int64   `json:"student_id" binding:"required"`
	Amount    float64 `json:"amount"     binding:"required,gt=0"`
	Currency  string  `json:"currency"   binding:"omitempty,len=3"`
	Method    string  `json:"method"     binding:"required"`
	Status    *string `json:"status"     binding:"omitempty"`
}

// UpdateTransactionRequest 更新交易状态请求
type UpdateTransactionRequest struct {
	Status string `json:"status" binding:"required"`
}

// TransactionListRequest 交易列表查询参数
type TransactionListRequest struct {
	StudentID int64  `form:"student_id" binding:"omitempty"`
	Status    string `form:"status"     binding:"omitempty"`
	Method    string `form:"method"     binding:"omitempty"`
	PaginationRequest
}

// TransactionResponse 交易响应
type TransactionResponse struct {
	ID        int64   `json:"id"`
	StudentID int64   `json:"student_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Method    string  `json:"method"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}
