package dto

// ── 系统日志模块 DTO ──

// SystemLogListRequest 日志列表查询参数
type SystemLogListRequest struct {
	Level  string `form:"level"  binding:"omitempty"`
	Module string `form:"module" binding:"omitempty,max=50"`
	Search string `form:"search" binding:"omitempty,max=100"`
	From   string `form:"from"   binding:"omitempty"` // RFC3339
	To     string `form:"to"     binding:"omitempty"`
	PaginationRequest
}

// SystemLogResponse 日志响应
type SystemLogResponse struct {
	ID          int64                  `json:"id"`
	Level       string                 `json:"level"`
	Module      string                 `json:"module"`
	Message     string                 `json:"message"`
	Context     map[string]interface{} `json:"context,omitempty"`
	AdminUserID *string                `json:"admin_user_id,omitempty"`
	StudentID   *int64                 `json:"student_id,omitempty"`
	CreatedAt   string                 `json:"created_at"`
}

// PurgeLogsResponse 日志清理响应
type PurgeLogsResponse struct {
	Deleted int64 `json:"deleted"`
}
