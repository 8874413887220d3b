package dto

// ── Discord 角色同步模块 DTO ──

// UpsertDiscordRoleRequest 为学员登记/更新目标角色请求
type UpsertDiscordRoleRequest struct {
	RoleName string `json:"role_name" binding:"required,min=1,max=100"`
}

// RecordSyncResultRequest 回写一次同步结果请求
// Synced 清空错误并刷新 last_sync_at；Failed 记录错误并累加 retry_count
type RecordSyncResultRequest struct {
	SyncStatus   string  `json:"sync_status"   binding:"required"`
	ErrorMessage *string `json:"error_message" binding:"omitempty,max=1000"`
}

// DiscordRoleListRequest 同步台账列表查询参数
type DiscordRoleListRequest struct {
	SyncStatus string `form:"sync_status" binding:"omitempty"`
	PaginationRequest
}

// DiscordRoleResponse 同步台账响应
type DiscordRoleResponse struct {
	ID           int64   `json:"id"`
	StudentID    int64   `json:"student_id"`
	RoleName     string  `json:"role_name"`
	SyncStatus   string  `json:"sync_status"`
	RetryCount   int     `json:"retry_count"`
	ErrorMessage *string `json:"error_message,omitempty"`
	LastSyncAt   *string `json:"last_sync_at,omitempty"`
}
