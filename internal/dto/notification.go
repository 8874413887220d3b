package dto

// ── 通知模块 DTO ──

// CreateNotificationRequest 创建通知请求
type CreateNotificationRequest struct {
	Title   string `json:"title"   binding:"required,min=1,max=200"`
	Message string `json:"message" binding:"required"`
	Type    string `json:"type"    binding:"omitempty,oneof=info warning success error"`
}

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	UnreadOnly bool `form:"unread_only"`
	PaginationRequest
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// ── 设置模块 DTO ──

// PutSettingRequest 写入设置请求
type PutSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// SettingResponse 设置响应
type SettingResponse struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at"`
}
