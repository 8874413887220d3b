package dto

// ── 学员模块 DTO ──

// CreateStudentRequest 创建学员请求
type CreateStudentRequest struct {
	Name                string  `json:"name"                  binding:"required,min=1,max=100"`
	Email               string  `json:"email"                 binding:"required,email"`
	DiscordHandle       *string `json:"discord_handle"        binding:"omitempty,max=100"`
	ProgramID           int64   `json:"program_id"            binding:"required"`
	DueDate             string  `json:"due_date"              binding:"required"` // YYYY-MM-DD
	JoinedDate          *string `json:"joined_date"           binding:"omitempty"`
	PaymentStatus       *string `json:"payment_status"        binding:"omitempty"`
	OnboardingStatus    *string `json:"onboarding_status"     binding:"omitempty"`
	DiscordRoleAssigned *bool   `json:"discord_role_assigned"`
}

// UpdateStudentRequest 部分更新学员请求（指针字段缺省表示不更新）
type UpdateStudentRequest struct {
	Name                *string `json:"name"                  binding:"omitempty,min=1,max=100"`
	Email               *string `json:"email"                 binding:"omitempty,email"`
	DiscordHandle       *string `json:"discord_handle"        binding:"omitempty,max=100"`
	ProgramID           *int64  `json:"program_id"`
	PaymentStatus       *string `json:"payment_status"`
	OnboardingStatus    *string `json:"onboarding_status"`
	DiscordRoleAssigned *bool   `json:"discord_role_assigned"`
	JoinedDate          *string `json:"joined_date"`
	DueDate             *string `json:"due_date"`
	LastReminderSent    *string `json:"last_reminder_sent"` // RFC3339
}

// StudentListRequest 学员列表查询参数
type StudentListRequest struct {
	PaymentStatus    string `form:"payment_status"    binding:"omitempty"`
	OnboardingStatus string `form:"onboarding_status" binding:"omitempty"`
	ProgramID        int64  `form:"program_id"        binding:"omitempty"`
	Overdue          bool   `form:"overdue"`
	DueWithinDays    int    `form:"due_within_days"   binding:"omitempty,min=1"`
	Search           string `form:"search"            binding:"omitempty,max=100"`
	SortBy           string `form:"sort_by"           binding:"omitempty"`
	SortDir          string `form:"sort_dir"          binding:"omitempty,oneof=asc desc"`
	PaginationRequest
}

// SetOnboardingStatusRequest 直接设置入学进度请求
type SetOnboardingStatusRequest struct {
	OnboardingStatus string `json:"onboarding_status" binding:"required"`
}

// UpdateTimelineStepRequest 时间线步骤更新请求
type UpdateTimelineStepRequest struct {
	Status         *string `json:"status"          binding:"omitempty"`
	TimestampLabel *string `json:"timestamp_label" binding:"omitempty,max=100"`
}

// BulkUpdateRequest 批量更新请求
type BulkUpdateRequest struct {
	IDs              []int64 `json:"ids"               binding:"required,min=1"`
	PaymentStatus    *string `json:"payment_status"`
	OnboardingStatus *string `json:"onboarding_status"`
}

// ── 响应 ──

// ProgramResponse 课程简要信息
type ProgramResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	DurationWeeks int     `json:"duration_weeks"`
	IsActive      bool    `json:"is_active"`
}

// TimelineStepResponse 时间线步骤响应
type TimelineStepResponse struct {
	ID             int64   `json:"id"`
	Label          string  `json:"label"`
	Status         string  `json:"status"`
	TimestampLabel *string `json:"timestamp_label,omitempty"`
	SortOrder      int     `json:"sort_order"`
}

// StudentResponse 学员信息响应
type StudentResponse struct {
	ID                  int64                  `json:"id"`
	UUID                string                 `json:"uuid"`
	Name                string                 `json:"name"`
	Email               string                 `json:"email"`
	DiscordHandle       *string                `json:"discord_handle,omitempty"`
	ProgramID           int64                  `json:"program_id"`
	Program             *ProgramResponse       `json:"program,omitempty"`
	PaymentStatus       string                 `json:"payment_status"`
	OnboardingStatus    string                 `json:"onboarding_status"`
	DiscordRoleAssigned bool                   `json:"discord_role_assigned"`
	JoinedDate          string                 `json:"joined_date"`
	DueDate             string                 `json:"due_date"`
	LastReminderSent    *string                `json:"last_reminder_sent,omitempty"`
	TimelineSteps       []TimelineStepResponse `json:"timeline_steps,omitempty"`
	Transactions        []TransactionResponse  `json:"transactions,omitempty"`
	DiscordRole         *DiscordRoleResponse   `json:"discord_role,omitempty"`
	CreatedAt           string                 `json:"created_at"`
	UpdatedAt           string                 `json:"updated_at"`
}

// BulkUpdateResponse 批量更新响应
type BulkUpdateResponse struct {
	Affected int64 `json:"affected"`
}

// StudentStatsResponse 学员统计响应
type StudentStatsResponse struct {
	Total              int64            `json:"total"`
	ByPaymentStatus    map[string]int64 `json:"by_payment_status"`
	ByOnboardingStatus map[string]int64 `json:"by_onboarding_status"`
	PaidPercentage     int              `json:"paid_percentage"`
	Overdue            int64            `json:"overdue"`
}
