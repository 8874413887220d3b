package dto

// ── 课程模块 DTO ──

// CreateProgramRequest 创建课程请求
type CreateProgramRequest struct {
	Name          string  `json:"name"           binding:"required,min=1,max=100"`
	Price         float64 `json:"price"          binding:"omitempty,gte=0"`
	DurationWeeks int     `json:"duration_weeks" binding:"omitempty,gte=0"`
	IsActive      *bool   `json:"is_active"`
}

// UpdateProgramRequest 部分更新课程请求
type UpdateProgramRequest struct {
	Name          *string  `json:"name"           binding:"omitempty,min=1,max=100"`
	Price         *float64 `json:"price"          binding:"omitempty,gte=0"`
	DurationWeeks *int     `json:"duration_weeks" binding:"omitempty,gte=0"`
	IsActive      *bool    `json:"is_active"`
}
