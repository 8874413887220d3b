package dto

// ── 报表 / 看板模块 DTO ──

// RevenueByMonth 按月营收（仅统计 Verified 交易）
type RevenueByMonth struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
}

// EnrollmentByProgram 按课程统计报名人数
type EnrollmentByProgram struct {
	ProgramID   int64  `json:"program_id"`
	ProgramName string `json:"program_name"`
	Count       int64  `json:"count"`
}

// ReportsResponse 报表聚合响应
type ReportsResponse struct {
	RevenueByMonth      []RevenueByMonth      `json:"revenue_by_month"`
	EnrollmentByProgram []EnrollmentByProgram `json:"enrollment_by_program"`
	PaymentBreakdown    map[string]int64      `json:"payment_breakdown"`
}

// DashboardSummaryResponse 看板摘要响应
type DashboardSummaryResponse struct {
	TotalStudents       int64               `json:"total_students"`
	PaidStudents        int64               `json:"paid_students"`
	PaidPercentage      int                 `json:"paid_percentage"`
	OverdueStudents     int64               `json:"overdue_students"`
	PendingDiscordSyncs int64               `json:"pending_discord_syncs"`
	RecentLogs          []SystemLogResponse `json:"recent_logs"`
}
