package dto

// ── 运营指标模块 DTO ──

// ResponseMetricResponse 客服响应时长
type ResponseMetricResponse struct {
	ID          int64   `json:"id"`
	PeriodLabel string  `json:"period_label"`
	AvgMinutes  float64 `json:"avg_minutes"`
	RecordedAt  string  `json:"recorded_at"`
}

// MessageVolumeResponse 每日消息量
type MessageVolumeResponse struct {
	ID         int64  `json:"id"`
	DayLabel   string `json:"day_label"`
	Inbound    int    `json:"inbound"`
	Outbound   int    `json:"outbound"`
	RecordedAt string `json:"recorded_at"`
}

// InquiryThemeResponse 咨询主题分布
type InquiryThemeResponse struct {
	ID         int64  `json:"id"`
	Theme      string `json:"theme"`
	Count      int    `json:"count"`
	RecordedAt string `json:"recorded_at"`
}

// InsightResponse 运营洞察
type InsightResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Severity   string `json:"severity"`
	RecordedAt string `json:"recorded_at"`
}
