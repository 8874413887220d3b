package model

import "time"

// 运营指标表。均为简单读表：接口返回最近 N 行，空表时回填样例数据。

// ResponseMetric 客服响应时长 — 对应 response_metrics
type ResponseMetric struct {
	ID          int64     `gorm:"primaryKey"                         json:"id"`
	PeriodLabel string    `gorm:"type:varchar(50);not null"          json:"period_label"`
	AvgMinutes  float64   `gorm:"type:numeric(10,2);not null"        json:"avg_minutes"`
	RecordedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"recorded_at"`
}

// TableName 指定表名
func (ResponseMetric) TableName() string { return "response_metrics" }

// MessageVolume 每日消息量 — 对应 message_volumes
type MessageVolume struct {
	ID         int64     `gorm:"primaryKey"                         json:"id"`
	DayLabel   string    `gorm:"type:varchar(20);not null"          json:"day_label"`
	Inbound    int       `gorm:"not null;default:0"                 json:"inbound"`
	Outbound   int       `gorm:"not null;default:0"                 json:"outbound"`
	RecordedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"recorded_at"`
}

// TableName 指定表名
func (MessageVolume) TableName() string { return "message_volumes" }

// InquiryTheme 咨询主题分布 — 对应 inquiry_themes
type InquiryTheme struct {
	ID         int64     `gorm:"primaryKey"                         json:"id"`
	Theme      string    `gorm:"type:varchar(100);not null"         json:"theme"`
	Count      int       `gorm:"not null;default:0"                 json:"count"`
	RecordedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"recorded_at"`
}

// TableName 指定表名
func (InquiryTheme) TableName() string { return "inquiry_themes" }

// Insight 运营洞察 — 对应 insights
type Insight struct {
	ID         int64     `gorm:"primaryKey"                         json:"id"`
	Title      string    `gorm:"type:varchar(200);not null"         json:"title"`
	Body       string    `gorm:"type:text;not null"                 json:"body"`
	Severity   string    `gorm:"type:varchar(20);not null;default:'info'" json:"severity"`
	RecordedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"recorded_at"`
}

// TableName 指定表名
func (Insight) TableName() string { return "insights" }
