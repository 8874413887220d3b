package model

import (
	"time"

	"gorm.io/datatypes"
)

// SystemLog 系统审计日志表 — 对应 system_logs（只追加）
type SystemLog struct {
	ID          int64             `gorm:"primaryKey"                  json:"id"`
	Level       LogLevel          `gorm:"type:varchar(10);not null"   json:"level"`
	Module      string            `gorm:"type:varchar(50);not null"   json:"module"`
	Message     string            `gorm:"type:text;not null"          json:"message"`
	Context     datatypes.JSONMap `gorm:"type:jsonb;default:'{}'"     json:"context"`
	AdminUserID *string           `gorm:"type:uuid"                   json:"admin_user_id,omitempty"`
	StudentID   *int64            `json:"student_id,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (SystemLog) TableName() string { return "system_logs" }
