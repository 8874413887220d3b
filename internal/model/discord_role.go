package model

import "time"

// DiscordRole Discord 角色同步台账 — 对应 discord_roles（与 students 1:1）
// 仅记录同步状态，后端不发起任何 Discord API 调用
type DiscordRole struct {
	ID           int64      `gorm:"primaryKey"                          json:"id"`
	StudentID    int64      `gorm:"not null;uniqueIndex"                json:"student_id"`
	RoleName     string     `gorm:"type:varchar(100);not null"          json:"role_name"`
	SyncStatus   SyncStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"sync_status"`
	RetryCount   int        `gorm:"not null;default:0"                  json:"retry_count"`
	ErrorMessage *string    `gorm:"type:text"                           json:"error_message,omitempty"`
	LastSyncAt   *time.Time `json:"last_sync_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (DiscordRole) TableName() string { return "discord_roles" }
