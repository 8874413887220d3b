package model

import "time"

// Notification 后台站内通知表 — 对应 notifications
type Notification struct {
	ID        int64     `gorm:"primaryKey"                          json:"id"`
	Title     string    `gorm:"type:varchar(200);not null"          json:"title"`
	Message   string    `gorm:"type:text;not null"                  json:"message"`
	Type      string    `gorm:"type:varchar(20);not null;default:'info'" json:"type"` // info | warning | success | error
	IsRead    bool      `gorm:"not null;default:false"              json:"is_read"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"  json:"created_at"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// Setting 键值配置表 — 对应 settings
type Setting struct {
	Key       string    `gorm:"type:varchar(100);primaryKey"       json:"key"`
	Value     string    `gorm:"type:text;not null"                 json:"value"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (Setting) TableName() string { return "settings" }
