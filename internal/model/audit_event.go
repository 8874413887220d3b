package model

import (
	"time"

	"gorm.io/datatypes"
)

// 审计事件类型。写路径在主事务内向 audit_outbox 追加事件，
// 派发器异步将其物化为 system_logs 行，保证审计轨迹与主状态一致。
const (
	AuditStudentCreated    = "student_created"
	AuditStudentUpdated    = "student_updated"
	AuditStudentDeleted    = "student_deleted"
	AuditPaymentUpdated    = "payment_updated"
	AuditOnboardingUpdated = "onboarding_updated"
	AuditTimelineUpdated   = "timeline_updated"
	AuditDiscordSyncResult = "discord_sync_result"
)

// AuditEvent 审计事务出箱表 — 对应 audit_outbox
type AuditEvent struct {
	ID           int64             `gorm:"primaryKey"                json:"id"`
	Kind         string            `gorm:"type:varchar(50);not null" json:"kind"`
	Payload      datatypes.JSONMap `gorm:"type:jsonb;default:'{}'"   json:"payload"`
	StudentID    *int64            `json:"student_id,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	DispatchedAt *time.Time        `json:"dispatched_at,omitempty"`
}

// TableName 指定表名
func (AuditEvent) TableName() string { return "audit_outbox" }
