package model

import (
	"time"

	"gorm.io/gorm"
)

// Program 课程产品表 — 对应 programs
type Program struct {
	ID            int64   `gorm:"primaryKey"                 json:"id"`
	Name          string  `gorm:"type:varchar(100);not null" json:"name"`
	Price         float64 `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	DurationWeeks int     `gorm:"not null;default:0"         json:"duration_weeks"`
	IsActive      bool    `gorm:"not null;default:true"      json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Program) TableName() string { return "programs" }

// Student 学员表 — 对应 students
// 内部自增 ID 与对外 UUID 并存；接口路径参数两者皆可，由 Service 层显式分流
type Student struct {
	ID                  int64            `gorm:"primaryKey"                              json:"id"`
	UUID                string           `gorm:"type:uuid;not null;uniqueIndex"          json:"uuid"`
	Name                string           `gorm:"type:varchar(100);not null"              json:"name"`
	Email               string           `gorm:"type:varchar(255);not null;uniqueIndex"  json:"email"`
	DiscordHandle       *string          `gorm:"type:varchar(100)"                       json:"discord_handle,omitempty"`
	ProgramID           int64            `gorm:"not null"                                json:"program_id"`
	PaymentStatus       PaymentStatus    `gorm:"type:varchar(20);not null;default:'Pending'"     json:"payment_status"`
	OnboardingStatus    OnboardingStatus `gorm:"type:varchar(20);not null;default:'Not Started'" json:"onboarding_status"`
	DiscordRoleAssigned bool             `gorm:"not null;default:false"                  json:"discord_role_assigned"`
	JoinedDate          time.Time        `gorm:"type:date;not null"                      json:"joined_date"`
	DueDate             time.Time        `gorm:"type:date;not null"                      json:"due_date"`
	LastReminderSent    *time.Time       `json:"last_reminder_sent,omitempty"`
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// 关联
	Program       *Program       `gorm:"foreignKey:ProgramID"  json:"program,omitempty"`
	TimelineSteps []TimelineStep `gorm:"foreignKey:StudentID"  json:"timeline_steps,omitempty"`
	Transactions  []Transaction  `gorm:"foreignKey:StudentID"  json:"transactions,omitempty"`
	DiscordRole   *DiscordRole   `gorm:"foreignKey:StudentID"  json:"discord_role,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }
