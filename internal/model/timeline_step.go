package model

// TimelineStep 入学时间线步骤表 — 对应 timeline_steps
// 每个学员创建时固定播种 4 步，sort_order 1..4 决定展示顺序
type TimelineStep struct {
	ID             int64      `gorm:"primaryKey"                           json:"id"`
	StudentID      int64      `gorm:"not null;index"                       json:"student_id"`
	Label          string     `gorm:"type:varchar(100);not null"           json:"label"`
	Status         StepStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TimestampLabel *string    `gorm:"type:varchar(100)"                    json:"timestamp_label,omitempty"`
	SortOrder      int        `gorm:"not null;default:0"                   json:"sort_order"`
	BaseModel
}

// TableName 指定表名
func (TimelineStep) TableName() string { return "timeline_steps" }

// DefaultTimelineSteps 学员创建时播种的默认时间线
// 顺序与状态固定：表单已提交 → 付款核验中 → 自动建档 → 角色分配
func DefaultTimelineSteps(studentID int64) []TimelineStep {
	return []TimelineStep{
		{StudentID: studentID, Label: "Form Submitted", Status: StepCompleted, SortOrder: 1},
		{StudentID: studentID, Label: "Payment Verification", Status: StepCurrent, SortOrder: 2},
		{StudentID: studentID, Label: "Auto Logged", Status: StepPending, SortOrder: 3},
		{StudentID: studentID, Label: "Role Assigned", Status: StepPending, SortOrder: 4},
	}
}
