package model

// Transaction 交易流水表 — 对应 transactions
// 与时间线/入学状态相互独立，不存在自动同步路径
type Transaction struct {
	ID        int64    `gorm:"primaryKey"                            json:"id"`
	StudentID int64    `gorm:"not null;index"                        json:"student_id"`
	Amount    float64  `gorm:"type:numeric(10,2);not null"           json:"amount"`
	Currency  string   `gorm:"type:char(3);not null;default:'USD'"   json:"currency"`
	Method    TxMethod `gorm:"type:varchar(20);not null"             json:"method"`
	Status    TxStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	BaseModel

	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// TableName 指定表名
func (Transaction) TableName() string { return "transactions" }
