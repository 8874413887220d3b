package model

// 业务枚举统一定义为封闭字符串类型。
// 取值即数据库与前端的线上值，新增取值时各消费点的 switch 会在编译期暴露遗漏。

// ── 付款状态 ──

// PaymentStatus 学员付款状态
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPending PaymentStatus = "Pending"
	PaymentFailed  PaymentStatus = "Failed"
)

// Valid 校验取值是否合法
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentPending, PaymentFailed:
		return true
	}
	return false
}

// ── 入学进度状态 ──

// OnboardingStatus 学员入学进度
type OnboardingStatus string

const (
	OnboardingNotStarted OnboardingStatus = "Not Started"
	OnboardingInProgress OnboardingStatus = "In Progress"
	OnboardingCompleted  OnboardingStatus = "Completed"
)

// Valid 校验取值是否合法
func (s OnboardingStatus) Valid() bool {
	switch s {
	case OnboardingNotStarted, OnboardingInProgress, OnboardingCompleted:
		return true
	}
	return false
}

// ── 时间线步骤状态 ──

// StepStatus 入学时间线单步状态
type StepStatus string

const (
	StepCompleted StepStatus = "completed"
	StepCurrent   StepStatus = "current"
	StepPending   StepStatus = "pending"
	StepFailed    StepStatus = "failed"
)

// Valid 校验取值是否合法
func (s StepStatus) Valid() bool {
	switch s {
	case StepCompleted, StepCurrent, StepPending, StepFailed:
		return true
	}
	return false
}

// ── 交易 ──

// TxMethod 交易支付渠道
type TxMethod string

const (
	TxMethodStripe       TxMethod = "Stripe"
	TxMethodPayPal       TxMethod = "PayPal"
	TxMethodBankTransfer TxMethod = "Bank Transfer"
	TxMethodCrypto       TxMethod = "Crypto"
)

// Valid 校验取值是否合法
func (m TxMethod) Valid() bool {
	switch m {
	case TxMethodStripe, TxMethodPayPal, TxMethodBankTransfer, TxMethodCrypto:
		return true
	}
	return false
}

// TxStatus 交易状态
type TxStatus string

const (
	TxVerified TxStatus = "Verified"
	TxPending  TxStatus = "Pending"
	TxFailed   TxStatus = "Failed"
)

// Valid 校验取值是否合法
func (s TxStatus) Valid() bool {
	switch s {
	case TxVerified, TxPending, TxFailed:
		return true
	}
	return false
}

// ── Discord 角色同步状态 ──

// SyncStatus Discord 角色同步状态
type SyncStatus string

const (
	SyncSynced  SyncStatus = "Synced"
	SyncPending SyncStatus = "Pending"
	SyncFailed  SyncStatus = "Failed"
)

// Valid 校验取值是否合法
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncSynced, SyncPending, SyncFailed:
		return true
	}
	return false
}

// ── 系统日志级别 ──

// LogLevel 系统日志级别
type LogLevel string

const (
	LevelInfo    LogLevel = "INFO"
	LevelSuccess LogLevel = "SUCCESS"
	LevelWarning LogLevel = "WARNING"
	LevelError   LogLevel = "ERROR"
)

// Valid 校验取值是否合法
func (l LogLevel) Valid() bool {
	switch l {
	case LevelInfo, LevelSuccess, LevelWarning, LevelError:
		return true
	}
	return false
}
