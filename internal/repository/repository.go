package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Student      StudentRepository
	TimelineStep TimelineStepRepository
	Transaction  TransactionRepository
	DiscordRole  DiscordRoleRepository
	SystemLog    SystemLogRepository
	AuditOutbox  AuditOutboxRepository
	AdminUser    AdminUserRepository
	Notification NotificationRepository
	Setting      SettingRepository
	Program      ProgramRepository
	Metrics      MetricsRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		Student:      NewStudentRepo(db),
		TimelineStep: NewTimelineStepRepo(db),
		Transaction:  NewTransactionRepo(db),
		DiscordRole:  NewDiscordRoleRepo(db),
		SystemLog:    NewSystemLogRepo(db),
		AuditOutbox:  NewAuditOutboxRepo(db),
		AdminUser:    NewAdminUserRepo(db),
		Notification: NewNotificationRepo(db),
		Setting:      NewSettingRepo(db),
		Program:      NewProgramRepo(db),
		Metrics:      NewMetricsRepo(db),
	}
}

// BeginTx 开启一个事务并返回事务连接
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到事务连接的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Atomic 在单个数据库事务内执行 fn
// fn 返回错误时整体回滚，主写入与审计出箱事件共享同一事务
func (r *Repository) Atomic(ctx context.Context, fn func(txRepo *Repository) error) error {
	// 未挂接数据库连接时（内存替身）直接执行
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
