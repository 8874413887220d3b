package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tradelab/backend/internal/model"
)

// AuditOutboxRepository 审计出箱数据访问接口
// Append 必须在已有事务的 *gorm.DB 上调用（通过 Repository.Atomic / WithTx 注入），
// 才能保证事件与主写入的原子性
type AuditOutboxRepository interface {
	Append(ctx context.Context, event *model.AuditEvent) error
	ListUndispatched(ctx context.Context, limit int) ([]model.AuditEvent, error)
	MarkDispatched(ctx context.Context, ids []int64) error
	CountUndispatched(ctx context.Context) (int64, error)
}

// auditOutboxRepo AuditOutboxRepository 的 GORM 实现
type auditOutboxRepo struct {
	db *gorm.DB
}

// NewAuditOutboxRepo 创建 AuditOutboxRepository 实例
func NewAuditOutboxRepo(db *gorm.DB) AuditOutboxRepository {
	return &auditOutboxRepo{db: db}
}

func (r *auditOutboxRepo) Append(ctx context.Context, event *model.AuditEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *auditOutboxRepo) ListUndispatched(ctx context.Context, limit int) ([]model.AuditEvent, error) {
	var events []model.AuditEvent
	err := r.db.WithContext(ctx).
		Where("dispatched_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *auditOutboxRepo) MarkDispatched(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.AuditEvent{}).
		Where("id IN ?", ids).
		Update("dispatched_at", time.Now()).Error
}

func (r *auditOutboxRepo) CountUndispatched(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AuditEvent{}).
		Where("dispatched_at IS NULL").
		Count(&count).Error
	return count, err
}
