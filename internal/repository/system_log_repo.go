package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tradelab/backend/internal/model"
)

// SystemLogListFilters 日志列表过滤条件
type SystemLogListFilters struct {
	Level  string
	Module string
	Search string
	From   *time.Time
	To     *time.Time
}

// SystemLogRepository 系统日志数据访问接口（只追加 + 按期清理）
type SystemLogRepository interface {
	Create(ctx context.Context, log *model.SystemLog) error
	List(ctx context.Context, filters *SystemLogListFilters, offset, limit int) ([]model.SystemLog, int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.SystemLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Truncate(ctx context.Context) error
}

// systemLogRepo SystemLogRepository 的 GORM 实现
type systemLogRepo struct {
	db *gorm.DB
}

// NewSystemLogRepo 创建 SystemLogRepository 实例
func NewSystemLogRepo(db *gorm.DB) SystemLogRepository {
	return &systemLogRepo{db: db}
}

func (r *systemLogRepo) Create(ctx context.Context, log *model.SystemLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *systemLogRepo) List(ctx context.Context, filters *SystemLogListFilters, offset, limit int) ([]model.SystemLog, int64, error) {
	var logs []model.SystemLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.SystemLog{})
	if filters != nil {
		if filters.Level != "" {
			db = db.Where("level = ?", filters.Level)
		}
		if filters.Module != "" {
			db = db.Where("module = ?", filters.Module)
		}
		if filters.Search != "" {
			db = db.Where("message ILIKE ?", "%"+filters.Search+"%")
		}
		if filters.From != nil {
			db = db.Where("created_at >= ?", *filters.From)
		}
		if filters.To != nil {
			db = db.Where("created_at <= ?", *filters.To)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *systemLogRepo) ListRecent(ctx context.Context, limit int) ([]model.SystemLog, error) {
	var logs []model.SystemLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *systemLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.SystemLog{})
	return res.RowsAffected, res.Error
}

func (r *systemLogRepo) Truncate(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("TRUNCATE TABLE system_logs").Error
}
