package repository

import (
	"context"

	"gorm.io/gorm"

	"tradelab/backend/internal/model"
)

// TimelineStepRepository 时间线步骤数据访问接口
type TimelineStepRepository interface {
	CreateBatch(ctx context.Context, steps []model.TimelineStep) error
	GetByID(ctx context.Context, id int64) (*model.TimelineStep, error)
	ListByStudent(ctx context.Context, studentID int64) ([]model.TimelineStep, error)
	Update(ctx context.Context, step *model.TimelineStep) error
}

// timelineStepRepo TimelineStepRepository 的 GORM 实现
type timelineStepRepo struct {
	db *gorm.DB
}

// NewTimelineStepRepo 创建 TimelineStepRepository 实例
func NewTimelineStepRepo(db *gorm.DB) TimelineStepRepository {
	return &timelineStepRepo{db: db}
}

func (r *timelineStepRepo) CreateBatch(ctx context.Context, steps []model.TimelineStep) error {
	if len(steps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&steps).Error
}

func (r *timelineStepRepo) GetByID(ctx context.Context, id int64) (*model.TimelineStep, error) {
	var step model.TimelineStep
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&step).Error
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *timelineStepRepo) ListByStudent(ctx context.Context, studentID int64) ([]model.TimelineStep, error) {
	var steps []model.TimelineStep
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("sort_order ASC").
		Find(&steps).Error
	return steps, err
}

func (r *timelineStepRepo) Update(ctx context.Context, step *model.TimelineStep) error {
	return r.db.WithContext(ctx).Save(step).Error
}
