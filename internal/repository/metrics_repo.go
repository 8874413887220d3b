package repository

import (
	"context"

	"gorm.io/gorm"

	"tradelab/backend/internal/model"
)

// MetricsRepository 运营指标数据访问接口
// 四张指标表均为"取最近 N 行 + 空表播种"的读路径
type MetricsRepository interface {
	ListResponseMetrics(ctx context.Context, limit int) ([]model.ResponseMetric, error)
	SeedResponseMetrics(ctx context.Context, rows []model.ResponseMetric) error
	ListMessageVolumes(ctx context.Context, limit int) ([]model.MessageVolume, error)
	SeedMessageVolumes(ctx context.Context, rows []model.MessageVolume) error
	ListInquiryThemes(ctx context.Context, limit int) ([]model.InquiryTheme, error)
	SeedInquiryThemes(ctx context.Context, rows []model.InquiryTheme) error
	ListInsights(ctx context.Context, limit int) ([]model.Insight, error)
	SeedInsights(ctx context.Context, rows []model.Insight) error
}

// metricsRepo MetricsRepository 的 GORM 实现
type metricsRepo struct {
	db *gorm.DB
}

// NewMetricsRepo 创建 MetricsRepository 实例
func NewMetricsRepo(db *gorm.DB) MetricsRepository {
	return &metricsRepo{db: db}
}

func (r *metricsRepo) ListResponseMetrics(ctx context.Context, limit int) ([]model.ResponseMetric, error) {
	var rows []model.ResponseMetric
	err := r.db.WithContext(ctx).Order("recorded_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *metricsRepo) SeedResponseMetrics(ctx context.Context, rows []model.ResponseMetric) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *metricsRepo) ListMessageVolumes(ctx context.Context, limit int) ([]model.MessageVolume, error) {
	var rows []model.MessageVolume
	err := r.db.WithContext(ctx).Order("recorded_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *metricsRepo) SeedMessageVolumes(ctx context.Context, rows []model.MessageVolume) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *metricsRepo) ListInquiryThemes(ctx context.Context, limit int) ([]model.InquiryTheme, error) {
	var rows []model.InquiryTheme
	err := r.db.WithContext(ctx).Order("recorded_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *metricsRepo) SeedInquiryThemes(ctx context.Context, rows []model.InquiryTheme) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *metricsRepo) ListInsights(ctx context.Context, limit int) ([]model.Insight, error) {
	var rows []model.Insight
	err := r.db.WithContext(ctx).Order("recorded_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *metricsRepo) SeedInsights(ctx context.Context, rows []model.Insight) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}
