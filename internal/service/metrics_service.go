package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/model"
	"tradelab/backend/internal/repository"
)

// metricsDefaultLimit 指标读取的默认行数
const metricsDefaultLimit = 30

// MetricsService 运营指标业务接口。
// 四张指标表均为读路径；空表时回填一批样例数据后再返回
type MetricsService interface {
	ResponseMetrics(ctx context.Context) ([]dto.ResponseMetricResponse, error)
	MessageVolumes(ctx context.Context) ([]dto.MessageVolumeResponse, error)
	InquiryThemes(ctx context.Context) ([]dto.InquiryThemeResponse, error)
	Insights(ctx context.Context) ([]dto.InsightResponse, error)
}

type metricsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMetricsService 创建 MetricsService 实例
func NewMetricsService(repo *repository.Repository, logger *zap.Logger) MetricsService {
	return &metricsService{repo: repo, logger: logger}
}

func (s *metricsService) ResponseMetrics(ctx context.Context) ([]dto.ResponseMetricResponse, error) {
	rows, err := s.repo.Metrics.ListResponseMetrics(ctx, metricsDefaultLimit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		seed := []model.ResponseMetric{
			{PeriodLabel: "本周", AvgMinutes: 12.5},
			{PeriodLabel: "上周", AvgMinutes: 18.2},
			{PeriodLabel: "本月", AvgMinutes: 15.4},
		}
		if err := s.repo.Metrics.SeedResponseMetrics(ctx, seed); err != nil {
			s.logger.Error("回填响应时长样例失败", zap.Error(err))
			return nil, err
		}
		rows, err = s.repo.Metrics.ListResponseMetrics(ctx, metricsDefaultLimit)
		if err != nil {
			return nil, err
		}
	}

	result := make([]dto.ResponseMetricResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.ResponseMetricResponse{
			ID:          row.ID,
			PeriodLabel: row.PeriodLabel,
			AvgMinutes:  row.AvgMinutes,
			RecordedAt:  row.RecordedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

func (s *metricsService) MessageVolumes(ctx context.Context) ([]dto.MessageVolumeResponse, error) {
	rows, err := s.repo.Metrics.ListMessageVolumes(ctx, metricsDefaultLimit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		seed := []model.MessageVolume{
			{DayLabel: "周一", Inbound: 42, Outbound: 38},
			{DayLabel: "周二", Inbound: 51, Outbound: 45},
			{DayLabel: "周三", Inbound: 47, Outbound: 40},
			{DayLabel: "周四", Inbound: 39, Outbound: 35},
			{DayLabel: "周五", Inbound: 56, Outbound: 49},
		}
		if err := s.repo.Metrics.SeedMessageVolumes(ctx, seed); err != nil {
			s.logger.Error("回填消息量样例失败", zap.Error(err))
			return nil, err
		}
		rows, err = s.repo.Metrics.ListMessageVolumes(ctx, metricsDefaultLimit)
		if err != nil {
			return nil, err
		}
	}

	result := make([]dto.MessageVolumeResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.MessageVolumeResponse{
			ID:         row.ID,
			DayLabel:   row.DayLabel,
			Inbound:    row.Inbound,
			Outbound:   row.Outbound,
			RecordedAt: row.RecordedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

func (s *metricsService) InquiryThemes(ctx context.Context) ([]dto.InquiryThemeResponse, error) {
	rows, err := s.repo.Metrics.ListInquiryThemes(ctx, metricsDefaultLimit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		seed := []model.InquiryTheme{
			{Theme: "付款问题", Count: 23},
			{Theme: "课程安排", Count: 18},
			{Theme: "Discord 权限", Count: 12},
			{Theme: "退款咨询", Count: 7},
		}
		if err := s.repo.Metrics.SeedInquiryThemes(ctx, seed); err != nil {
			s.logger.Error("回填咨询主题样例失败", zap.Error(err))
			return nil, err
		}
		rows, err = s.repo.Metrics.ListInquiryThemes(ctx, metricsDefaultLimit)
		if err != nil {
			return nil, err
		}
	}

	result := make([]dto.InquiryThemeResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.InquiryThemeResponse{
			ID:         row.ID,
			Theme:      row.Theme,
			Count:      row.Count,
			RecordedAt: row.RecordedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

func (s *metricsService) Insights(ctx context.Context) ([]dto.InsightResponse, error) {
	rows, err := s.repo.Metrics.ListInsights(ctx, metricsDefaultLimit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		seed := []model.Insight{
			{Title: "付款催收时间窗", Body: "逾期学员集中在到期后 3-5 天完成补缴，建议到期次日发送首轮提醒。", Severity: "info"},
			{Title: "Discord 同步失败率上升", Body: "近一周同步失败占比超过 10%，多为角色名变更未同步，建议核对角色配置。", Severity: "warning"},
		}
		if err := s.repo.Metrics.SeedInsights(ctx, seed); err != nil {
			s.logger.Error("回填运营洞察样例失败", zap.Error(err))
			return nil, err
		}
		rows, err = s.repo.Metrics.ListInsights(ctx, metricsDefaultLimit)
		if err != nil {
			return nil, err
		}
	}

	result := make([]dto.InsightResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.InsightResponse{
			ID:         row.ID,
			Title:      row.Title,
			Body:       row.Body,
			Severity:   row.Severity,
			RecordedAt: row.RecordedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}
