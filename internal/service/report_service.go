package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/model"
	"tradelab/backend/internal/repository"
	"tradelab/backend/pkg/redis"
)

const (
	dashboardCacheKey = "cache:dashboard:summary"
	dashboardCacheTTL = 60 * time.Second
	recentLogLimit    = 10
)

// ReportService 报表 / 看板业务接口
type ReportService interface {
	Reports(ctx context.Context) (*dto.ReportsResponse, error)
	DashboardSummary(ctx context.Context) (*dto.DashboardSummaryResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	cache  *redis.Client
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, cache *redis.Client, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, cache: cache, logger: logger}
}

func (s *reportService) Reports(ctx context.Context) (*dto.ReportsResponse, error) {
	revenue, err := s.repo.Transaction.RevenueByMonth(ctx)
	if err != nil {
		s.logger.Error("统计月度营收失败", zap.Error(err))
		return nil, err
	}

	enrollment, err := s.repo.Student.CountByProgram(ctx)
	if err != nil {
		s.logger.Error("统计课程报名失败", zap.Error(err))
		return nil, err
	}

	breakdown, err := s.repo.Student.CountByPaymentStatus(ctx)
	if err != nil {
		s.logger.Error("统计付款分布失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.ReportsResponse{
		RevenueByMonth:      make([]dto.RevenueByMonth, 0, len(revenue)),
		EnrollmentByProgram: make([]dto.EnrollmentByProgram, 0, len(enrollment)),
		PaymentBreakdown:    breakdown,
	}
	for _, row := range revenue {
		resp.RevenueByMonth = append(resp.RevenueByMonth, dto.RevenueByMonth{
			Month:   row.Month,
			Revenue: row.Revenue,
		})
	}
	for _, row := range enrollment {
		resp.EnrollmentByProgram = append(resp.EnrollmentByProgram, dto.EnrollmentByProgram{
			ProgramID:   row.ProgramID,
			ProgramName: row.ProgramName,
			Count:       row.Count,
		})
	}
	return resp, nil
}

// DashboardSummary 看板摘要，带 60 秒 Redis 缓存。
// 缓存读写失败只记日志并回源，不影响接口可用性
func (s *reportService) DashboardSummary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCache(ctx, dashboardCacheKey); err == nil {
			var resp dto.DashboardSummaryResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
			s.logger.Warn("看板缓存内容损坏，回源重建", zap.Error(err))
		} else if err != redis.ErrCacheMiss {
			s.logger.Warn("读取看板缓存失败", zap.Error(err))
		}
	}

	total, err := s.repo.Student.CountTotal(ctx)
	if err != nil {
		return nil, err
	}
	byPayment, err := s.repo.Student.CountByPaymentStatus(ctx)
	if err != nil {
		return nil, err
	}
	overdue, err := s.repo.Student.CountOverdue(ctx)
	if err != nil {
		return nil, err
	}
	pendingSyncs, err := s.repo.DiscordRole.CountBySyncStatus(ctx, model.SyncPending)
	if err != nil {
		return nil, err
	}
	recentLogs, err := s.repo.SystemLog.ListRecent(ctx, recentLogLimit)
	if err != nil {
		return nil, err
	}

	paid := byPayment[string(model.PaymentPaid)]
	paidPct := 0
	if total > 0 {
		paidPct = int(math.Round(float64(paid) / float64(total) * 100))
	}

	resp := &dto.DashboardSummaryResponse{
		TotalStudents:       total,
		PaidStudents:        paid,
		PaidPercentage:      paidPct,
		OverdueStudents:     overdue,
		PendingDiscordSyncs: pendingSyncs,
		RecentLogs:          make([]dto.SystemLogResponse, 0, len(recentLogs)),
	}
	for i := range recentLogs {
		resp.RecentLogs = append(resp.RecentLogs, toSystemLogResponse(&recentLogs[i]))
	}

	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.cache.SetCache(ctx, dashboardCacheKey, string(raw), dashboardCacheTTL); err != nil {
				s.logger.Warn("写入看板缓存失败", zap.Error(err))
			}
		}
	}

	return resp, nil
}
