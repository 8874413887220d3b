package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/model"
	"tradelab/backend/internal/repository"
)

// defaultRetentionDays 清理接口未配置保留期时的兜底值
const defaultRetentionDays = 30

// SystemLogService 系统日志业务接口（只读 + 清理）
type SystemLogService interface {
	List(ctx context.Context, req *dto.SystemLogListRequest) ([]dto.SystemLogResponse, int64, error)
	Purge(ctx context.Context) (*dto.PurgeLogsResponse, error)
	Truncate(ctx context.Context) error
}

type systemLogService struct {
	repo          *repository.Repository
	logger        *zap.Logger
	retentionDays int
}

// NewSystemLogService 创建 SystemLogService 实例
func NewSystemLogService(repo *repository.Repository, logger *zap.Logger, retentionDays int) SystemLogService {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return &systemLogService{repo: repo, logger: logger, retentionDays: retentionDays}
}

func (s *systemLogService) List(ctx context.Context, req *dto.SystemLogListRequest) ([]dto.SystemLogResponse, int64, error) {
	fieldErrs := make(map[string]string)
	if req.Level != "" && !model.LogLevel(req.Level).Valid() {
		fieldErrs["level"] = "日志级别取值无效"
	}

	filters := &repository.SystemLogListFilters{
		Level:  req.Level,
		Module: req.Module,
		Search: req.Search,
	}
	if req.From != "" {
		ts, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			fieldErrs["from"] = "时间格式无效，应为 RFC3339"
		} else {
			filters.From = &ts
		}
	}
	if req.To != "" {
		ts, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			fieldErrs["to"] = "时间格式无效，应为 RFC3339"
		} else {
			filters.To = &ts
		}
	}
	if len(fieldErrs) > 0 {
		return nil, 0, &ValidationError{Fields: fieldErrs}
	}

	logs, total, err := s.repo.SystemLog.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询系统日志失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.SystemLogResponse, 0, len(logs))
	for i := range logs {
		result = append(result, toSystemLogResponse(&logs[i]))
	}
	return result, total, nil
}

// Purge 删除超过保留期的日志行
func (s *systemLogService) Purge(ctx context.Context) (*dto.PurgeLogsResponse, error) {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.repo.SystemLog.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("清理系统日志失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("系统日志清理完成",
		zap.Int64("deleted", deleted),
		zap.Time("cutoff", cutoff),
	)
	return &dto.PurgeLogsResponse{Deleted: deleted}, nil
}

// Truncate 清空全部日志（管理员手动操作）
func (s *systemLogService) Truncate(ctx context.Context) error {
	if err := s.repo.SystemLog.Truncate(ctx); err != nil {
		s.logger.Error("清空系统日志失败", zap.Error(err))
		return err
	}
	s.logger.Warn("系统日志已全部清空")
	return nil
}

func toSystemLogResponse(log *model.SystemLog) dto.SystemLogResponse {
	return dto.SystemLogResponse{
		ID:          log.ID,
		Level:       string(log.Level),
		Module:      log.Module,
		Message:     log.Message,
		Context:     log.Context,
		AdminUserID: log.AdminUserID,
		StudentID:   log.StudentID,
		CreatedAt:   log.CreatedAt.Format(time.RFC3339),
	}
}
