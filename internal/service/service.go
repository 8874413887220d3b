package service

import (
	"go.uber.org/zap"

	"tradelab/backend/config"
	"tradelab/backend/internal/repository"
	"tradelab/backend/pkg/jwt"
	"tradelab/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Student      StudentService
	Transaction  TransactionService
	DiscordRole  DiscordRoleService
	SystemLog    SystemLogService
	Metrics      MetricsService
	Notification NotificationService
	Setting      SettingService
	Program      ProgramService
	Report       ReportService
	Export       ExportService
	Auth         AuthService

	Dispatcher *AuditDispatcher
}

// NewService 创建 Service 聚合
func NewService(cfg *config.Config, repo *repository.Repository, jwtMgr *jwt.Manager, cache *redis.Client, logger *zap.Logger) *Service {
	return &Service{
		Student:      NewStudentService(repo, logger),
		Transaction:  NewTransactionService(repo, logger),
		DiscordRole:  NewDiscordRoleService(repo, logger),
		SystemLog:    NewSystemLogService(repo, logger, cfg.Audit.RetentionDays),
		Metrics:      NewMetricsService(repo, logger),
		Notification: NewNotificationService(repo, logger),
		Setting:      NewSettingService(repo, logger),
		Program:      NewProgramService(repo, logger),
		Report:       NewReportService(repo, cache, logger),
		Export:       NewExportService(repo, logger),
		Auth:         NewAuthService(repo, jwtMgr, cache, logger, cfg.Auth.AccessTokenTTL),
		Dispatcher:   NewAuditDispatcher(&cfg.Audit, repo, logger),
	}
}
