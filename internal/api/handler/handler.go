package handler

import "tradelab/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Student      *StudentHandler
	Transaction  *TransactionHandler
	Discord      *DiscordHandler
	SystemLog    *SystemLogHandler
	Metrics      *MetricsHandler
	Notification *NotificationHandler
	Setting      *SettingHandler
	Program      *ProgramHandler
	Report       *ReportHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Student:      NewStudentHandler(svc.Student),
		Transaction:  NewTransactionHandler(svc.Transaction),
		Discord:      NewDiscordHandler(svc.DiscordRole),
		SystemLog:    NewSystemLogHandler(svc.SystemLog),
		Metrics:      NewMetricsHandler(svc.Metrics),
		Notification: NewNotificationHandler(svc.Notification),
		Setting:      NewSettingHandler(svc.Setting),
		Program:      NewProgramHandler(svc.Program),
		Report:       NewReportHandler(svc.Report),
		Export:       NewExportHandler(svc.Export),
	}
}
