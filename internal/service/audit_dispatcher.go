package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tradelab/backend/config"
	"tradelab/backend/internal/model"
	"tradelab/backend/internal/repository"
)

// AuditDispatcher 审计出箱派发器
//
// 写路径在主事务内向 audit_outbox 追加事件，本派发器按固定间隔轮询
// 未派发事件，渲染为 system_logs 行后标记已派发。日志写入失败时事件
// 保留在出箱中，下一轮重试，保证审计轨迹最终与主状态一致。
type AuditDispatcher struct {
	repo     *repository.Repository
	logger   *zap.Logger
	interval time.Duration
	batch    int
}

// NewAuditDispatcher 创建派发器实例
func NewAuditDispatcher(cfg *config.AuditConfig, repo *repository.Repository, logger *zap.Logger) *AuditDispatcher {
	interval := cfg.DispatchInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	batch := cfg.DispatchBatch
	if batch <= 0 {
		batch = 100
	}
	return &AuditDispatcher{
		repo:     repo,
		logger:   logger,
		interval: interval,
		batch:    batch,
	}
}

// Run 启动轮询循环，阻塞直到 ctx 取消；取消前执行最后一轮排空
func (d *AuditDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("审计派发器已启动",
		zap.Duration("interval", d.interval),
		zap.Int("batch", d.batch),
	)

	for {
		select {
		case <-ctx.Done():
			// 关停前排空剩余事件，事件不丢（失败则留待下次启动）
			drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if n, err := d.DispatchOnce(drainCtx); err != nil {
				d.logger.Warn("关停排空失败", zap.Error(err))
			} else if n > 0 {
				d.logger.Info("关停前已排空事件", zap.Int("count", n))
			}
			cancel()
			d.logger.Info("审计派发器已停止")
			return
		case <-ticker.C:
			if _, err := d.DispatchOnce(ctx); err != nil {
				d.logger.Error("审计事件派发失败", zap.Error(err))
			}
		}
	}
}

// DispatchOnce 执行一轮派发，返回成功物化的事件数
func (d *AuditDispatcher) DispatchOnce(ctx context.Context) (int, error) {
	events, err := d.repo.AuditOutbox.ListUndispatched(ctx, d.batch)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	dispatched := make([]int64, 0, len(events))
	for i := range events {
		event := &events[i]
		module, level, message := RenderAuditEvent(event)

		log := &model.SystemLog{
			Level:     level,
			Module:    module,
			Message:   message,
			Context:   event.Payload,
			StudentID: event.StudentID,
			CreatedAt: event.CreatedAt, // 日志时间取事件产生时间，而非派发时间
		}
		if err := d.repo.SystemLog.Create(ctx, log); err != nil {
			// 单条失败即止步，保持事件顺序；剩余事件下一轮重试
			d.logger.Error("物化系统日志失败",
				zap.Int64("event_id", event.ID),
				zap.String("kind", event.Kind),
				zap.Error(err),
			)
			break
		}
		dispatched = append(dispatched, event.ID)
	}

	if err := d.repo.AuditOutbox.MarkDispatched(ctx, dispatched); err != nil {
		return 0, err
	}

	return len(dispatched), nil
}
