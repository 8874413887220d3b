package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/model"
	"tradelab/backend/internal/repository"
)

// 通知 / 设置模块业务错误
var (
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrSettingNotFound      = errors.New("设置项不存在")
)

// NotificationService 站内通知业务接口
type NotificationService interface {
	Create(ctx context.Context, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
	List(ctx context.Context, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	n := &model.Notification{
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
	}
	if n.Type == "" {
		n.Type = "info"
	}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.logger.Error("创建通知失败", zap.Error(err))
		return nil, err
	}
	resp := toNotificationResponse(n)
	return &resp, nil
}

func (s *notificationService) List(ctx context.Context, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	items, total, err := s.repo.Notification.List(ctx, req.UnreadOnly, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询通知列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.NotificationResponse, 0, len(items))
	for i := range items {
		result = append(result, toNotificationResponse(&items[i]))
	}
	return result, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id int64) error {
	err := s.repo.Notification.MarkRead(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *notificationService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Notification.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

// ── Setting ──

// SettingService 键值配置业务接口
type SettingService interface {
	Get(ctx context.Context, key string) (*dto.SettingResponse, error)
	List(ctx context.Context) ([]dto.SettingResponse, error)
	Put(ctx context.Context, key string, req *dto.PutSettingRequest) (*dto.SettingResponse, error)
}

type settingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSettingService 创建 SettingService 实例
func NewSettingService(repo *repository.Repository, logger *zap.Logger) SettingService {
	return &settingService{repo: repo, logger: logger}
}

func (s *settingService) Get(ctx context.Context, key string) (*dto.SettingResponse, error) {
	setting, err := s.repo.Setting.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	resp := toSettingResponse(setting)
	return &resp, nil
}

func (s *settingService) List(ctx context.Context) ([]dto.SettingResponse, error) {
	settings, err := s.repo.Setting.List(ctx)
	if err != nil {
		s.logger.Error("查询设置列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SettingResponse, 0, len(settings))
	for i := range settings {
		result = append(result, toSettingResponse(&settings[i]))
	}
	return result, nil
}

func (s *settingService) Put(ctx context.Context, key string, req *dto.PutSettingRequest) (*dto.SettingResponse, error) {
	setting := &model.Setting{Key: key, Value: req.Value}
	if err := s.repo.Setting.Upsert(ctx, setting); err != nil {
		s.logger.Error("写入设置失败", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	// Upsert 命中已有行时读回最新时间戳
	setting, err := s.repo.Setting.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	resp := toSettingResponse(setting)
	return &resp, nil
}

func toSettingResponse(setting *model.Setting) dto.SettingResponse {
	return dto.SettingResponse{
		Key:       setting.Key,
		Value:     setting.Value,
		UpdatedAt: setting.UpdatedAt.Format(time.RFC3339),
	}
}
