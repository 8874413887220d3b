package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/model"
	"tradelab/backend/internal/repository"
)

// ErrDiscordRoleNotFound 学员尚未登记 Discord 角色
var ErrDiscordRoleNotFound = errors.New("Discord 角色记录不存在")

// DiscordRoleService Discord 角色同步台账业务接口。
// 本服务不调用 Discord API，只维护外部同步进程的状态账本
type DiscordRoleService interface {
	Upsert(ctx context.Context, idOrUUID string, req *dto.UpsertDiscordRoleRequest) (*dto.DiscordRoleResponse, error)
	GetByStudent(ctx context.Context, idOrUUID string) (*dto.DiscordRoleResponse, error)
	RecordSyncResult(ctx context.Context, idOrUUID string, req *dto.RecordSyncResultRequest) (*dto.DiscordRoleResponse, error)
	List(ctx context.Context, req *dto.DiscordRoleListRequest) ([]dto.DiscordRoleResponse, int64, error)
}

type discordRoleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDiscordRoleService 创建 DiscordRoleService 实例
func NewDiscordRoleService(repo *repository.Repository, logger *zap.Logger) DiscordRoleService {
	return &discordRoleService{repo: repo, logger: logger}
}

func (s *discordRoleService) Upsert(ctx context.Context, idOrUUID string, req *dto.UpsertDiscordRoleRequest) (*dto.DiscordRoleResponse, error) {
	student, err := resolveStudent(ctx, s.repo, idOrUUID)
	if err != nil {
		return nil, err
	}

	role := &model.DiscordRole{
		StudentID:  student.ID,
		RoleName:   req.RoleName,
		SyncStatus: model.SyncPending,
	}
	if err := s.repo.DiscordRole.Upsert(ctx, role); err != nil {
		s.logger.Error("登记 Discord 角色失败", zap.Int64("student_id", student.ID), zap.Error(err))
		return nil, err
	}

	// Upsert 命中已有行时 role 不携带最新字段，读回台账行
	role, err = s.repo.DiscordRole.GetByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	resp := toDiscordRoleResponse(role)
	return &resp, nil
}

func (s *discordRoleService) GetByStudent(ctx context.Context, idOrUUID string) (*dto.DiscordRoleResponse, error) {
	student, err := resolveStudent(ctx, s.repo, idOrUUID)
	if err != nil {
		return nil, err
	}

	role, err := s.repo.DiscordRole.GetByStudent(ctx, student.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscordRoleNotFound
		}
		return nil, err
	}

	resp := toDiscordRoleResponse(role)
	return &resp, nil
}

// RecordSyncResult 回写一次外部同步的结果。
// Synced：刷新 last_sync_at 并清空错误；Failed：记录错误并累加 retry_count；
// 同步成功时同时把学员的 discord_role_assigned 置位，整体同一事务
func (s *discordRoleService) RecordSyncResult(ctx context.Context, idOrUUID string, req *dto.RecordSyncResultRequest) (*dto.DiscordRoleResponse, error) {
	next := model.SyncStatus(req.SyncStatus)
	if !next.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"sync_status": "同步状态取值无效"}}
	}

	student, err := resolveStudent(ctx, s.repo, idOrUUID)
	if err != nil {
		return nil, err
	}

	role, err := s.repo.DiscordRole.GetByStudent(ctx, student.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscordRoleNotFound
		}
		return nil, err
	}

	role.SyncStatus = next
	switch next {
	case model.SyncSynced:
		now := time.Now()
		role.LastSyncAt = &now
		role.ErrorMessage = nil
	case model.SyncFailed:
		role.RetryCount++
		role.ErrorMessage = req.ErrorMessage
	default:
		role.ErrorMessage = nil
	}

	payload := datatypes.JSONMap{
		"name":   student.Name,
		"role":   role.RoleName,
		"status": string(next),
	}
	if role.ErrorMessage != nil {
		payload["error"] = *role.ErrorMessage
	}

	err = s.repo.Atomic(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.DiscordRole.Update(ctx, role); err != nil {
			return err
		}

		assigned := next == model.SyncSynced
		if student.DiscordRoleAssigned != assigned {
			student.DiscordRoleAssigned = assigned
			if err := txRepo.Student.Update(ctx, student); err != nil {
				return err
			}
		}

		return txRepo.AuditOutbox.Append(ctx, &model.AuditEvent{
			Kind:      model.AuditDiscordSyncResult,
			StudentID: &student.ID,
			Payload:   payload,
		})
	})
	if err != nil {
		s.logger.Error("回写 Discord 同步结果失败", zap.Int64("student_id", student.ID), zap.Error(err))
		return nil, err
	}

	resp := toDiscordRoleResponse(role)
	return &resp, nil
}

func (s *discordRoleService) List(ctx context.Context, req *dto.DiscordRoleListRequest) ([]dto.DiscordRoleResponse, int64, error) {
	if req.SyncStatus != "" && !model.SyncStatus(req.SyncStatus).Valid() {
		return nil, 0, &ValidationError{Fields: map[string]string{"sync_status": "同步状态取值无效"}}
	}

	roles, total, err := s.repo.DiscordRole.List(ctx, req.SyncStatus, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询同步台账失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.DiscordRoleResponse, 0, len(roles))
	for i := range roles {
		result = append(result, toDiscordRoleResponse(&roles[i]))
	}
	return result, total, nil
}

func toDiscordRoleResponse(role *model.DiscordRole) dto.DiscordRoleResponse {
	resp := dto.DiscordRoleResponse{
		ID:           role.ID,
		StudentID:    role.StudentID,
		RoleName:     role.RoleName,
		SyncStatus:   string(role.SyncStatus),
		RetryCount:   role.RetryCount,
		ErrorMessage: role.ErrorMessage,
	}
	if role.LastSyncAt != nil {
		ts := role.LastSyncAt.Format(time.RFC3339)
		resp.LastSyncAt = &ts
	}
	return resp
}
