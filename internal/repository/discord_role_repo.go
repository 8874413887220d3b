package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradelab/backend/internal/model"
)

// DiscordRoleRepository Discord 角色同步台账数据访问接口
type DiscordRoleRepository interface {
	GetByStudent(ctx context.Context, studentID int64) (*model.DiscordRole, error)
	Upsert(ctx context.Context, role *model.DiscordRole) error
	Update(ctx context.Context, role *model.DiscordRole) error
	List(ctx context.Context, syncStatus string, offset, limit int) ([]model.DiscordRole, int64, error)
	CountBySyncStatus(ctx context.Context, status model.SyncStatus) (int64, error)
}

// discordRoleRepo DiscordRoleRepository 的 GORM 实现
type discordRoleRepo struct {
	db *gorm.DB
}

// NewDiscordRoleRepo 创建 DiscordRoleRepository 实例
func NewDiscordRoleRepo(db *gorm.DB) DiscordRoleRepository {
	return &discordRoleRepo{db: db}
}

func (r *discordRoleRepo) GetByStudent(ctx context.Context, studentID int64) (*model.DiscordRole, error) {
	var role model.DiscordRole
	err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *discordRoleRepo) Upsert(ctx context.Context, role *model.DiscordRole) error {
	// 以 student_id 为冲突键：存在则更新目标角色并重置同步状态
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"role_name":   role.RoleName,
			"sync_status": string(model.SyncPending),
			"updated_at":  gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(role).Error
}

func (r *discordRoleRepo) Update(ctx context.Context, role *model.DiscordRole) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *discordRoleRepo) List(ctx context.Context, syncStatus string, offset, limit int) ([]model.DiscordRole, int64, error) {
	var roles []model.DiscordRole
	var total int64

	db := r.db.WithContext(ctx).Model(&model.DiscordRole{})
	if syncStatus != "" {
		db = db.Where("sync_status = ?", syncStatus)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("updated_at DESC").
		Find(&roles).Error; err != nil {
		return nil, 0, err
	}

	return roles, total, nil
}

func (r *discordRoleRepo) CountBySyncStatus(ctx context.Context, status model.SyncStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DiscordRole{}).
		Where("sync_status = ?", status).
		Count(&count).Error
	return count, err
}
