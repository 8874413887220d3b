package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tradelab/backend/internal/model"
)

// StudentListFilters 学员列表过滤条件
type StudentListFilters struct {
	PaymentStatus    string
	OnboardingStatus string
	ProgramID        int64
	Overdue          bool // due_date 已过且未付清
	DueWithinDays    int  // due_date 在 N 天内
	Search           string
	SortBy           string
	SortDir          string
}

// ProgramCount 按课程的报名人数
type ProgramCount struct {
	ProgramID   int64
	ProgramName string
	Count       int64
}

// 列表排序列白名单，防止任意列名注入
var studentSortColumns = map[string]string{
	"name":           "name",
	"email":          "email",
	"joined_date":    "joined_date",
	"due_date":       "due_date",
	"payment_status": "payment_status",
	"created_at":     "created_at",
}

// StudentRepository 学员数据访问接口
// 内部 ID 与外部 UUID 分别提供显式查询，调用方自行分流
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id int64) (*model.Student, error)
	GetByUUID(ctx context.Context, uuid string) (*model.Student, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	List(ctx context.Context, filters *StudentListFilters, offset, limit int) ([]model.Student, int64, error)
	Update(ctx context.Context, student *model.Student) error
	SoftDelete(ctx context.Context, id int64) error
	BulkUpdate(ctx context.Context, ids []int64, updates map[string]interface{}) (int64, error)
	CountTotal(ctx context.Context) (int64, error)
	CountByPaymentStatus(ctx context.Context) (map[string]int64, error)
	CountByOnboardingStatus(ctx context.Context) (map[string]int64, error)
	CountOverdue(ctx context.Context) (int64, error)
	CountByProgram(ctx context.Context) ([]ProgramCount, error)
}

// studentRepo StudentRepository 的 GORM 实现
type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Program").
		Preload("TimelineSteps", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Transactions").
		Preload("DiscordRole").
		Where("id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByUUID(ctx context.Context, uuid string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Program").
		Preload("TimelineSteps", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Transactions").
		Preload("DiscordRole").
		Where("uuid = ?", uuid).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Student{}).Where("email = ?", email)
	if excludeID > 0 {
		db = db.Where("id <> ?", excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *studentRepo) List(ctx context.Context, filters *StudentListFilters, offset, limit int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Student{})
	db = applyStudentFilters(db, filters)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if filters != nil && filters.SortBy != "" {
		if col, ok := studentSortColumns[filters.SortBy]; ok {
			dir := "ASC"
			if filters.SortDir == "desc" {
				dir = "DESC"
			}
			order = col + " " + dir
		}
	}

	if err := db.Preload("Program").
		Offset(offset).Limit(limit).
		Order(order).
		Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func applyStudentFilters(db *gorm.DB, filters *StudentListFilters) *gorm.DB {
	if filters == nil {
		return db
	}
	if filters.PaymentStatus != "" {
		db = db.Where("payment_status = ?", filters.PaymentStatus)
	}
	if filters.OnboardingStatus != "" {
		db = db.Where("onboarding_status = ?", filters.OnboardingStatus)
	}
	if filters.ProgramID > 0 {
		db = db.Where("program_id = ?", filters.ProgramID)
	}
	if filters.Overdue {
		db = db.Where("due_date < CURRENT_DATE AND payment_status <> ?", model.PaymentPaid)
	}
	if filters.DueWithinDays > 0 {
		db = db.Where("due_date >= CURRENT_DATE AND due_date <= ?",
			time.Now().AddDate(0, 0, filters.DueWithinDays))
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		db = db.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}
	return db
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepo) SoftDelete(ctx context.Context, id int64) error {
	// gorm.DeletedAt 字段使 Delete 自动转为软删除
	res := r.db.WithContext(ctx).Delete(&model.Student{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepo) BulkUpdate(ctx context.Context, ids []int64, updates map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("id IN ?", ids).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *studentRepo) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Student{}).Count(&count).Error
	return count, err
}

type statusCount struct {
	Status string
	Count  int64
}

func (r *studentRepo) CountByPaymentStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Select("payment_status AS status, COUNT(*) AS count").
		Group("payment_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

func (r *studentRepo) CountByOnboardingStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Select("onboarding_status AS status, COUNT(*) AS count").
		Group("onboarding_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

func (r *studentRepo) CountOverdue(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Where("due_date < CURRENT_DATE AND payment_status <> ?", model.PaymentPaid).
		Count(&count).Error
	return count, err
}

func (r *studentRepo) CountByProgram(ctx context.Context) ([]ProgramCount, error) {
	var rows []ProgramCount
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Select("students.program_id AS program_id, programs.name AS program_name, COUNT(*) AS count").
		Joins("JOIN programs ON programs.id = students.program_id").
		Group("students.program_id, programs.name").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}
