package repository

import (
	"context"

	"gorm.io/gorm"

	"tradelab/backend/internal/model"
)

// TransactionListFilters 交易列表过滤条件
type TransactionListFilters struct {
	StudentID int64
	Status    string
	Method    string
}

// MonthlyRevenue 按月营收聚合行
type MonthlyRevenue struct {
	Month   string
	Revenue float64
}

// TransactionRepository 交易数据访问接口
type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	GetByID(ctx context.Context, id int64) (*model.Transaction, error)
	List(ctx context.Context, filters *TransactionListFilters, offset, limit int) ([]model.Transaction, int64, error)
	Update(ctx context.Context, tx *model.Transaction) error
	Delete(ctx context.Context, id int64) error
	RevenueByMonth(ctx context.Context) ([]MonthlyRevenue, error)
}

// transactionRepo TransactionRepository 的 GORM 实现
type transactionRepo struct {
	db *gorm.DB
}

// NewTransactionRepo 创建 TransactionRepository 实例
func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *transactionRepo) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	var tx model.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepo) List(ctx context.Context, filters *TransactionListFilters, offset, limit int) ([]model.Transaction, int64, error) {
	var txs []model.Transaction
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Transaction{})
	if filters != nil {
		if filters.StudentID > 0 {
			db = db.Where("student_id = ?", filters.StudentID)
		}
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		if filters.Method != "" {
			db = db.Where("method = ?", filters.Method)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

func (r *transactionRepo) Update(ctx context.Context, tx *model.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *transactionRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Transaction{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *transactionRepo) RevenueByMonth(ctx context.Context) ([]MonthlyRevenue, error) {
	var rows []MonthlyRevenue
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("to_char(created_at, 'YYYY-MM') AS month, COALESCE(SUM(amount), 0) AS revenue").
		Where("status = ?", model.TxVerified).
		Group("to_char(created_at, 'YYYY-MM')").
		Order("month ASC").
		Scan(&rows).Error
	return rows, err
}
