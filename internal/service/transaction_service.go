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

// ErrTransactionNotFound 交易不存在
var ErrTransactionNotFound = errors.New("交易不存在")

// TransactionService 交易流水业务接口
type TransactionService interface {
	Create(ctx context.Context, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	Get(ctx context.Context, id int64) (*dto.TransactionResponse, error)
	List(ctx context.Context, req *dto.TransactionListRequest) ([]dto.TransactionResponse, int64, error)
	UpdateStatus(ctx context.Context, id int64, req *dto.UpdateTransactionRequest) (*dto.TransactionResponse, error)
	Delete(ctx context.Context, id int64) error
}

type transactionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTransactionService 创建 TransactionService 实例
func NewTransactionService(repo *repository.Repository, logger *zap.Logger) TransactionService {
	return &transactionService{repo: repo, logger: logger}
}

func (s *transactionService) Create(ctx context.Context, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	fieldErrs := make(map[string]string)

	method := model.TxMethod(req.Method)
	if !method.Valid() {
		fieldErrs["method"] = "支付方式取值无效"
	}

	status := model.TxPending
	if req.Status != nil {
		status = model.TxStatus(*req.Status)
		if !status.Valid() {
			fieldErrs["status"] = "交易状态取值无效"
		}
	}

	// 交易必须挂在存在且未删除的学员上
	if _, err := s.repo.Student.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fieldErrs["student_id"] = "学员不存在"
		} else {
			s.logger.Error("查询学员失败", zap.Int64("student_id", req.StudentID), zap.Error(err))
			return nil, err
		}
	}

	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	tx := &model.Transaction{
		StudentID: req.StudentID,
		Amount:    req.Amount,
		Currency:  currency,
		Method:    method,
		Status:    status,
	}
	if err := s.repo.Transaction.Create(ctx, tx); err != nil {
		s.logger.Error("创建交易失败", zap.Int64("student_id", req.StudentID), zap.Error(err))
		return nil, err
	}

	resp := toTransactionResponse(tx)
	return &resp, nil
}

func (s *transactionService) Get(ctx context.Context, id int64) (*dto.TransactionResponse, error) {
	tx, err := s.repo.Transaction.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	resp := toTransactionResponse(tx)
	return &resp, nil
}

func (s *transactionService) List(ctx context.Context, req *dto.TransactionListRequest) ([]dto.TransactionResponse, int64, error) {
	filters := &repository.TransactionListFilters{
		StudentID: req.StudentID,
		Status:    req.Status,
		Method:    req.Method,
	}

	txs, total, err := s.repo.Transaction.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询交易列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		result = append(result, toTransactionResponse(&txs[i]))
	}
	return result, total, nil
}

func (s *transactionService) UpdateStatus(ctx context.Context, id int64, req *dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	next := model.TxStatus(req.Status)
	if !next.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"status": "交易状态取值无效"}}
	}

	tx, err := s.repo.Transaction.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	if tx.Status != next {
		tx.Status = next
		if err := s.repo.Transaction.Update(ctx, tx); err != nil {
			s.logger.Error("更新交易状态失败", zap.Int64("id", id), zap.Error(err))
			return nil, err
		}
	}

	resp := toTransactionResponse(tx)
	return &resp, nil
}

func (s *transactionService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Transaction.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTransactionNotFound
	}
	return err
}

func toTransactionResponse(tx *model.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:        tx.ID,
		StudentID: tx.StudentID,
		Amount:    tx.Amount,
		Currency:  tx.Currency,
		Method:    string(tx.Method),
		Status:    string(tx.Status),
		CreatedAt: tx.CreatedAt.Format(time.RFC3339),
		UpdatedAt: tx.UpdatedAt.Format(time.RFC3339),
	}
}
