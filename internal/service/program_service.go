package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/model"
	"tradelab/backend/internal/repository"
)

// ProgramService 课程产品业务接口
type ProgramService interface {
	Create(ctx context.Context, req *dto.CreateProgramRequest) (*dto.ProgramResponse, error)
	Get(ctx context.Context, id int64) (*dto.ProgramResponse, error)
	List(ctx context.Context) ([]dto.ProgramResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateProgramRequest) (*dto.ProgramResponse, error)
}

type programService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProgramService 创建 ProgramService 实例
func NewProgramService(repo *repository.Repository, logger *zap.Logger) ProgramService {
	return &programService{repo: repo, logger: logger}
}

func (s *programService) Create(ctx context.Context, req *dto.CreateProgramRequest) (*dto.ProgramResponse, error) {
	program := &model.Program{
		Name:          req.Name,
		Price:         req.Price,
		DurationWeeks: req.DurationWeeks,
		IsActive:      true,
	}
	if req.IsActive != nil {
		program.IsActive = *req.IsActive
	}

	if err := s.repo.Program.Create(ctx, program); err != nil {
		s.logger.Error("创建课程失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	resp := toProgramResponse(program)
	return &resp, nil
}

func (s *programService) Get(ctx context.Context, id int64) (*dto.ProgramResponse, error) {
	program, err := s.repo.Program.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	resp := toProgramResponse(program)
	return &resp, nil
}

func (s *programService) List(ctx context.Context) ([]dto.ProgramResponse, error) {
	programs, err := s.repo.Program.List(ctx)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ProgramResponse, 0, len(programs))
	for i := range programs {
		result = append(result, toProgramResponse(&programs[i]))
	}
	return result, nil
}

func (s *programService) Update(ctx context.Context, id int64, req *dto.UpdateProgramRequest) (*dto.ProgramResponse, error) {
	program, err := s.repo.Program.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		program.Name = *req.Name
	}
	if req.Price != nil {
		program.Price = *req.Price
	}
	if req.DurationWeeks != nil {
		program.DurationWeeks = *req.DurationWeeks
	}
	if req.IsActive != nil {
		program.IsActive = *req.IsActive
	}

	if err := s.repo.Program.Update(ctx, program); err != nil {
		s.logger.Error("更新课程失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	resp := toProgramResponse(program)
	return &resp, nil
}

func toProgramResponse(program *model.Program) dto.ProgramResponse {
	return dto.ProgramResponse{
		ID:            program.ID,
		Name:          program.Name,
		Price:         program.Price,
		DurationWeeks: program.DurationWeeks,
		IsActive:      program.IsActive,
	}
}
