package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/repository"
)

// exportBatchSize 导出时分页拉取的批大小
const exportBatchSize = 500

// ExportService 学员花名册导出业务接口
type ExportService interface {
	ExportStudents(ctx context.Context, req *dto.StudentListRequest) (*excelize.File, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportStudents 按列表过滤条件导出学员花名册 Excel。
// 返回文件对象与建议文件名，由 Handler 负责流式写出
func (s *exportService) ExportStudents(ctx context.Context, req *dto.StudentListRequest) (*excelize.File, string, error) {
	filters := &repository.StudentListFilters{
		PaymentStatus:    req.PaymentStatus,
		OnboardingStatus: req.OnboardingStatus,
		ProgramID:        req.ProgramID,
		Overdue:          req.Overdue,
		DueWithinDays:    req.DueWithinDays,
		Search:           req.Search,
		SortBy:           req.SortBy,
		SortDir:          req.SortDir,
	}

	f := excelize.NewFile()
	const sheet = "学员花名册"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", err
	}

	headers := []string{"ID", "UUID", "姓名", "邮箱", "Discord", "课程", "付款状态", "入学进度", "加入日期", "到期日期"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", err
		}
	}

	row := 2
	for offset := 0; ; offset += exportBatchSize {
		students, _, err := s.repo.Student.List(ctx, filters, offset, exportBatchSize)
		if err != nil {
			s.logger.Error("导出时查询学员失败", zap.Int("offset", offset), zap.Error(err))
			return nil, "", err
		}
		if len(students) == 0 {
			break
		}

		for i := range students {
			st := &students[i]
			handle := ""
			if st.DiscordHandle != nil {
				handle = *st.DiscordHandle
			}
			programName := ""
			if st.Program != nil {
				programName = st.Program.Name
			}

			values := []interface{}{
				st.ID,
				st.UUID,
				st.Name,
				st.Email,
				handle,
				programName,
				string(st.PaymentStatus),
				string(st.OnboardingStatus),
				st.JoinedDate.Format(dateLayout),
				st.DueDate.Format(dateLayout),
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return nil, "", err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, "", err
				}
			}
			row++
		}

		if len(students) < exportBatchSize {
			break
		}
	}

	filename := fmt.Sprintf("students_%s.xlsx", time.Now().Format("20060102_150405"))
	s.logger.Info("学员花名册导出完成", zap.Int("rows", row-2), zap.String("file", filename))
	return f, filename, nil
}
