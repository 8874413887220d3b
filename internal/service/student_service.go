package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/model"
	"tradelab/backend/internal/repository"
)

// ── 学员模块业务错误 ──

var (
	ErrStudentNotFound = errors.New("学员不存在")
	ErrStepNotFound    = errors.New("时间线步骤不存在")
	ErrProgramNotFound = errors.New("课程不存在")
)

// ValidationError 字段级校验错误，Handler 层映射为 422 + 字段错误表
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	sort.Strings(parts)
	return "参数校验失败（" + strings.Join(parts, "；") + "）"
}

const dateLayout = "2006-01-02"

// StudentService 学员生命周期业务接口
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error)
	Get(ctx context.Context, idOrUUID string) (*dto.StudentResponse, error)
	List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error)
	Update(ctx context.Context, idOrUUID string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	Delete(ctx context.Context, idOrUUID string) error
	SetOnboardingStatus(ctx context.Context, idOrUUID string, status string) (*dto.StudentResponse, error)
	UpdateTimelineStep(ctx context.Context, idOrUUID string, stepID int64, req *dto.UpdateTimelineStepRequest) (*dto.StudentResponse, error)
	BulkUpdate(ctx context.Context, req *dto.BulkUpdateRequest) (*dto.BulkUpdateResponse, error)
	Stats(ctx context.Context) (*dto.StudentStatsResponse, error)
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

// ────────────────────── 入学进度状态机 ──────────────────────

// deriveOnboardingStatus 按时间线完成度推导入学进度。
// failed 步骤既不计入完成数也不计入总数；全部步骤均为 failed 时视为未开始。
func deriveOnboardingStatus(steps []model.TimelineStep) model.OnboardingStatus {
	completed, counted := 0, 0
	for _, s := range steps {
		if s.Status == model.StepFailed {
			continue
		}
		counted++
		if s.Status == model.StepCompleted {
			completed++
		}
	}
	switch {
	case completed == 0:
		return model.OnboardingNotStarted
	case completed == counted:
		return model.OnboardingCompleted
	default:
		return model.OnboardingInProgress
	}
}

// transitionOnboarding 入学进度的唯一状态写入口。
// 直接 PATCH 与时间线联动重算都经由此处，返回状态是否实际变化。
func transitionOnboarding(student *model.Student, next model.OnboardingStatus) bool {
	if student.OnboardingStatus == next {
		return false
	}
	student.OnboardingStatus = next
	return true
}

// ────────────────────── 查询分流 ──────────────────────

// resolveStudent 路径参数既可为内部自增 ID 也可为外部 UUID，
// 分别走显式查询，两者都不匹配时返回未找到
func resolveStudent(ctx context.Context, repo *repository.Repository, idOrUUID string) (*model.Student, error) {
	if id, err := strconv.ParseInt(idOrUUID, 10, 64); err == nil {
		student, err := repo.Student.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStudentNotFound
			}
			return nil, err
		}
		return student, nil
	}

	if _, err := uuid.Parse(idOrUUID); err != nil {
		return nil, ErrStudentNotFound
	}
	student, err := repo.Student.GetByUUID(ctx, idOrUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// ────────────────────── Create ──────────────────────

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	fieldErrs := make(map[string]string)

	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		fieldErrs["due_date"] = "日期格式无效，应为 YYYY-MM-DD"
	}

	joinedDate := time.Now().Truncate(24 * time.Hour)
	if req.JoinedDate != nil {
		joinedDate, err = time.Parse(dateLayout, *req.JoinedDate)
		if err != nil {
			fieldErrs["joined_date"] = "日期格式无效，应为 YYYY-MM-DD"
		}
	}

	paymentStatus := model.PaymentPending
	if req.PaymentStatus != nil {
		paymentStatus = model.PaymentStatus(*req.PaymentStatus)
		if !paymentStatus.Valid() {
			fieldErrs["payment_status"] = "付款状态取值无效"
		}
	}

	onboardingStatus := model.OnboardingNotStarted
	if req.OnboardingStatus != nil {
		onboardingStatus = model.OnboardingStatus(*req.OnboardingStatus)
		if !onboardingStatus.Valid() {
			fieldErrs["onboarding_status"] = "入学进度取值无效"
		}
	}

	// 邮箱全局唯一
	exists, err := s.repo.Student.ExistsByEmail(ctx, req.Email, 0)
	if err != nil {
		s.logger.Error("查询邮箱占用失败", zap.Error(err))
		return nil, err
	}
	if exists {
		fieldErrs["email"] = "邮箱已被占用"
	}

	// 课程引用必须存在
	if _, err := s.repo.Program.GetByID(ctx, req.ProgramID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fieldErrs["program_id"] = "课程不存在"
		} else {
			s.logger.Error("查询课程失败", zap.Error(err))
			return nil, err
		}
	}

	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	student := &model.Student{
		UUID:             uuid.New().String(),
		Name:             req.Name,
		Email:            req.Email,
		DiscordHandle:    req.DiscordHandle,
		ProgramID:        req.ProgramID,
		PaymentStatus:    paymentStatus,
		OnboardingStatus: onboardingStatus,
		JoinedDate:       joinedDate,
		DueDate:          dueDate,
	}
	if req.DiscordRoleAssigned != nil {
		student.DiscordRoleAssigned = *req.DiscordRoleAssigned
	}

	// 学员行、时间线播种与审计事件共享一个事务；任一失败整体回滚
	err = s.repo.Atomic(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Student.Create(ctx, student); err != nil {
			return err
		}

		steps := model.DefaultTimelineSteps(student.ID)
		if err := txRepo.TimelineStep.CreateBatch(ctx, steps); err != nil {
			return err
		}
		student.TimelineSteps = steps

		return txRepo.AuditOutbox.Append(ctx, &model.AuditEvent{
			Kind:      model.AuditStudentCreated,
			StudentID: &student.ID,
			Payload: datatypes.JSONMap{
				"name":  student.Name,
				"email": student.Email,
			},
		})
	})
	if err != nil {
		s.logger.Error("创建学员失败", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	return s.toStudentResponse(student), nil
}

// ────────────────────── Get / List ──────────────────────

func (s *studentService) Get(ctx context.Context, idOrUUID string) (*dto.StudentResponse, error) {
	student, err := resolveStudent(ctx, s.repo, idOrUUID)
	if err != nil {
		return nil, err
	}
	return s.toStudentResponse(student), nil
}

func (s *studentService) List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error) {
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

	students, total, err := s.repo.Student.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询学员列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, *s.toStudentResponse(&students[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *studentService) Update(ctx context.Context, idOrUUID string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	student, err := resolveStudent(ctx, s.repo, idOrUUID)
	if err != nil {
		return nil, err
	}

	fieldErrs := make(map[string]string)
	diff := make(map[string]interface{})

	if req.Name != nil && *req.Name != student.Name {
		diff["name"] = map[string]string{"old": student.Name, "new": *req.Name}
		student.Name = *req.Name
	}

	if req.Email != nil && *req.Email != student.Email {
		exists, err := s.repo.Student.ExistsByEmail(ctx, *req.Email, student.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			fieldErrs["email"] = "邮箱已被占用"
		} else {
			diff["email"] = map[string]string{"old": student.Email, "new": *req.Email}
			student.Email = *req.Email
		}
	}

	if req.DiscordHandle != nil {
		old := ""
		if student.DiscordHandle != nil {
			old = *student.DiscordHandle
		}
		if *req.DiscordHandle != old {
			diff["discord_handle"] = map[string]string{"old": old, "new": *req.DiscordHandle}
			student.DiscordHandle = req.DiscordHandle
		}
	}

	if req.ProgramID != nil && *req.ProgramID != student.ProgramID {
		if _, err := s.repo.Program.GetByID(ctx, *req.ProgramID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fieldErrs["program_id"] = "课程不存在"
			} else {
				return nil, err
			}
		} else {
			diff["program_id"] = map[string]int64{"old": student.ProgramID, "new": *req.ProgramID}
			student.ProgramID = *req.ProgramID
			student.Program = nil
		}
	}

	// 付款状态：同值写入视为无变化，不产生专项审计事件
	var paymentOld, paymentNew model.PaymentStatus
	paymentChanged := false
	if req.PaymentStatus != nil {
		next := model.PaymentStatus(*req.PaymentStatus)
		if !next.Valid() {
			fieldErrs["payment_status"] = "付款状态取值无效"
		} else if next != student.PaymentStatus {
			paymentOld, paymentNew = student.PaymentStatus, next
			paymentChanged = true
			diff["payment_status"] = map[string]string{"old": string(paymentOld), "new": string(next)}
			student.PaymentStatus = next
		}
	}

	var onboardingOld, onboardingNew model.OnboardingStatus
	onboardingChanged := false
	if req.OnboardingStatus != nil {
		next := model.OnboardingStatus(*req.OnboardingStatus)
		if !next.Valid() {
			fieldErrs["onboarding_status"] = "入学进度取值无效"
		} else if next != student.OnboardingStatus {
			onboardingOld, onboardingNew = student.OnboardingStatus, next
			onboardingChanged = transitionOnboarding(student, next)
			diff["onboarding_status"] = map[string]string{"old": string(onboardingOld), "new": string(next)}
		}
	}

	if req.DiscordRoleAssigned != nil && *req.DiscordRoleAssigned != student.DiscordRoleAssigned {
		diff["discord_role_assigned"] = map[string]bool{"old": student.DiscordRoleAssigned, "new": *req.DiscordRoleAssigned}
		student.DiscordRoleAssigned = *req.DiscordRoleAssigned
	}

	if req.JoinedDate != nil {
		if d, err := time.Parse(dateLayout, *req.JoinedDate); err != nil {
			fieldErrs["joined_date"] = "日期格式无效，应为 YYYY-MM-DD"
		} else if !d.Equal(student.JoinedDate) {
			diff["joined_date"] = map[string]string{"old": student.JoinedDate.Format(dateLayout), "new": *req.JoinedDate}
			student.JoinedDate = d
		}
	}

	if req.DueDate != nil {
		if d, err := time.Parse(dateLayout, *req.DueDate); err != nil {
			fieldErrs["due_date"] = "日期格式无效，应为 YYYY-MM-DD"
		} else if !d.Equal(student.DueDate) {
			diff["due_date"] = map[string]string{"old": student.DueDate.Format(dateLayout), "new": *req.DueDate}
			student.DueDate = d
		}
	}

	if req.LastReminderSent != nil {
		if ts, err := time.Parse(time.RFC3339, *req.LastReminderSent); err != nil {
			fieldErrs["last_reminder_sent"] = "时间格式无效，应为 RFC3339"
		} else {
			diff["last_reminder_sent"] = map[string]string{"new": *req.LastReminderSent}
			student.LastReminderSent = &ts
		}
	}

	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	if len(diff) == 0 {
		// 无实际变化：不落库、不产生审计事件
		return s.toStudentResponse(student), nil
	}

	fields := make([]string, 0, len(diff))
	for f := range diff {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	err = s.repo.Atomic(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Student.Update(ctx, student); err != nil {
			return err
		}

		if err := txRepo.AuditOutbox.Append(ctx, &model.AuditEvent{
			Kind:      model.AuditStudentUpdated,
			StudentID: &student.ID,
			Payload: datatypes.JSONMap{
				"name":   student.Name,
				"fields": strings.Join(fields, ", "),
				"diff":   diff,
			},
		}); err != nil {
			return err
		}

		if paymentChanged {
			if err := txRepo.AuditOutbox.Append(ctx, &model.AuditEvent{
				Kind:      model.AuditPaymentUpdated,
				StudentID: &student.ID,
				Payload: datatypes.JSONMap{
					"name": student.Name,
					"old":  string(paymentOld),
					"new":  string(paymentNew),
				},
			}); err != nil {
				return err
			}
		}

		if onboardingChanged {
			if err := txRepo.AuditOutbox.Append(ctx, &model.AuditEvent{
				Kind:      model.AuditOnboardingUpdated,
				StudentID: &student.ID,
				Payload: datatypes.JSONMap{
					"name": student.Name,
					"old":  string(onboardingOld),
					"new":  string(onboardingNew),
				},
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		s.logger.Error("更新学员失败", zap.Int64("id", student.ID), zap.Error(err))
		return nil, err
	}

	return s.toStudentResponse(student), nil
}

// ────────────────────── Delete ──────────────────────

func (s *studentService) Delete(ctx context.Context, idOrUUID string) error {
	student, err := resolveStudent(ctx, s.repo, idOrUUID)
	if err != nil {
		return err
	}

	// 软删除：学员行保留并从默认查询中剔除。
	// 时间线与交易行保留可见，作为财务/审计留存。
	err = s.repo.Atomic(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Student.SoftDelete(ctx, student.ID); err != nil {
			return err
		}
		return txRepo.AuditOutbox.Append(ctx, &model.AuditEvent{
			Kind:      model.AuditStudentDeleted,
			StudentID: &student.ID,
			Payload: datatypes.JSONMap{
				"name":  student.Name,
				"email": student.Email,
			},
		})
	})
	if err != nil {
		s.logger.Error("删除学员失败", zap.Int64("id", student.ID), zap.Error(err))
	}
	return err
}

// ────────────────────── SetOnboardingStatus ──────────────────────

func (s *studentService) SetOnboardingStatus(ctx context.Context, idOrUUID string, status string) (*dto.StudentResponse, error) {
	next := model.OnboardingStatus(status)
	if !next.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"onboarding_status": "入学进度取值无效"}}
	}

	student, err := resolveStudent(ctx, s.repo, idOrUUID)
	if err != nil {
		return nil, err
	}

	old := student.OnboardingStatus
	if !transitionOnboarding(student, next) {
		return s.toStudentResponse(student), nil
	}

	err = s.repo.Atomic(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Student.Update(ctx, student); err != nil {
			return err
		}
		return txRepo.AuditOutbox.Append(ctx, &model.AuditEvent{
			Kind:      model.AuditOnboardingUpdated,
			StudentID: &student.ID,
			Payload: datatypes.JSONMap{
				"name": student.Name,
				"old":  string(old),
				"new":  string(next),
			},
		})
	})
	if err != nil {
		s.logger.Error("设置入学进度失败", zap.Int64("id", student.ID), zap.Error(err))
		return nil, err
	}

	return s.toStudentResponse(student), nil
}

// ────────────────────── UpdateTimelineStep ──────────────────────

func (s *studentService) UpdateTimelineStep(ctx context.Context, idOrUUID string, stepID int64, req *dto.UpdateTimelineStepRequest) (*dto.StudentResponse, error) {
	student, err := resolveStudent(ctx, s.repo, idOrUUID)
	if err != nil {
		return nil, err
	}

	step, err := s.repo.TimelineStep.GetByID(ctx, stepID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStepNotFound
		}
		return nil, err
	}
	// 归属校验：他人的步骤按未找到处理，不暴露存在性
	if step.StudentID != student.ID {
		return nil, ErrStepNotFound
	}

	if req.Status != nil {
		next := model.StepStatus(*req.Status)
		if !next.Valid() {
			return nil, &ValidationError{Fields: map[string]string{"status": "步骤状态取值无效"}}
		}
		step.Status = next
	}
	if req.TimestampLabel != nil {
		step.TimestampLabel = req.TimestampLabel
	}

	onboardingOld := student.OnboardingStatus

	err = s.repo.Atomic(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.TimelineStep.Update(ctx, step); err != nil {
			return err
		}

		// 步骤落库后重算入学进度，与直接 PATCH 共享同一状态写入口
		steps, err := txRepo.TimelineStep.ListByStudent(ctx, student.ID)
		if err != nil {
			return err
		}
		student.TimelineSteps = steps

		if err := txRepo.AuditOutbox.Append(ctx, &model.AuditEvent{
			Kind:      model.AuditTimelineUpdated,
			StudentID: &student.ID,
			Payload: datatypes.JSONMap{
				"name":   student.Name,
				"label":  step.Label,
				"status": string(step.Status),
			},
		}); err != nil {
			return err
		}

		derived := deriveOnboardingStatus(steps)
		if transitionOnboarding(student, derived) {
			if err := txRepo.Student.Update(ctx, student); err != nil {
				return err
			}
			return txRepo.AuditOutbox.Append(ctx, &model.AuditEvent{
				Kind:      model.AuditOnboardingUpdated,
				StudentID: &student.ID,
				Payload: datatypes.JSONMap{
					"name": student.Name,
					"old":  string(onboardingOld),
					"new":  string(derived),
				},
			})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("更新时间线步骤失败",
			zap.Int64("student_id", student.ID),
			zap.Int64("step_id", stepID),
			zap.Error(err),
		)
		return nil, err
	}

	return s.toStudentResponse(student), nil
}

// ────────────────────── BulkUpdate ──────────────────────

func (s *studentService) BulkUpdate(ctx context.Context, req *dto.BulkUpdateRequest) (*dto.BulkUpdateResponse, error) {
	updates := make(map[string]interface{})

	if req.PaymentStatus != nil {
		status := model.PaymentStatus(*req.PaymentStatus)
		if !status.Valid() {
			return nil, &ValidationError{Fields: map[string]string{"payment_status": "付款状态取值无效"}}
		}
		updates["payment_status"] = string(status)
	}
	if req.OnboardingStatus != nil {
		status := model.OnboardingStatus(*req.OnboardingStatus)
		if !status.Valid() {
			return nil, &ValidationError{Fields: map[string]string{"onboarding_status": "入学进度取值无效"}}
		}
		updates["onboarding_status"] = string(status)
	}

	if len(updates) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"payload": "未提供任何更新数据"}}
	}

	// 单条批量 UPDATE；不存在的 ID 静默跳过，不产生逐行审计
	affected, err := s.repo.Student.BulkUpdate(ctx, req.IDs, updates)
	if err != nil {
		s.logger.Error("批量更新学员失败", zap.Int("ids", len(req.IDs)), zap.Error(err))
		return nil, err
	}

	return &dto.BulkUpdateResponse{Affected: affected}, nil
}

// ────────────────────── Stats ──────────────────────

func (s *studentService) Stats(ctx context.Context) (*dto.StudentStatsResponse, error) {
	total, err := s.repo.Student.CountTotal(ctx)
	if err != nil {
		return nil, err
	}
	byPayment, err := s.repo.Student.CountByPaymentStatus(ctx)
	if err != nil {
		return nil, err
	}
	byOnboarding, err := s.repo.Student.CountByOnboardingStatus(ctx)
	if err != nil {
		return nil, err
	}
	overdue, err := s.repo.Student.CountOverdue(ctx)
	if err != nil {
		return nil, err
	}

	paidPct := 0
	if total > 0 {
		paidPct = int(math.Round(float64(byPayment[string(model.PaymentPaid)]) / float64(total) * 100))
	}

	return &dto.StudentStatsResponse{
		Total:              total,
		ByPaymentStatus:    byPayment,
		ByOnboardingStatus: byOnboarding,
		PaidPercentage:     paidPct,
		Overdue:            overdue,
	}, nil
}

// ── 内部辅助方法 ──

func (s *studentService) toStudentResponse(student *model.Student) *dto.StudentResponse {
	resp := &dto.StudentResponse{
		ID:                  student.ID,
		UUID:                student.UUID,
		Name:                student.Name,
		Email:               student.Email,
		DiscordHandle:       student.DiscordHandle,
		ProgramID:           student.ProgramID,
		PaymentStatus:       string(student.PaymentStatus),
		OnboardingStatus:    string(student.OnboardingStatus),
		DiscordRoleAssigned: student.DiscordRoleAssigned,
		JoinedDate:          student.JoinedDate.Format(dateLayout),
		DueDate:             student.DueDate.Format(dateLayout),
		CreatedAt:           student.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           student.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if student.LastReminderSent != nil {
		ts := student.LastReminderSent.Format(time.RFC3339)
		resp.LastReminderSent = &ts
	}

	if student.Program != nil {
		resp.Program = &dto.ProgramResponse{
			ID:            student.Program.ID,
			Name:          student.Program.Name,
			Price:         student.Program.Price,
			DurationWeeks: student.Program.DurationWeeks,
			IsActive:      student.Program.IsActive,
		}
	}

	for i := range student.TimelineSteps {
		step := &student.TimelineSteps[i]
		resp.TimelineSteps = append(resp.TimelineSteps, dto.TimelineStepResponse{
			ID:             step.ID,
			Label:          step.Label,
			Status:         string(step.Status),
			TimestampLabel: step.TimestampLabel,
			SortOrder:      step.SortOrder,
		})
	}

	for i := range student.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(&student.Transactions[i]))
	}

	if student.DiscordRole != nil {
		r := toDiscordRoleResponse(student.DiscordRole)
		resp.DiscordRole = &r
	}

	return resp
}
