package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"tradelab/backend/internal/model"
	"tradelab/backend/internal/repository"
)

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[int64]*model.Student
	nextID   int64
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[int64]*model.Student), nextID: 1}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.ID == 0 {
		student.ID = m.nextID
		m.nextID++
	}
	student.CreatedAt = time.Now()
	student.UpdatedAt = time.Now()
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id int64) (*model.Student, error) {
	if s, ok := m.students[id]; ok && !s.DeletedAt.Valid {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByUUID(_ context.Context, uuid string) (*model.Student, error) {
	for _, s := range m.students {
		if s.UUID == uuid && !s.DeletedAt.Valid {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, s := range m.students {
		if s.Email == email && s.ID != excludeID && !s.DeletedAt.Valid {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) List(_ context.Context, filters *repository.StudentListFilters, offset, limit int) ([]model.Student, int64, error) {
	var matched []model.Student
	for _, s := range m.students {
		if s.DeletedAt.Valid {
			continue
		}
		if filters != nil {
			if filters.PaymentStatus != "" && string(s.PaymentStatus) != filters.PaymentStatus {
				continue
			}
			if filters.OnboardingStatus != "" && string(s.OnboardingStatus) != filters.OnboardingStatus {
				continue
			}
			if filters.ProgramID > 0 && s.ProgramID != filters.ProgramID {
				continue
			}
			if filters.Overdue && (s.PaymentStatus == model.PaymentPaid || !s.DueDate.Before(time.Now())) {
				continue
			}
			if filters.Search != "" &&
				!strings.Contains(strings.ToLower(s.Name), strings.ToLower(filters.Search)) &&
				!strings.Contains(strings.ToLower(s.Email), strings.ToLower(filters.Search)) {
				continue
			}
		}
		matched = append(matched, *s)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	student.UpdatedAt = time.Now()
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) SoftDelete(_ context.Context, id int64) error {
	s, ok := m.students[id]
	if !ok || s.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	s.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (m *mockStudentRepo) BulkUpdate(_ context.Context, ids []int64, updates map[string]interface{}) (int64, error) {
	var affected int64
	for _, id := range ids {
		s, ok := m.students[id]
		if !ok || s.DeletedAt.Valid {
			continue
		}
		if v, ok := updates["payment_status"]; ok {
			s.PaymentStatus = model.PaymentStatus(v.(string))
		}
		if v, ok := updates["onboarding_status"]; ok {
			s.OnboardingStatus = model.OnboardingStatus(v.(string))
		}
		affected++
	}
	return affected, nil
}

func (m *mockStudentRepo) CountTotal(_ context.Context) (int64, error) {
	var count int64
	for _, s := range m.students {
		if !s.DeletedAt.Valid {
			count++
		}
	}
	return count, nil
}

func (m *mockStudentRepo) CountByPaymentStatus(_ context.Context) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, s := range m.students {
		if !s.DeletedAt.Valid {
			result[string(s.PaymentStatus)]++
		}
	}
	return result, nil
}

func (m *mockStudentRepo) CountByOnboardingStatus(_ context.Context) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, s := range m.students {
		if !s.DeletedAt.Valid {
			result[string(s.OnboardingStatus)]++
		}
	}
	return result, nil
}

func (m *mockStudentRepo) CountOverdue(_ context.Context) (int64, error) {
	var count int64
	for _, s := range m.students {
		if !s.DeletedAt.Valid && s.PaymentStatus != model.PaymentPaid && s.DueDate.Before(time.Now()) {
			count++
		}
	}
	return count, nil
}

func (m *mockStudentRepo) CountByProgram(_ context.Context) ([]repository.ProgramCount, error) {
	counts := make(map[int64]int64)
	for _, s := range m.students {
		if !s.DeletedAt.Valid {
			counts[s.ProgramID]++
		}
	}
	var result []repository.ProgramCount
	for id, n := range counts {
		result = append(result, repository.ProgramCount{ProgramID: id, Count: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProgramID < result[j].ProgramID })
	return result, nil
}

// ── Mock TimelineStepRepository ──

type mockTimelineStepRepo struct {
	steps  map[int64]*model.TimelineStep
	nextID int64
}

func newMockTimelineStepRepo() *mockTimelineStepRepo {
	return &mockTimelineStepRepo{steps: make(map[int64]*model.TimelineStep), nextID: 1}
}

func (m *mockTimelineStepRepo) CreateBatch(_ context.Context, steps []model.TimelineStep) error {
	for i := range steps {
		if steps[i].ID == 0 {
			steps[i].ID = m.nextID
			m.nextID++
		}
		cp := steps[i]
		m.steps[cp.ID] = &cp
	}
	return nil
}

func (m *mockTimelineStepRepo) GetByID(_ context.Context, id int64) (*model.TimelineStep, error) {
	if s, ok := m.steps[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimelineStepRepo) ListByStudent(_ context.Context, studentID int64) ([]model.TimelineStep, error) {
	var result []model.TimelineStep
	for _, s := range m.steps {
		if s.StudentID == studentID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

func (m *mockTimelineStepRepo) Update(_ context.Context, step *model.TimelineStep) error {
	if _, ok := m.steps[step.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.steps[step.ID] = step
	return nil
}

// ── Mock TransactionRepository ──

type mockTransactionRepo struct {
	txs    map[int64]*model.Transaction
	nextID int64
}

func newMockTransactionRepo() *mockTransactionRepo {
	return &mockTransactionRepo{txs: make(map[int64]*model.Transaction), nextID: 1}
}

func (m *mockTransactionRepo) Create(_ context.Context, tx *model.Transaction) error {
	if tx.ID == 0 {
		tx.ID = m.nextID
		m.nextID++
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	tx.UpdatedAt = time.Now()
	m.txs[tx.ID] = tx
	return nil
}

func (m *mockTransactionRepo) GetByID(_ context.Context, id int64) (*model.Transaction, error) {
	if tx, ok := m.txs[id]; ok {
		return tx, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTransactionRepo) List(_ context.Context, filters *repository.TransactionListFilters, offset, limit int) ([]model.Transaction, int64, error) {
	var matched []model.Transaction
	for _, tx := range m.txs {
		if filters != nil {
			if filters.StudentID > 0 && tx.StudentID != filters.StudentID {
				continue
			}
			if filters.Status != "" && string(tx.Status) != filters.Status {
				continue
			}
			if filters.Method != "" && string(tx.Method) != filters.Method {
				continue
			}
		}
		matched = append(matched, *tx)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockTransactionRepo) Update(_ context.Context, tx *model.Transaction) error {
	if _, ok := m.txs[tx.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.txs[tx.ID] = tx
	return nil
}

func (m *mockTransactionRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.txs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.txs, id)
	return nil
}

func (m *mockTransactionRepo) RevenueByMonth(_ context.Context) ([]repository.MonthlyRevenue, error) {
	byMonth := make(map[string]float64)
	for _, tx := range m.txs {
		if tx.Status == model.TxVerified {
			byMonth[tx.CreatedAt.Format("2006-01")] += tx.Amount
		}
	}
	var result []repository.MonthlyRevenue
	for month, revenue := range byMonth {
		result = append(result, repository.MonthlyRevenue{Month: month, Revenue: revenue})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}

// ── Mock DiscordRoleRepository ──

type mockDiscordRoleRepo struct {
	roles  map[int64]*model.DiscordRole // key: student_id
	nextID int64
}

func newMockDiscordRoleRepo() *mockDiscordRoleRepo {
	return &mockDiscordRoleRepo{roles: make(map[int64]*model.DiscordRole), nextID: 1}
}

func (m *mockDiscordRoleRepo) GetByStudent(_ context.Context, studentID int64) (*model.DiscordRole, error) {
	if r, ok := m.roles[studentID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDiscordRoleRepo) Upsert(_ context.Context, role *model.DiscordRole) error {
	if existing, ok := m.roles[role.StudentID]; ok {
		existing.RoleName = role.RoleName
		existing.SyncStatus = model.SyncPending
		existing.UpdatedAt = time.Now()
		return nil
	}
	if role.ID == 0 {
		role.ID = m.nextID
		m.nextID++
	}
	role.CreatedAt = time.Now()
	role.UpdatedAt = time.Now()
	m.roles[role.StudentID] = role
	return nil
}

func (m *mockDiscordRoleRepo) Update(_ context.Context, role *model.DiscordRole) error {
	if _, ok := m.roles[role.StudentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	role.UpdatedAt = time.Now()
	m.roles[role.StudentID] = role
	return nil
}

func (m *mockDiscordRoleRepo) List(_ context.Context, syncStatus string, offset, limit int) ([]model.DiscordRole, int64, error) {
	var matched []model.DiscordRole
	for _, r := range m.roles {
		if syncStatus != "" && string(r.SyncStatus) != syncStatus {
			continue
		}
		matched = append(matched, *r)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockDiscordRoleRepo) CountBySyncStatus(_ context.Context, status model.SyncStatus) (int64, error) {
	var count int64
	for _, r := range m.roles {
		if r.SyncStatus == status {
			count++
		}
	}
	return count, nil
}

// ── Mock SystemLogRepository ──

type mockSystemLogRepo struct {
	logs   []*model.SystemLog
	nextID int64
}

func newMockSystemLogRepo() *mockSystemLogRepo {
	return &mockSystemLogRepo{nextID: 1}
}

func (m *mockSystemLogRepo) Create(_ context.Context, log *model.SystemLog) error {
	if log.ID == 0 {
		log.ID = m.nextID
		m.nextID++
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockSystemLogRepo) List(_ context.Context, filters *repository.SystemLogListFilters, offset, limit int) ([]model.SystemLog, int64, error) {
	var matched []model.SystemLog
	for _, log := range m.logs {
		if filters != nil {
			if filters.Level != "" && string(log.Level) != filters.Level {
				continue
			}
			if filters.Module != "" && log.Module != filters.Module {
				continue
			}
			if filters.Search != "" && !strings.Contains(log.Message, filters.Search) {
				continue
			}
			if filters.From != nil && log.CreatedAt.Before(*filters.From) {
				continue
			}
			if filters.To != nil && log.CreatedAt.After(*filters.To) {
				continue
			}
		}
		matched = append(matched, *log)
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockSystemLogRepo) ListRecent(_ context.Context, limit int) ([]model.SystemLog, error) {
	var result []model.SystemLog
	for i := len(m.logs) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, *m.logs[i])
	}
	return result, nil
}

func (m *mockSystemLogRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []*model.SystemLog
	var deleted int64
	for _, log := range m.logs {
		if log.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, log)
	}
	m.logs = kept
	return deleted, nil
}

func (m *mockSystemLogRepo) Truncate(_ context.Context) error {
	m.logs = nil
	return nil
}

// ── Mock AuditOutboxRepository ──

type mockAuditOutboxRepo struct {
	events []*model.AuditEvent
	nextID int64
}

func newMockAuditOutboxRepo() *mockAuditOutboxRepo {
	return &mockAuditOutboxRepo{nextID: 1}
}

func (m *mockAuditOutboxRepo) Append(_ context.Context, event *model.AuditEvent) error {
	if event.ID == 0 {
		event.ID = m.nextID
		m.nextID++
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockAuditOutboxRepo) ListUndispatched(_ context.Context, limit int) ([]model.AuditEvent, error) {
	var result []model.AuditEvent
	for _, e := range m.events {
		if e.DispatchedAt == nil {
			result = append(result, *e)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (m *mockAuditOutboxRepo) MarkDispatched(_ context.Context, ids []int64) error {
	now := time.Now()
	for _, e := range m.events {
		for _, id := range ids {
			if e.ID == id {
				e.DispatchedAt = &now
			}
		}
	}
	return nil
}

func (m *mockAuditOutboxRepo) CountUndispatched(_ context.Context) (int64, error) {
	var count int64
	for _, e := range m.events {
		if e.DispatchedAt == nil {
			count++
		}
	}
	return count, nil
}

// eventsOfKind 按类型取未派发事件，测试断言用
func (m *mockAuditOutboxRepo) eventsOfKind(kind string) []*model.AuditEvent {
	var result []*model.AuditEvent
	for _, e := range m.events {
		if e.Kind == kind {
			result = append(result, e)
		}
	}
	return result
}

// ── Mock AdminUserRepository ──

type mockAdminUserRepo struct {
	users map[string]*model.AdminUser
}

func newMockAdminUserRepo() *mockAdminUserRepo {
	return &mockAdminUserRepo{users: make(map[string]*model.AdminUser)}
}

func (m *mockAdminUserRepo) Create(_ context.Context, user *model.AdminUser) error {
	if user.ID == "" {
		user.ID = "admin-" + user.Email
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockAdminUserRepo) GetByID(_ context.Context, id string) (*model.AdminUser, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminUserRepo) GetByEmail(_ context.Context, email string) (*model.AdminUser, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	items  map[int64]*model.Notification
	nextID int64
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{items: make(map[int64]*model.Notification), nextID: 1}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.ID == 0 {
		n.ID = m.nextID
		m.nextID++
	}
	n.CreatedAt = time.Now()
	m.items[n.ID] = n
	return nil
}

func (m *mockNotificationRepo) List(_ context.Context, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var matched []model.Notification
	for _, n := range m.items {
		if unreadOnly && n.IsRead {
			continue
		}
		matched = append(matched, *n)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id int64) error {
	n, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	return nil
}

func (m *mockNotificationRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

// ── Mock SettingRepository ──

type mockSettingRepo struct {
	settings map[string]*model.Setting
}

func newMockSettingRepo() *mockSettingRepo {
	return &mockSettingRepo{settings: make(map[string]*model.Setting)}
}

func (m *mockSettingRepo) Get(_ context.Context, key string) (*model.Setting, error) {
	if s, ok := m.settings[key]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSettingRepo) List(_ context.Context) ([]model.Setting, error) {
	var result []model.Setting
	for _, s := range m.settings {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

func (m *mockSettingRepo) Upsert(_ context.Context, setting *model.Setting) error {
	setting.UpdatedAt = time.Now()
	m.settings[setting.Key] = setting
	return nil
}

// ── Mock ProgramRepository ──

type mockProgramRepo struct {
	programs map[int64]*model.Program
	nextID   int64
}

func newMockProgramRepo() *mockProgramRepo {
	return &mockProgramRepo{programs: make(map[int64]*model.Program), nextID: 1}
}

func (m *mockProgramRepo) Create(_ context.Context, program *model.Program) error {
	if program.ID == 0 {
		program.ID = m.nextID
		m.nextID++
	}
	m.programs[program.ID] = program
	return nil
}

func (m *mockProgramRepo) GetByID(_ context.Context, id int64) (*model.Program, error) {
	if p, ok := m.programs[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) List(_ context.Context) ([]model.Program, error) {
	var result []model.Program
	for _, p := range m.programs {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockProgramRepo) Update(_ context.Context, program *model.Program) error {
	if _, ok := m.programs[program.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.programs[program.ID] = program
	return nil
}

// ── Mock MetricsRepository ──

type mockMetricsRepo struct {
	responseMetrics []model.ResponseMetric
	messageVolumes  []model.MessageVolume
	inquiryThemes   []model.InquiryTheme
	insights        []model.Insight
}

func newMockMetricsRepo() *mockMetricsRepo {
	return &mockMetricsRepo{}
}

func (m *mockMetricsRepo) ListResponseMetrics(_ context.Context, limit int) ([]model.ResponseMetric, error) {
	if len(m.responseMetrics) > limit {
		return m.responseMetrics[:limit], nil
	}
	return m.responseMetrics, nil
}

func (m *mockMetricsRepo) SeedResponseMetrics(_ context.Context, rows []model.ResponseMetric) error {
	m.responseMetrics = append(m.responseMetrics, rows...)
	return nil
}

func (m *mockMetricsRepo) ListMessageVolumes(_ context.Context, limit int) ([]model.MessageVolume, error) {
	if len(m.messageVolumes) > limit {
		return m.messageVolumes[:limit], nil
	}
	return m.messageVolumes, nil
}

func (m *mockMetricsRepo) SeedMessageVolumes(_ context.Context, rows []model.MessageVolume) error {
	m.messageVolumes = append(m.messageVolumes, rows...)
	return nil
}

func (m *mockMetricsRepo) ListInquiryThemes(_ context.Context, limit int) ([]model.InquiryTheme, error) {
	if len(m.inquiryThemes) > limit {
		return m.inquiryThemes[:limit], nil
	}
	return m.inquiryThemes, nil
}

func (m *mockMetricsRepo) SeedInquiryThemes(_ context.Context, rows []model.InquiryTheme) error {
	m.inquiryThemes = append(m.inquiryThemes, rows...)
	return nil
}

func (m *mockMetricsRepo) ListInsights(_ context.Context, limit int) ([]model.Insight, error) {
	if len(m.insights) > limit {
		return m.insights[:limit], nil
	}
	return m.insights, nil
}

func (m *mockMetricsRepo) SeedInsights(_ context.Context, rows []model.Insight) error {
	m.insights = append(m.insights, rows...)
	return nil
}

// ── 聚合构造 ──

// newMockRepository 组装全量内存替身，单测共用
func newMockRepository() *repository.Repository {
	return &repository.Repository{
		Student:      newMockStudentRepo(),
		TimelineStep: newMockTimelineStepRepo(),
		Transaction:  newMockTransactionRepo(),
		DiscordRole:  newMockDiscordRoleRepo(),
		SystemLog:    newMockSystemLogRepo(),
		AuditOutbox:  newMockAuditOutboxRepo(),
		AdminUser:    newMockAdminUserRepo(),
		Notification: newMockNotificationRepo(),
		Setting:      newMockSettingRepo(),
		Program:      newMockProgramRepo(),
		Metrics:      newMockMetricsRepo(),
	}
}
