package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"tradelab/backend/internal/dto"
	"tradelab/backend/internal/service"
	"tradelab/backend/pkg/jwt"
	"tradelab/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult *dto.TokenResponse
	loginErr    error
	logoutErr   error
	meResult    *dto.AdminUserResponse
	meErr       error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwt.Claims) error {
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.AdminUserResponse, error) {
	return m.meResult, m.meErr
}

// ── Mock StudentService ──

type mockStudentService struct {
	createResult *dto.StudentResponse
	createErr    error
	getResult    *dto.StudentResponse
	getErr       error
	listResult   []dto.StudentResponse
	listTotal    int64
	listErr      error
	updateResult *dto.StudentResponse
	updateErr    error
	deleteErr    error
	statusResult *dto.StudentResponse
	statusErr    error
	stepResult   *dto.StudentResponse
	stepErr      error
	bulkResult   *dto.BulkUpdateResponse
	bulkErr      error
	statsResult  *dto.StudentStatsResponse
	statsErr     error
}

func (m *mockStudentService) Create(_ context.Context, _ *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockStudentService) Get(_ context.Context, _ string) (*dto.StudentResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockStudentService) List(_ context.Context, _ *dto.StudentListRequest) ([]dto.StudentResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockStudentService) Update(_ context.Context, _ string, _ *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockStudentService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockStudentService) SetOnboardingStatus(_ context.Context, _ string, _ string) (*dto.StudentResponse, error) {
	return m.statusResult, m.statusErr
}
func (m *mockStudentService) UpdateTimelineStep(_ context.Context, _ string, _ int64, _ *dto.UpdateTimelineStepRequest) (*dto.StudentResponse, error) {
	return m.stepResult, m.stepErr
}
func (m *mockStudentService) BulkUpdate(_ context.Context, _ *dto.BulkUpdateRequest) (*dto.BulkUpdateResponse, error) {
	return m.bulkResult, m.bulkErr
}
func (m *mockStudentService) Stats(_ context.Context) (*dto.StudentStatsResponse, error) {
	return m.statsResult, m.statsErr
}

// ── Mock TransactionService ──

type mockTransactionService struct {
	createResult *dto.TransactionResponse
	createErr    error
	getResult    *dto.TransactionResponse
	getErr       error
	listResult   []dto.TransactionResponse
	listTotal    int64
	listErr      error
	updateResult *dto.TransactionResponse
	updateErr    error
	deleteErr    error
}

func (m *mockTransactionService) Create(_ context.Context, _ *dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockTransactionService) Get(_ context.Context, _ int64) (*dto.TransactionResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockTransactionService) List(_ context.Context, _ *dto.TransactionListRequest) ([]dto.TransactionResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockTransactionService) UpdateStatus(_ context.Context, _ int64, _ *dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockTransactionService) Delete(_ context.Context, _ int64) error {
	return m.deleteErr
}

// ── Mock DiscordRoleService ──

type mockDiscordRoleService struct {
	upsertResult *dto.DiscordRoleResponse
	upsertErr    error
	getResult    *dto.DiscordRoleResponse
	getErr       error
	recordResult *dto.DiscordRoleResponse
	recordErr    error
	listResult   []dto.DiscordRoleResponse
	listTotal    int64
	listErr      error
}

func (m *mockDiscordRoleService) Upsert(_ context.Context, _ string, _ *dto.UpsertDiscordRoleRequest) (*dto.DiscordRoleResponse, error) {
	return m.upsertResult, m.upsertErr
}
func (m *mockDiscordRoleService) GetByStudent(_ context.Context, _ string) (*dto.DiscordRoleResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockDiscordRoleService) RecordSyncResult(_ context.Context, _ string, _ *dto.RecordSyncResultRequest) (*dto.DiscordRoleResponse, error) {
	return m.recordResult, m.recordErr
}
func (m *mockDiscordRoleService) List(_ context.Context, _ *dto.DiscordRoleListRequest) ([]dto.DiscordRoleResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}

// ── Mock SystemLogService ──

type mockSystemLogService struct {
	listResult  []dto.SystemLogResponse
	listTotal   int64
	listErr     error
	purgeResult *dto.PurgeLogsResponse
	purgeErr    error
	truncateErr error
}

func (m *mockSystemLogService) List(_ context.Context, _ *dto.SystemLogListRequest) ([]dto.SystemLogResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockSystemLogService) Purge(_ context.Context) (*dto.PurgeLogsResponse, error) {
	return m.purgeResult, m.purgeErr
}
func (m *mockSystemLogService) Truncate(_ context.Context) error {
	return m.truncateErr
}

// ── Mock ExportService ──

type mockExportService struct {
	file     *excelize.File
	filename string
	err      error
}

func (m *mockExportService) ExportStudents(_ context.Context, _ *dto.StudentListRequest) (*excelize.File, string, error) {
	return m.file, m.filename, m.err
}

// ── Mock ReportService ──

type mockReportService struct {
	reportsResult *dto.ReportsResponse
	reportsErr    error
	summaryResult *dto.DashboardSummaryResponse
	summaryErr    error
}

func (m *mockReportService) Reports(_ context.Context) (*dto.ReportsResponse, error) {
	return m.reportsResult, m.reportsErr
}
func (m *mockReportService) DashboardSummary(_ context.Context) (*dto.DashboardSummaryResponse, error) {
	return m.summaryResult, m.summaryErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken: "test-access-token",
			ExpiresIn:   3600,
			User:        dto.AdminUserResponse{ID: "admin-1", Role: "admin"},
		},
	}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "secret123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if !resp.Success {
		t.Error("expected success=true")
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrongpass",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Success {
		t.Error("expected success=false")
	}
}

func TestAuthHandler_Logout_MissingClaims(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Me_Success(t *testing.T) {
	mock := &mockAuthService{
		meResult: &dto.AdminUserResponse{ID: "admin-1", Name: "管理员", Role: "admin"},
	}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", func(c *gin.Context) {
		c.Set("admin_id", "admin-1")
		c.Set("role", "admin")
		h.Me(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.Me)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// StudentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestStudentHandler_GetStudent_Success(t *testing.T) {
	mock := &mockStudentService{
		getResult: &dto.StudentResponse{ID: 1, Name: "张三", Email: "zhangsan@example.com"},
	}
	h := NewStudentHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/students/1", nil)

	r := gin.New()
	r.GET("/students/:id", h.GetStudent)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if !resp.Success {
		t.Error("expected success=true")
	}
}

func TestStudentHandler_GetStudent_NotFound(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{getErr: service.ErrStudentNotFound})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/students/999", nil)

	r := gin.New()
	r.GET("/students/:id", h.GetStudent)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestStudentHandler_CreateStudent_Created(t *testing.T) {
	mock := &mockStudentService{
		createResult: &dto.StudentResponse{ID: 1, Name: "张三"},
	}
	h := NewStudentHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/students", jsonBody(dto.CreateStudentRequest{
		Name:      "张三",
		Email:     "zhangsan@example.com",
		ProgramID: 1,
		DueDate:   "2026-09-30",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/students", h.CreateStudent)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestStudentHandler_CreateStudent_ValidationError(t *testing.T) {
	mock := &mockStudentService{
		createErr: &service.ValidationError{Fields: map[string]string{"email": "邮箱已被占用"}},
	}
	h := NewStudentHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/students", jsonBody(dto.CreateStudentRequest{
		Name:      "张三",
		Email:     "zhangsan@example.com",
		ProgramID: 1,
		DueDate:   "2026-09-30",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/students", h.CreateStudent)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Errors["email"] == "" {
		t.Errorf("expected field error on email, got %v", resp.Errors)
	}
}

func TestStudentHandler_UpdateTimelineStep_BadStepID(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{})

	w := setupRecorder()
	req := httptest.NewRequest("PATCH", "/students/1/timeline/abc", jsonBody(map[string]string{
		"status": "completed",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PATCH("/students/:id/timeline/:stepId", h.UpdateTimelineStep)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestStudentHandler_ListStudents_Paged(t *testing.T) {
	mock := &mockStudentService{
		listResult: []dto.StudentResponse{{ID: 1}, {ID: 2}},
		listTotal:  2,
	}
	h := NewStudentHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/students?page=1&page_size=10", nil)

	r := gin.New()
	r.GET("/students", h.ListStudents)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Success bool              `json:"success"`
		Data    response.PageData `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Data.Pagination.Total != 2 {
		t.Errorf("expected total 2, got %d", resp.Data.Pagination.Total)
	}
}

func TestStudentHandler_BulkUpdate_Success(t *testing.T) {
	mock := &mockStudentService{bulkResult: &dto.BulkUpdateResponse{Affected: 3}}
	h := NewStudentHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/students/bulk-update", jsonBody(dto.BulkUpdateRequest{
		IDs:           []int64{1, 2, 3},
		PaymentStatus: ptr("Paid"),
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/students/bulk-update", h.BulkUpdateStudents)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestStudentHandler_GetStats_Success(t *testing.T) {
	mock := &mockStudentService{
		statsResult: &dto.StudentStatsResponse{Total: 10, PaidPercentage: 60},
	}
	h := NewStudentHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/students/stats", nil)

	r := gin.New()
	r.GET("/students/stats", h.GetStudentStats)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func ptr(s string) *string { return &s }

// ═══════════════════════════════════════════════════════════
// TransactionHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTransactionHandler_Create_Created(t *testing.T) {
	mock := &mockTransactionService{
		createResult: &dto.TransactionResponse{ID: 1, Amount: 1999, Status: "Pending"},
	}
	h := NewTransactionHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/transactions", jsonBody(dto.CreateTransactionRequest{
		StudentID: 1,
		Amount:    1999,
		Method:    "Stripe",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/transactions", h.CreateTransaction)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestTransactionHandler_Get_NotFound(t *testing.T) {
	h := NewTransactionHandler(&mockTransactionService{getErr: service.ErrTransactionNotFound})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/transactions/999", nil)

	r := gin.New()
	r.GET("/transactions/:id", h.GetTransaction)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestTransactionHandler_Get_BadID(t *testing.T) {
	h := NewTransactionHandler(&mockTransactionService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/transactions/abc", nil)

	r := gin.New()
	r.GET("/transactions/:id", h.GetTransaction)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// DiscordHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDiscordHandler_RecordSyncResult_Success(t *testing.T) {
	mock := &mockDiscordRoleService{
		recordResult: &dto.DiscordRoleResponse{ID: 1, StudentID: 1, SyncStatus: "Synced"},
	}
	h := NewDiscordHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/students/1/discord-role/sync-result", jsonBody(dto.RecordSyncResultRequest{
		SyncStatus: "Synced",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/students/:id/discord-role/sync-result", h.RecordSyncResult)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestDiscordHandler_GetStudentRole_NotFound(t *testing.T) {
	h := NewDiscordHandler(&mockDiscordRoleService{getErr: service.ErrDiscordRoleNotFound})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/students/1/discord-role", nil)

	r := gin.New()
	r.GET("/students/:id/discord-role", h.GetStudentRole)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// SystemLogHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSystemLogHandler_ListLogs_Success(t *testing.T) {
	mock := &mockSystemLogService{
		listResult: []dto.SystemLogResponse{{ID: 1, Level: "INFO", Module: "students"}},
		listTotal:  1,
	}
	h := NewSystemLogHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/logs?level=INFO", nil)

	r := gin.New()
	r.GET("/logs", h.ListLogs)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestSystemLogHandler_ListLogs_InvalidLevel(t *testing.T) {
	mock := &mockSystemLogService{
		listErr: &service.ValidationError{Fields: map[string]string{"level": "日志级别取值无效"}},
	}
	h := NewSystemLogHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/logs?level=DEBUG", nil)

	r := gin.New()
	r.GET("/logs", h.ListLogs)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
}

func TestSystemLogHandler_PurgeLogs_Success(t *testing.T) {
	mock := &mockSystemLogService{purgeResult: &dto.PurgeLogsResponse{Deleted: 12}}
	h := NewSystemLogHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/logs/purge", nil)

	r := gin.New()
	r.POST("/logs/purge", h.PurgeLogs)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportStudents_Headers(t *testing.T) {
	f := excelize.NewFile()
	mock := &mockExportService{file: f, filename: "students_20260829_120000.xlsx"}
	h := NewExportHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/students/export", nil)

	r := gin.New()
	r.GET("/students/export", h.ExportStudents)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	disposition := w.Header().Get("Content-Disposition")
	if disposition != `attachment; filename="students_20260829_120000.xlsx"` {
		t.Errorf("unexpected Content-Disposition: %s", disposition)
	}
	if w.Body.Len() == 0 {
		t.Error("expected non-empty body")
	}
}

// ═══════════════════════════════════════════════════════════
// ReportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReportHandler_GetDashboardSummary_Success(t *testing.T) {
	mock := &mockReportService{
		summaryResult: &dto.DashboardSummaryResponse{TotalStudents: 5, PaidPercentage: 40},
	}
	h := NewReportHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/dashboard/summary", nil)

	r := gin.New()
	r.GET("/dashboard/summary", h.GetDashboardSummary)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if !resp.Success {
		t.Error("expected success=true")
	}
}
