package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smart-records-api/internal/domain"
	"github.com/smart-records-api/internal/dto"
	"github.com/smart-records-api/internal/handler"
	"github.com/smart-records-api/internal/report"
	"github.com/smart-records-api/internal/repository"
	"github.com/smart-records-api/internal/service"
	"github.com/smart-records-api/internal/session"
)

// testServer поднимает полный стек API поверх in-memory базы
func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Department{},
		&domain.Employee{},
	))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	empRepo := repository.NewEmployeeRepository(db)

	sessions := session.NewRegistry()
	authService := service.NewAuthService(userRepo, sessions, "test-secret", bcrypt.MinCost, time.Hour)
	deptService := service.NewDepartmentService(deptRepo)
	empService := service.NewEmployeeService(empRepo, deptRepo)
	generator := report.NewGenerator(empRepo, deptRepo)

	router := handler.NewRouter(
		handler.NewAuthHandler(authService, log),
		handler.NewEmployeeHandler(empService, log),
		handler.NewDepartmentHandler(deptService, empService, log),
		handler.NewReportHandler(generator, log),
		authService,
		log,
	)

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// loginAs регистрирует пользователя и возвращает токен сессии
func loginAs(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()

	resp := doJSON(t, srv, http.MethodPost, "/auth/register", "", dto.RegisterRequest{
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, srv, http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeBody[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)
	return login.Token
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	srv := testServer(t)

	for _, path := range []string{"/employees", "/departments", "/reports/summary"} {
		resp := doJSON(t, srv, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}

	resp := doJSON(t, srv, http.MethodGet, "/employees", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterValidation(t *testing.T) {
	srv := testServer(t)

	// Пароль короче минимума и пустой логин - обе ошибки в одном ответе
	resp := doJSON(t, srv, http.MethodPost, "/auth/register", "", dto.RegisterRequest{
		Username: "x",
		Password: "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[dto.ErrorResponse](t, resp)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "password", body.Fields[0].Field)
	assert.Equal(t, domain.ReasonOutOfRange, body.Fields[0].Reason)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	srv := testServer(t)
	loginAs(t, srv, "alice", "password123")

	unknown := doJSON(t, srv, http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Username: "nobody", Password: "password123",
	})
	wrongPass := doJSON(t, srv, http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Username: "alice", Password: "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, unknown.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, wrongPass.StatusCode)

	// Ответы неразличимы: по ним нельзя перечислять логины
	b1 := decodeBody[dto.ErrorResponse](t, unknown)
	b2 := decodeBody[dto.ErrorResponse](t, wrongPass)
	assert.Equal(t, b1.Error, b2.Error)
}

func TestLogoutEndsSession(t *testing.T) {
	srv := testServer(t)
	token := loginAs(t, srv, "alice", "password123")

	resp := doJSON(t, srv, http.MethodGet, "/employees", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, srv, http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, srv, http.MethodGet, "/employees", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestEmployeeCreateAndGet(t *testing.T) {
	srv := testServer(t)
	token := loginAs(t, srv, "alice", "password123")

	resp := doJSON(t, srv, http.MethodPost, "/departments", token, dto.DepartmentInput{
		Name: "Engineering",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	dept := decodeBody[dto.DepartmentResponse](t, resp)

	resp = doJSON(t, srv, http.MethodPost, "/employees", token, dto.EmployeeInput{
		FirstName:    "  John  ",
		LastName:     "Smith",
		Email:        "john@example.com",
		Salary:       " 50000 ",
		HireDate:     "2024-02-29",
		DepartmentID: &dept.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[dto.EmployeeResponse](t, resp)

	// Сохранены нормализованные значения
	assert.Equal(t, "John", created.FirstName)
	require.NotNil(t, created.Salary)
	assert.Equal(t, 50000.0, *created.Salary)
	require.NotNil(t, created.HireDate)
	assert.Equal(t, "2024-02-29", *created.HireDate)
	require.NotNil(t, created.DepartmentName)
	assert.Equal(t, "Engineering", *created.DepartmentName)
}

func TestEmployeeValidationCollectsAllErrors(t *testing.T) {
	srv := testServer(t)
	token := loginAs(t, srv, "alice", "password123")

	resp := doJSON(t, srv, http.MethodPost, "/employees", token, dto.EmployeeInput{
		FirstName: "John",
		LastName:  "Smith",
		Email:     "not-an-email",
		Salary:    "-100",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[dto.ErrorResponse](t, resp)
	require.Len(t, body.Fields, 2)
	assert.Equal(t, "email", body.Fields[0].Field)
	assert.Equal(t, domain.ReasonInvalidFormat, body.Fields[0].Reason)
	assert.Equal(t, "salary", body.Fields[1].Field)
	assert.Equal(t, domain.ReasonOutOfRange, body.Fields[1].Reason)

	// Ничего не записано
	resp = doJSON(t, srv, http.MethodGet, "/employees", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	employees := decodeBody[[]dto.EmployeeResponse](t, resp)
	assert.Empty(t, employees)
}

func TestDuplicateDepartmentName(t *testing.T) {
	srv := testServer(t)
	token := loginAs(t, srv, "alice", "password123")

	resp := doJSON(t, srv, http.MethodPost, "/departments", token, dto.DepartmentInput{Name: "HR"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, srv, http.MethodPost, "/departments", token, dto.DepartmentInput{Name: "HR"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody[dto.ErrorResponse](t, resp)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "name", body.Fields[0].Field)
	assert.Equal(t, domain.ReasonDuplicateValue, body.Fields[0].Reason)
}

func TestEmployeeSearchParam(t *testing.T) {
	srv := testServer(t)
	token := loginAs(t, srv, "alice", "password123")

	for _, input := range []dto.EmployeeInput{
		{FirstName: "John", LastName: "Smith", Email: "john@example.com", Position: "Manager"},
		{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Position: "Developer"},
	} {
		resp := doJSON(t, srv, http.MethodPost, "/employees", token, input)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, srv, http.MethodGet, "/employees?search=MANAGER", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	found := decodeBody[[]dto.EmployeeResponse](t, resp)
	require.Len(t, found, 1)
	assert.Equal(t, "John", found[0].FirstName)
}

func TestEmployeeNotFound(t *testing.T) {
	srv := testServer(t)
	token := loginAs(t, srv, "alice", "password123")

	resp := doJSON(t, srv, http.MethodGet, "/employees/42", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestReportEndpoints(t *testing.T) {
	srv := testServer(t)
	token := loginAs(t, srv, "alice", "password123")

	resp := doJSON(t, srv, http.MethodGet, "/reports/summary", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	text, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(text), "SMART RECORDS SYSTEM REPORT")

	resp = doJSON(t, srv, http.MethodGet, "/reports/summary?format=pdf", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))

	resp = doJSON(t, srv, http.MethodGet, "/reports/summary?format=xml", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
