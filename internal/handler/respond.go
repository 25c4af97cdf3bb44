package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/smart-records-api/internal/domain"
	"github.com/smart-records-api/internal/dto"
)

// responder - общие ответные примитивы всех хендлеров
type responder struct {
	logger *slog.Logger
}

func (rd *responder) respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rd.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (rd *responder) respondError(w http.ResponseWriter, status int, errMsg, details string) {
	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: errMsg}
	if details != "" {
		resp.Message = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		rd.logger.Error("failed to encode error response", slog.Any("error", err))
	}
}

// respondFieldErrors возвращает упорядоченный список отказов по полям.
// Конфликт уникальности отдаётся как 409, прочие отказы валидации как 400.
func (rd *responder) respondFieldErrors(w http.ResponseWriter, fieldErrs domain.FieldErrors) {
	status := http.StatusBadRequest
	for _, fe := range fieldErrs {
		if fe.Reason == domain.ReasonDuplicateValue {
			status = http.StatusConflict
			break
		}
	}

	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: "validation failed", Fields: fieldErrs}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		rd.logger.Error("failed to encode error response", slog.Any("error", err))
	}
}

// handleServiceError переводит ошибки сервисного слоя в HTTP статусы
func (rd *responder) handleServiceError(w http.ResponseWriter, err error) {
	var fieldErrs domain.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		rd.respondFieldErrors(w, fieldErrs)
	case errors.Is(err, domain.ErrEmployeeNotFound):
		rd.respondError(w, http.StatusNotFound, "employee not found", "")
	case errors.Is(err, domain.ErrDepartmentNotFound):
		rd.respondError(w, http.StatusNotFound, "department not found", "")
	case errors.Is(err, domain.ErrUserNotFound):
		rd.respondError(w, http.StatusNotFound, "user not found", "")
	case errors.Is(err, domain.ErrInvalidCredentials):
		rd.respondError(w, http.StatusUnauthorized, "invalid username or password", "")
	case errors.Is(err, domain.ErrNotAuthenticated):
		rd.respondError(w, http.StatusUnauthorized, "not authenticated", "")
	default:
		rd.logger.Error("internal error", slog.Any("error", err))
		rd.respondError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

// extractID разбирает идентификатор из первого сегмента пути после префикса
func extractID(r *http.Request, prefix string) (int64, error) {
	path := strings.TrimPrefix(r.URL.Path, prefix)
	path = strings.Trim(path, "/")

	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		return 0, errors.New("id is required")
	}

	return strconv.ParseInt(parts[0], 10, 64)
}

func toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}

func toDepartmentResponse(dept *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:          dept.ID,
		Name:        dept.Name,
		Description: dept.Description,
		CreatedAt:   dept.CreatedAt,
	}
}

func toEmployeeResponse(emp *domain.Employee) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		ID:           emp.ID,
		FirstName:    emp.FirstName,
		LastName:     emp.LastName,
		Email:        emp.Email,
		Phone:        emp.Phone,
		Position:     emp.Position,
		Salary:       emp.Salary,
		DepartmentID: emp.DepartmentID,
		CreatedAt:    emp.CreatedAt,
	}

	if emp.Department != nil {
		resp.DepartmentName = &emp.Department.Name
	}
	if emp.HireDate != nil {
		hireDate := emp.HireDate.Format("2006-01-02")
		resp.HireDate = &hireDate
	}

	return resp
}

func toEmployeeResponses(employees []domain.Employee) []dto.EmployeeResponse {
	resp := make([]dto.EmployeeResponse, len(employees))
	for i := range employees {
		resp[i] = toEmployeeResponse(&employees[i])
	}
	return resp
}

func toDepartmentResponses(departments []domain.Department) []dto.DepartmentResponse {
	resp := make([]dto.DepartmentResponse, len(departments))
	for i := range departments {
		resp[i] = toDepartmentResponse(&departments[i])
	}
	return resp
}
