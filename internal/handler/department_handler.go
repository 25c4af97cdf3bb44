package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/smart-records-api/internal/dto"
	"github.com/smart-records-api/internal/service"
)

// DepartmentHandler обрабатывает запросы к отделам
type DepartmentHandler struct {
	responder
	deptService service.DepartmentService
	empService  service.EmployeeService
	validator   *validator.Validate
}

// NewDepartmentHandler создаёт новый хендлер отделов
func NewDepartmentHandler(
	deptService service.DepartmentService,
	empService service.EmployeeService,
	logger *slog.Logger,
) *DepartmentHandler {
	return &DepartmentHandler{
		responder:   responder{logger: logger},
		deptService: deptService,
		empService:  empService,
		validator:   validator.New(),
	}
}

func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	dept, err := h.deptService.Create(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toDepartmentResponse(dept))
}

func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	departments, err := h.deptService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toDepartmentResponses(departments))
}

func (h *DepartmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r, "/departments/")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid department id", err.Error())
		return
	}

	dept, err := h.deptService.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toDepartmentResponse(dept))
}

func (h *DepartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r, "/departments/")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid department id", err.Error())
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	dept, err := h.deptService.Update(r.Context(), id, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toDepartmentResponse(dept))
}

// Delete удаляет отдел; зависимые сотрудники отвязываются, не удаляются
func (h *DepartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r, "/departments/")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid department id", err.Error())
		return
	}

	if err := h.deptService.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListEmployees отдаёт сотрудников одного отдела
func (h *DepartmentHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r, "/departments/")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid department id", err.Error())
		return
	}

	employees, err := h.empService.ListByDepartment(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toEmployeeResponses(employees))
}

func (h *DepartmentHandler) decodeInput(w http.ResponseWriter, r *http.Request) (*dto.DepartmentInput, bool) {
	var input dto.DepartmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return nil, false
	}

	if err := h.validator.Struct(&input); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return nil, false
	}

	return &input, true
}
