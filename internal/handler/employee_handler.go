package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/smart-records-api/internal/domain"
	"github.com/smart-records-api/internal/dto"
	"github.com/smart-records-api/internal/service"
)

// EmployeeHandler обрабатывает запросы к сотрудникам
type EmployeeHandler struct {
	responder
	empService service.EmployeeService
	validator  *validator.Validate
}

// NewEmployeeHandler создаёт новый хендлер сотрудников
func NewEmployeeHandler(empService service.EmployeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		responder:  responder{logger: logger},
		empService: empService,
		validator:  validator.New(),
	}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	emp, err := h.empService.Create(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toEmployeeResponse(emp))
}

// List отдаёт всех сотрудников либо, при непустом параметре search,
// результат поиска по подстроке
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("search")

	var employees []domain.Employee
	var err error
	if term != "" {
		employees, err = h.empService.Search(r.Context(), term)
	} else {
		employees, err = h.empService.List(r.Context())
	}
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toEmployeeResponses(employees))
}

func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r, "/employees/")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid employee id", err.Error())
		return
	}

	emp, err := h.empService.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toEmployeeResponse(emp))
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r, "/employees/")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid employee id", err.Error())
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	emp, err := h.empService.Update(r.Context(), id, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toEmployeeResponse(emp))
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r, "/employees/")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid employee id", err.Error())
		return
	}

	if err := h.empService.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EmployeeHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.empService.Statistics(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

func (h *EmployeeHandler) decodeInput(w http.ResponseWriter, r *http.Request) (*dto.EmployeeInput, bool) {
	var input dto.EmployeeInput
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
