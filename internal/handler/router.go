package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/smart-records-api/internal/middleware"
)

// Router настраивает маршруты API
type Router struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	auth        *AuthHandler
	employees   *EmployeeHandler
	departments *DepartmentHandler
	reports     *ReportHandler
	authn       middleware.Authenticator
}

// NewRouter создаёт новый роутер
func NewRouter(
	auth *AuthHandler,
	employees *EmployeeHandler,
	departments *DepartmentHandler,
	reports *ReportHandler,
	authn middleware.Authenticator,
	logger *slog.Logger,
) *Router {
	return &Router{
		mux:         http.NewServeMux(),
		logger:      logger,
		auth:        auth,
		employees:   employees,
		departments: departments,
		reports:     reports,
		authn:       authn,
	}
}

// Setup настраивает все маршруты
func (r *Router) Setup() http.Handler {
	// Аутентификация доступна без сессии
	r.mux.HandleFunc("/auth/", r.authRouter)

	// Всё остальное требует активной сессии
	requireAuth := middleware.RequireAuth(r.authn)
	r.mux.Handle("/employees", requireAuth(http.HandlerFunc(r.employeesRouter)))
	r.mux.Handle("/employees/", requireAuth(http.HandlerFunc(r.employeesRouter)))
	r.mux.Handle("/departments", requireAuth(http.HandlerFunc(r.departmentsRouter)))
	r.mux.Handle("/departments/", requireAuth(http.HandlerFunc(r.departmentsRouter)))
	r.mux.Handle("/reports/summary", requireAuth(http.HandlerFunc(r.reports.Summary)))

	// Health check
	r.mux.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Применяем middleware
	handler := middleware.ContentType(r.mux)
	handler = middleware.Logger(r.logger)(handler)
	handler = middleware.Recoverer(r.logger)(handler)

	return handler
}

// authRouter обрабатывает запросы к /auth/
func (r *Router) authRouter(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	switch strings.TrimPrefix(req.URL.Path, "/auth/") {
	case "register":
		r.auth.Register(w, req)
	case "login":
		r.auth.Login(w, req)
	case "logout":
		r.auth.Logout(w, req)
	default:
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}
}

// employeesRouter обрабатывает все запросы к /employees
func (r *Router) employeesRouter(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, "/employees")
	path = strings.Trim(path, "/")

	// GET /employees - список или поиск, POST /employees - создание
	if path == "" {
		switch req.Method {
		case http.MethodGet:
			r.employees.List(w, req)
		case http.MethodPost:
			r.employees.Create(w, req)
		default:
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		}
		return
	}

	// GET /employees/statistics - агрегированные показатели
	if path == "statistics" {
		if req.Method == http.MethodGet {
			r.employees.Statistics(w, req)
			return
		}
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	// /employees/{id}
	parts := strings.Split(path, "/")
	if len(parts) == 1 {
		switch req.Method {
		case http.MethodGet:
			r.employees.GetByID(w, req)
		case http.MethodPut:
			r.employees.Update(w, req)
		case http.MethodDelete:
			r.employees.Delete(w, req)
		default:
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		}
		return
	}

	http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
}

// departmentsRouter обрабатывает все запросы к /departments
func (r *Router) departmentsRouter(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, "/departments")
	path = strings.Trim(path, "/")

	// GET /departments - список, POST /departments - создание
	if path == "" {
		switch req.Method {
		case http.MethodGet:
			r.departments.List(w, req)
		case http.MethodPost:
			r.departments.Create(w, req)
		default:
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		}
		return
	}

	parts := strings.Split(path, "/")

	// /departments/{id}
	if len(parts) == 1 {
		switch req.Method {
		case http.MethodGet:
			r.departments.GetByID(w, req)
		case http.MethodPut:
			r.departments.Update(w, req)
		case http.MethodDelete:
			r.departments.Delete(w, req)
		default:
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		}
		return
	}

	// GET /departments/{id}/employees
	if len(parts) == 2 && parts[1] == "employees" {
		if req.Method == http.MethodGet {
			r.departments.ListEmployees(w, req)
			return
		}
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
}
