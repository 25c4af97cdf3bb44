package dto

import (
	"time"

	"github.com/smart-records-api/internal/domain"
)

// RegisterRequest - запрос на регистрацию пользователя
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse - ответ на успешный вход
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse - данные пользователя без дайджеста пароля
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// EmployeeInput - сырые строки полей формы сотрудника.
// Поля намеренно строковые: нормализацию и типизацию выполняет
// конвейер валидации, а не уровень транспорта.
type EmployeeInput struct {
	FirstName    string `json:"first_name" validate:"max=100"`
	LastName     string `json:"last_name" validate:"max=100"`
	Email        string `json:"email" validate:"max=255"`
	Phone        string `json:"phone" validate:"max=50"`
	Position     string `json:"position" validate:"max=200"`
	Salary       string `json:"salary" validate:"max=30"`
	HireDate     string `json:"hire_date" validate:"max=10"`
	DepartmentID *int64 `json:"department_id" validate:"omitempty,min=1"`
}

// DepartmentInput - сырые строки полей формы отдела
type DepartmentInput struct {
	Name        string `json:"name" validate:"max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// EmployeeResponse - ответ с данными сотрудника
type EmployeeResponse struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Position       string    `json:"position,omitempty"`
	Salary         *float64  `json:"salary,omitempty"`
	DepartmentID   *int64    `json:"department_id,omitempty"`
	DepartmentName *string   `json:"department_name,omitempty"`
	HireDate       *string   `json:"hire_date,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// DepartmentResponse - ответ с данными отдела
type DepartmentResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ErrorResponse - стандартный ответ с ошибкой.
// Fields заполняется при отказах валидации: по одной записи на поле,
// в порядке проверки.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}
