package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Определение бизнес-ошибок
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// Reason - машиночитаемый код причины отказа валидации
type Reason string

const (
	ReasonMissingField   Reason = "missing_field"
	ReasonInvalidFormat  Reason = "invalid_format"
	ReasonNotANumber     Reason = "not_a_number"
	ReasonOutOfRange     Reason = "out_of_range"
	ReasonInvalidDate    Reason = "invalid_date"
	ReasonDuplicateValue Reason = "duplicate_value"
)

// FieldError - отказ валидации, привязанный к конкретному полю формы
type FieldError struct {
	Field   string `json:"field"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors - упорядоченный список отказов по всем полям одной отправки формы.
// Сервисы собирают в него все проблемы разом, а не только первую найденную.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// NewFieldError создаёт отказ валидации для одного поля
func NewFieldError(field string, reason Reason, message string) FieldError {
	return FieldError{Field: field, Reason: reason, Message: message}
}
