// Package validate содержит чистые функции проверки полей формы.
// Каждая функция возвращает вердикт и нормализованное значение, пригодное
// для записи в БД: повторный разбор строки ниже по конвейеру не нужен.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/smart-records-api/internal/domain"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-() ]+$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Result - вердикт одной проверки
type Result struct {
	OK      bool
	Reason  domain.Reason
	Message string
}

func pass() Result {
	return Result{OK: true}
}

func fail(reason domain.Reason, message string) Result {
	return Result{Reason: reason, Message: message}
}

// Required проверяет, что обязательное поле непустое после обрезки пробелов.
// Возвращает обрезанное значение.
func Required(value, field string) (string, Result) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fail(domain.ReasonMissingField, fmt.Sprintf("%s is required", field))
	}
	return trimmed, pass()
}

// Email проверяет формат адреса local@domain.tld.
// Пустое значение считается валидным: поле опционально, но
// должно быть корректным, если заполнено.
func Email(value string) (string, Result) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", pass()
	}
	if !emailPattern.MatchString(trimmed) {
		return "", fail(domain.ReasonInvalidFormat, "invalid email format")
	}
	return trimmed, pass()
}

// Phone проверяет номер телефона: только цифры, пробелы и символы +-(),
// длина от 7 до 20 символов. Пустое значение валидно.
func Phone(value string) (string, Result) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", pass()
	}
	if !phonePattern.MatchString(trimmed) || len(trimmed) < 7 || len(trimmed) > 20 {
		return "", fail(domain.ReasonInvalidFormat, "invalid phone format")
	}
	return trimmed, pass()
}

// Salary разбирает зарплату как десятичное число и отклоняет отрицательные
// значения. Пустое значение валидно, нормализованное значение тогда nil.
func Salary(value string) (*float64, Result) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, pass()
	}
	salary, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, fail(domain.ReasonNotANumber, "salary must be a valid number")
	}
	if salary < 0 {
		return nil, fail(domain.ReasonOutOfRange, "salary cannot be negative")
	}
	return &salary, pass()
}

// Date разбирает дату строго в формате YYYY-MM-DD и отклоняет календарно
// невозможные даты вроде 30 февраля. Пустое значение валидно.
func Date(value string) (*time.Time, Result) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, pass()
	}
	if !datePattern.MatchString(trimmed) {
		return nil, fail(domain.ReasonInvalidDate, "date must be in YYYY-MM-DD format")
	}
	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil, fail(domain.ReasonInvalidDate, "invalid date")
	}
	return &parsed, pass()
}
