package service

import (
	"context"
	"errors"
	"strings"

	"github.com/smart-records-api/internal/domain"
	"github.com/smart-records-api/internal/dto"
	"github.com/smart-records-api/internal/repository"
	"github.com/smart-records-api/internal/validate"
	"gorm.io/gorm"
)

// EmployeeService определяет интерфейс бизнес-логики для сотрудников
type EmployeeService interface {
	Create(ctx context.Context, input *dto.EmployeeInput) (*domain.Employee, error)
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Employee, error)
	Search(ctx context.Context, term string) ([]domain.Employee, error)
	Update(ctx context.Context, id int64, input *dto.EmployeeInput) (*domain.Employee, error)
	Delete(ctx context.Context, id int64) error
	Statistics(ctx context.Context) (*domain.EmployeeStatistics, error)
}

type employeeService struct {
	empRepo  repository.EmployeeRepository
	deptRepo repository.DepartmentRepository
}

// NewEmployeeService создаёт новый экземпляр сервиса
func NewEmployeeService(empRepo repository.EmployeeRepository, deptRepo repository.DepartmentRepository) EmployeeService {
	return &employeeService{
		empRepo:  empRepo,
		deptRepo: deptRepo,
	}
}

// validateInput прогоняет все валидаторы по полям формы и собирает
// все отказы разом. В emp записываются только нормализованные значения:
// именно они, а не сырые строки, уходят в БД.
func (s *employeeService) validateInput(input *dto.EmployeeInput, emp *domain.Employee) domain.FieldErrors {
	var fieldErrs domain.FieldErrors

	firstName, res := validate.Required(input.FirstName, "first_name")
	if res.OK {
		emp.FirstName = firstName
	} else {
		fieldErrs = append(fieldErrs, domain.NewFieldError("first_name", res.Reason, res.Message))
	}

	lastName, res := validate.Required(input.LastName, "last_name")
	if res.OK {
		emp.LastName = lastName
	} else {
		fieldErrs = append(fieldErrs, domain.NewFieldError("last_name", res.Reason, res.Message))
	}

	// Email обязателен на уровне конвейера (в схеме NOT NULL UNIQUE),
	// хотя сам валидатор формата считает пустое значение допустимым.
	email, res := validate.Required(input.Email, "email")
	if !res.OK {
		fieldErrs = append(fieldErrs, domain.NewFieldError("email", res.Reason, res.Message))
	} else {
		email, res = validate.Email(email)
		if res.OK {
			emp.Email = email
		} else {
			fieldErrs = append(fieldErrs, domain.NewFieldError("email", res.Reason, res.Message))
		}
	}

	phone, res := validate.Phone(input.Phone)
	if res.OK {
		emp.Phone = phone
	} else {
		fieldErrs = append(fieldErrs, domain.NewFieldError("phone", res.Reason, res.Message))
	}

	emp.Position = strings.TrimSpace(input.Position)

	salary, res := validate.Salary(input.Salary)
	if res.OK {
		emp.Salary = salary
	} else {
		fieldErrs = append(fieldErrs, domain.NewFieldError("salary", res.Reason, res.Message))
	}

	hireDate, res := validate.Date(input.HireDate)
	if res.OK {
		emp.HireDate = hireDate
	} else {
		fieldErrs = append(fieldErrs, domain.NewFieldError("hire_date", res.Reason, res.Message))
	}

	emp.DepartmentID = input.DepartmentID

	return fieldErrs
}

func (s *employeeService) Create(ctx context.Context, input *dto.EmployeeInput) (*domain.Employee, error) {
	emp := &domain.Employee{}
	if fieldErrs := s.validateInput(input, emp); len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	// Проверяем существование отдела, если ссылка задана
	var dept *domain.Department
	if emp.DepartmentID != nil {
		var err error
		if dept, err = s.deptRepo.GetByID(ctx, *emp.DepartmentID); err != nil {
			return nil, err
		}
	}

	// Проверяем уникальность email до записи
	exists, err := s.empRepo.ExistsByEmail(ctx, emp.Email, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicateField("email")
	}

	if err := s.empRepo.Create(ctx, emp); err != nil {
		// Отказ уникальности на стороне хранилища приводим к тому же
		// виду ошибки, что и предварительная проверка
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateField("email")
		}
		return nil, err
	}

	// Ассоциация подставляется после записи, чтобы ORM не пытался
	// сохранить её как вложенную сущность
	emp.Department = dept
	return emp, nil
}

func (s *employeeService) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.empRepo.GetByID(ctx, id)
}

func (s *employeeService) List(ctx context.Context) ([]domain.Employee, error) {
	return s.empRepo.List(ctx)
}

func (s *employeeService) ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Employee, error) {
	// Проверяем существование отдела
	if _, err := s.deptRepo.GetByID(ctx, departmentID); err != nil {
		return nil, err
	}
	return s.empRepo.ListByDepartment(ctx, departmentID)
}

func (s *employeeService) Search(ctx context.Context, term string) ([]domain.Employee, error) {
	return s.empRepo.Search(ctx, term)
}

// Update выполняет полную замену полей: вызывающая сторона передаёт все
// поля заново, частичного обновления нет.
func (s *employeeService) Update(ctx context.Context, id int64, input *dto.EmployeeInput) (*domain.Employee, error) {
	emp, err := s.empRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := &domain.Employee{ID: emp.ID, CreatedAt: emp.CreatedAt}
	if fieldErrs := s.validateInput(input, updated); len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	var dept *domain.Department
	if updated.DepartmentID != nil {
		if dept, err = s.deptRepo.GetByID(ctx, *updated.DepartmentID); err != nil {
			return nil, err
		}
	}

	exists, err := s.empRepo.ExistsByEmail(ctx, updated.Email, &id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicateField("email")
	}

	if err := s.empRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateField("email")
		}
		return nil, err
	}

	updated.Department = dept
	return updated, nil
}

func (s *employeeService) Delete(ctx context.Context, id int64) error {
	return s.empRepo.Delete(ctx, id)
}

func (s *employeeService) Statistics(ctx context.Context) (*domain.EmployeeStatistics, error) {
	return s.empRepo.Statistics(ctx)
}

// duplicateField оборачивает нарушение уникальности в тот же формат
// отказа по полю, что и валидация: для вызывающей стороны контракт
// одинаков независимо от того, где обнаружен конфликт.
func duplicateField(field string) domain.FieldErrors {
	return domain.FieldErrors{
		domain.NewFieldError(field, domain.ReasonDuplicateValue, field+" already exists"),
	}
}
