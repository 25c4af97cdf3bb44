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

// DepartmentService определяет интерфейс бизнес-логики для отделов
type DepartmentService interface {
	Create(ctx context.Context, input *dto.DepartmentInput) (*domain.Department, error)
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
	Update(ctx context.Context, id int64, input *dto.DepartmentInput) (*domain.Department, error)
	Delete(ctx context.Context, id int64) error
	HasEmployees(ctx context.Context, id int64) (bool, error)
}

type departmentService struct {
	deptRepo repository.DepartmentRepository
}

// NewDepartmentService создаёт новый экземпляр сервиса
func NewDepartmentService(deptRepo repository.DepartmentRepository) DepartmentService {
	return &departmentService{deptRepo: deptRepo}
}

func (s *departmentService) validateInput(input *dto.DepartmentInput, dept *domain.Department) domain.FieldErrors {
	var fieldErrs domain.FieldErrors

	name, res := validate.Required(input.Name, "name")
	if res.OK {
		dept.Name = name
	} else {
		fieldErrs = append(fieldErrs, domain.NewFieldError("name", res.Reason, res.Message))
	}

	dept.Description = strings.TrimSpace(input.Description)

	return fieldErrs
}

func (s *departmentService) Create(ctx context.Context, input *dto.DepartmentInput) (*domain.Department, error) {
	dept := &domain.Department{}
	if fieldErrs := s.validateInput(input, dept); len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	// Проверяем уникальность имени до записи
	exists, err := s.deptRepo.ExistsByName(ctx, dept.Name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicateField("name")
	}

	if err := s.deptRepo.Create(ctx, dept); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateField("name")
		}
		return nil, err
	}

	return dept, nil
}

func (s *departmentService) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	return s.deptRepo.GetByID(ctx, id)
}

func (s *departmentService) List(ctx context.Context) ([]domain.Department, error) {
	return s.deptRepo.List(ctx)
}

// Update выполняет полную замену полей отдела
func (s *departmentService) Update(ctx context.Context, id int64, input *dto.DepartmentInput) (*domain.Department, error) {
	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := &domain.Department{ID: dept.ID, CreatedAt: dept.CreatedAt}
	if fieldErrs := s.validateInput(input, updated); len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	exists, err := s.deptRepo.ExistsByName(ctx, updated.Name, &id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicateField("name")
	}

	if err := s.deptRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateField("name")
		}
		return nil, err
	}

	return updated, nil
}

// Delete удаляет отдел, отвязывая его сотрудников. Сотрудники не удаляются:
// их ссылка на отдел обнуляется атомарно вместе с удалением.
func (s *departmentService) Delete(ctx context.Context, id int64) error {
	return s.deptRepo.DeleteDetach(ctx, id)
}

func (s *departmentService) HasEmployees(ctx context.Context, id int64) (bool, error) {
	if _, err := s.deptRepo.GetByID(ctx, id); err != nil {
		return false, err
	}
	return s.deptRepo.HasEmployees(ctx, id)
}
