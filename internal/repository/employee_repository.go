package repository

import (
	"context"
	"strings"

	"github.com/smart-records-api/internal/domain"
	"gorm.io/gorm"
)

// EmployeeRepository определяет интерфейс для работы с сотрудниками
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Employee, error)
	Search(ctx context.Context, term string) ([]domain.Employee, error)
	Update(ctx context.Context, emp *domain.Employee) error
	Delete(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string, excludeID *int64) (bool, error)
	Statistics(ctx context.Context) (*domain.EmployeeStatistics, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository создаёт новый экземпляр репозитория
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.WithContext(ctx).Preload("Department").First(&emp, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("department_id = ?", departmentID).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error
	return employees, err
}

// Search выполняет регистронезависимый поиск подстроки по имени, фамилии,
// email и должности.
func (r *employeeRepository) Search(ctx context.Context, term string) ([]domain.Employee, error) {
	pattern := "%" + strings.ToLower(term) + "%"

	var employees []domain.Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(position) LIKE ?",
			pattern, pattern, pattern, pattern,
		).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Employee{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) ExistsByEmail(ctx context.Context, email string, excludeID *int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Employee{}).Where("email = ?", email)

	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	err := query.Count(&count).Error
	return count > 0, err
}

func (r *employeeRepository) Statistics(ctx context.Context) (*domain.EmployeeStatistics, error) {
	var stats domain.EmployeeStatistics
	err := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		Select(
			"COUNT(*) as total_employees, " +
				"COALESCE(AVG(salary), 0) as avg_salary, " +
				"COALESCE(MIN(salary), 0) as min_salary, " +
				"COALESCE(MAX(salary), 0) as max_salary, " +
				"COALESCE(SUM(salary), 0) as total_salary",
		).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
