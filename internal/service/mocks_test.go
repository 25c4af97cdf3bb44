package service_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/smart-records-api/internal/domain"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	return err == nil, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

type mockDepartmentRepo struct {
	departments map[int64]*domain.Department
	nextID      int64
	// employees позволяет DeleteDetach отвязывать сотрудников, как это
	// делает транзакция в настоящем репозитории
	employees *mockEmployeeRepo
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{departments: make(map[int64]*domain.Department), nextID: 1}
}

func (m *mockDepartmentRepo) Create(ctx context.Context, dept *domain.Department) error {
	for _, d := range m.departments {
		if d.Name == dept.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	dept.ID = m.nextID
	dept.CreatedAt = time.Now()
	m.nextID++
	m.departments[dept.ID] = dept
	return nil
}

func (m *mockDepartmentRepo) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	if dept, ok := m.departments[id]; ok {
		return dept, nil
	}
	return nil, domain.ErrDepartmentNotFound
}

func (m *mockDepartmentRepo) List(ctx context.Context) ([]domain.Department, error) {
	result := make([]domain.Department, 0, len(m.departments))
	for _, d := range m.departments {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockDepartmentRepo) Update(ctx context.Context, dept *domain.Department) error {
	m.departments[dept.ID] = dept
	return nil
}

func (m *mockDepartmentRepo) DeleteDetach(ctx context.Context, id int64) error {
	if _, ok := m.departments[id]; !ok {
		return domain.ErrDepartmentNotFound
	}
	if m.employees != nil {
		for _, emp := range m.employees.employees {
			if emp.DepartmentID != nil && *emp.DepartmentID == id {
				emp.DepartmentID = nil
			}
		}
	}
	delete(m.departments, id)
	return nil
}

func (m *mockDepartmentRepo) ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error) {
	for _, d := range m.departments {
		if d.Name == name && (excludeID == nil || d.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDepartmentRepo) HasEmployees(ctx context.Context, id int64) (bool, error) {
	if m.employees == nil {
		return false, nil
	}
	for _, emp := range m.employees.employees {
		if emp.DepartmentID != nil && *emp.DepartmentID == id {
			return true, nil
		}
	}
	return false, nil
}

type mockEmployeeRepo struct {
	employees map[int64]*domain.Employee
	nextID    int64
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[int64]*domain.Employee), nextID: 1}
}

func (m *mockEmployeeRepo) Create(ctx context.Context, emp *domain.Employee) error {
	for _, e := range m.employees {
		if e.Email == emp.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	emp.ID = m.nextID
	emp.CreatedAt = time.Now()
	m.nextID++
	m.employees[emp.ID] = emp
	return nil
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	if emp, ok := m.employees[id]; ok {
		copied := *emp
		return &copied, nil
	}
	return nil, domain.ErrEmployeeNotFound
}

func (m *mockEmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	result := make([]domain.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].LastName != result[j].LastName {
			return result[i].LastName < result[j].LastName
		}
		return result[i].FirstName < result[j].FirstName
	})
	return result, nil
}

func (m *mockEmployeeRepo) ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Employee, error) {
	var result []domain.Employee
	for _, e := range m.employees {
		if e.DepartmentID != nil && *e.DepartmentID == departmentID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEmployeeRepo) Search(ctx context.Context, term string) ([]domain.Employee, error) {
	needle := strings.ToLower(term)
	var result []domain.Employee
	for _, e := range m.employees {
		haystack := strings.ToLower(e.FirstName + " " + e.LastName + " " + e.Email + " " + e.Position)
		if strings.Contains(haystack, needle) {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, emp *domain.Employee) error {
	for _, e := range m.employees {
		if e.ID != emp.ID && e.Email == emp.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	copied := *emp
	m.employees[emp.ID] = &copied
	return nil
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.employees[id]; !ok {
		return domain.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	return nil
}

func (m *mockEmployeeRepo) ExistsByEmail(ctx context.Context, email string, excludeID *int64) (bool, error) {
	for _, e := range m.employees {
		if e.Email == email && (excludeID == nil || e.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEmployeeRepo) Statistics(ctx context.Context) (*domain.EmployeeStatistics, error) {
	stats := &domain.EmployeeStatistics{TotalEmployees: int64(len(m.employees))}
	first := true
	for _, e := range m.employees {
		if e.Salary == nil {
			continue
		}
		s := *e.Salary
		stats.TotalSalary += s
		if first || s < stats.MinSalary {
			stats.MinSalary = s
		}
		if first || s > stats.MaxSalary {
			stats.MaxSalary = s
		}
		first = false
	}
	if stats.TotalEmployees > 0 {
		stats.AvgSalary = stats.TotalSalary / float64(stats.TotalEmployees)
	}
	return stats, nil
}
