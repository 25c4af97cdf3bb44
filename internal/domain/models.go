package domain

import (
	"time"
)

// User представляет учётную запись пользователя системы.
// Поле Password всегда содержит bcrypt-дайджест, никогда не исходный пароль.
type User struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"type:varchar(100);not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName задаёт имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// Department представляет отдел организации
type Department struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	Employees []Employee `json:"employees,omitempty" gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL"`
}

// TableName задаёт имя таблицы для GORM
func (Department) TableName() string {
	return "departments"
}

// Employee представляет сотрудника. Ссылка на отдел опциональна:
// при удалении отдела она обнуляется, сам сотрудник не удаляется.
type Employee struct {
	ID           int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName    string     `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName     string     `json:"last_name" gorm:"type:varchar(100);not null"`
	Email        string     `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone        string     `json:"phone" gorm:"type:varchar(20)"`
	Position     string     `json:"position" gorm:"type:varchar(200)"`
	Salary       *float64   `json:"salary" gorm:"type:decimal(12,2)"`
	DepartmentID *int64     `json:"department_id" gorm:"index"`
	HireDate     *time.Time `json:"hire_date" gorm:"type:date"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`

	Department *Department `json:"-" gorm:"foreignKey:DepartmentID"`
}

// TableName задаёт имя таблицы для GORM
func (Employee) TableName() string {
	return "employees"
}

// EmployeeStatistics - агрегированные показатели по всем сотрудникам
type EmployeeStatistics struct {
	TotalEmployees int64   `json:"total_employees"`
	AvgSalary      float64 `json:"avg_salary"`
	MinSalary      float64 `json:"min_salary"`
	MaxSalary      float64 `json:"max_salary"`
	TotalSalary    float64 `json:"total_salary"`
}
