// Package report формирует сводный отчёт по сотрудникам и отделам
// и экспортирует его в текстовом виде или PDF.
package report

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/smart-records-api/internal/domain"
	"github.com/smart-records-api/internal/repository"
)

const lineWidth = 80

// Generator собирает данные отчёта из репозиториев и форматирует их
type Generator struct {
	empRepo  repository.EmployeeRepository
	deptRepo repository.DepartmentRepository
	// now подменяется в тестах для стабильных таймстампов
	now func() time.Time
}

// NewGenerator создаёт новый генератор отчётов
func NewGenerator(empRepo repository.EmployeeRepository, deptRepo repository.DepartmentRepository) *Generator {
	return &Generator{
		empRepo:  empRepo,
		deptRepo: deptRepo,
		now:      time.Now,
	}
}

// Filename возвращает имя файла отчёта с таймстампом генерации
func (g *Generator) Filename(ext string) string {
	return fmt.Sprintf("report_%s.%s", g.now().Format("20060102_150405"), ext)
}

// Text формирует полный текстовый отчёт: сводная статистика, численность
// по отделам, список сотрудников и список отделов.
func (g *Generator) Text(ctx context.Context) (string, error) {
	stats, err := g.empRepo.Statistics(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load statistics: %w", err)
	}
	employees, err := g.empRepo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load employees: %w", err)
	}
	departments, err := g.deptRepo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load departments: %w", err)
	}

	var b strings.Builder
	rule := strings.Repeat("=", lineWidth)
	sep := strings.Repeat("-", lineWidth)

	b.WriteString(rule + "\n")
	b.WriteString(strings.Repeat(" ", 25) + "SMART RECORDS SYSTEM REPORT\n")
	b.WriteString(rule + "\n\n")

	b.WriteString("SUMMARY STATISTICS\n")
	b.WriteString(sep + "\n")
	fmt.Fprintf(&b, "Total Employees: %d\n", stats.TotalEmployees)
	fmt.Fprintf(&b, "Total Departments: %d\n", len(departments))
	// Зарплатный блок имеет смысл только при наличии сотрудников
	if stats.TotalEmployees > 0 {
		fmt.Fprintf(&b, "Average Salary: $%.2f\n", stats.AvgSalary)
		fmt.Fprintf(&b, "Minimum Salary: $%.2f\n", stats.MinSalary)
		fmt.Fprintf(&b, "Maximum Salary: $%.2f\n", stats.MaxSalary)
		fmt.Fprintf(&b, "Total Salary Budget: $%.2f\n", stats.TotalSalary)
	}
	b.WriteString("\n" + rule + "\n\n")

	b.WriteString("DEPARTMENT-WISE EMPLOYEE COUNT\n")
	b.WriteString(sep + "\n")
	for _, line := range departmentCounts(employees) {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + rule + "\n\n")

	b.WriteString("EMPLOYEE LISTING\n")
	b.WriteString(sep + "\n")
	if len(employees) > 0 {
		fmt.Fprintf(&b, "%-5s %-25s %-25s %-15s %-12s %-15s\n",
			"ID", "Name", "Email", "Position", "Salary", "Department")
		b.WriteString(sep + "\n")
		for _, emp := range employees {
			fmt.Fprintf(&b, "%-5d %-25s %-25s %-15s %-12s %-15s\n",
				emp.ID,
				truncate(emp.FirstName+" "+emp.LastName, 25),
				truncate(emp.Email, 25),
				truncate(orNA(emp.Position), 15),
				salaryColumn(emp.Salary),
				truncate(departmentName(&emp), 15),
			)
		}
	} else {
		b.WriteString("No employees found.\n")
	}
	b.WriteString("\n" + rule + "\n\n")

	b.WriteString("DEPARTMENT LISTING\n")
	b.WriteString(sep + "\n")
	if len(departments) > 0 {
		fmt.Fprintf(&b, "%-5s %-30s %-40s\n", "ID", "Name", "Description")
		b.WriteString(sep + "\n")
		for _, dept := range departments {
			fmt.Fprintf(&b, "%-5d %-30s %-40s\n",
				dept.ID,
				truncate(dept.Name, 30),
				truncate(orNA(dept.Description), 40),
			)
		}
	} else {
		b.WriteString("No departments found.\n")
	}

	b.WriteString("\n" + rule + "\n")
	fmt.Fprintf(&b, "Report generated on: %s\n", g.now().Format("2006-01-02 15:04:05"))
	b.WriteString(rule + "\n")

	return b.String(), nil
}

// PDF формирует тот же отчёт в виде PDF-документа
func (g *Generator) PDF(ctx context.Context) ([]byte, error) {
	text, err := g.Text(ctx)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Smart Records System Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Smart Records System Report", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// Тело отчёта набирается моноширинным шрифтом, чтобы сохранились
	// выровненные колонки текстовой версии
	pdf.SetFont("Courier", "", 7)
	for line := range strings.Lines(text) {
		pdf.CellFormat(0, 3.5, strings.TrimRight(line, "\n"), "", 1, "L", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return out.Bytes(), nil
}

// departmentCounts возвращает строки «отдел: N employee(s)»,
// отсортированные по имени отдела
func departmentCounts(employees []domain.Employee) []string {
	counts := make(map[string]int)
	for _, emp := range employees {
		counts[departmentName(&emp)]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%s: %d employee(s)", name, counts[name])
	}
	return lines
}

func departmentName(emp *domain.Employee) string {
	if emp.Department != nil {
		return emp.Department.Name
	}
	return "No Department"
}

func salaryColumn(salary *float64) string {
	if salary == nil || *salary == 0 {
		return "N/A"
	}
	return fmt.Sprintf("$%.2f", *salary)
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
