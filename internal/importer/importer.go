package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cleaning-crm/internal/domain"
	employeesvc "cleaning-crm/internal/service/employee"
)

// EmployeeWriter stores one employee with its schedules.
type EmployeeWriter interface {
	Create(ctx context.Context, in employeesvc.Input) (*domain.Employee, error)
}

// CSVImporter reads an employee roster and creates employees with their
// weekly schedules. A row with a name starts an employee; following rows
// without a name add schedule entries to it.
type CSVImporter struct {
	reader    *csv.Reader
	employees EmployeeWriter
}

func NewCSVImporter(r io.Reader, employees EmployeeWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:    csvr,
		employees: employees,
	}
}

type csvRow struct {
	Line      int
	Name      string
	Phone     string
	Email     string
	Salary    string
	Schedules []employeesvc.ScheduleInput
}

// Run parses CSV rows and creates one employee per named row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		row.Line = line

		if row.Name != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (schedules) belong to the current employee.
		if current == nil {
			return imported, fmt.Errorf("line %d: schedule row before any employee", line)
		}
		current.Schedules = append(current.Schedules, row.Schedules...)
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	in := employeesvc.Input{
		Name:      row.Name,
		Phone:     row.Phone,
		Schedules: row.Schedules,
	}
	if row.Email != "" {
		email := row.Email
		in.Email = &email
	}
	if row.Salary != "" {
		salary, err := strconv.ParseFloat(row.Salary, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid salary %q", row.Line, row.Salary)
		}
		in.Salary = salary
	}

	if _, err := i.employees.Create(ctx, in); err != nil {
		return fmt.Errorf("line %d: create employee %q: %w", row.Line, row.Name, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	name := pick(record, index, "name")
	workday := pick(record, index, "schedule.workday")
	if name == "" && workday == "" {
		return nil
	}

	row := &csvRow{
		Name:   name,
		Phone:  pick(record, index, "phone"),
		Email:  pick(record, index, "email"),
		Salary: pick(record, index, "salary"),
	}
	if workday != "" {
		row.Schedules = []employeesvc.ScheduleInput{{
			Workday:       domain.Workday(strings.ToUpper(workday)),
			WorkStartTime: pick(record, index, "schedule.start"),
			WorkEndTime:   pick(record, index, "schedule.end"),
		}}
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
