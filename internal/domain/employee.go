package domain

import "time"

// Workday names the day a schedule entry applies to.
type Workday string

const (
	Monday    Workday = "MONDAY"
	Tuesday   Workday = "TUESDAY"
	Wednesday Workday = "WEDNESDAY"
	Thursday  Workday = "THURSDAY"
	Friday    Workday = "FRIDAY"
	Saturday  Workday = "SATURDAY"
	Sunday    Workday = "SUNDAY"
)

// Employee is a cleaner who can be assigned to orders.
type Employee struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Phone     string         `json:"phone"`
	Email     *string        `json:"email,omitempty"`
	Salary    float64        `json:"salary"`
	Schedules []WorkSchedule `json:"schedules"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// WorkSchedule is a weekly working window, times formatted as HH:MM.
type WorkSchedule struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employeeId"`
	Workday       Workday   `json:"workday"`
	WorkStartTime string    `json:"workStartTime"`
	WorkEndTime   string    `json:"workEndTime"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
