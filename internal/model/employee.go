package model

import "time"

// Employee mirrors the employees table.  Status marks the employee as active;
// inactive employees are kept for history but excluded from select lists.
type Employee struct {
	ID        uint64
	Name      string
	Email     string
	Phone     *string
	Status    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployeeSelectItem is the trimmed shape used by dropdowns on the frontend.
type EmployeeSelectItem struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
