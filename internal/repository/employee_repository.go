package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/employee-management/internal/model"
)

type EmployeeRepo struct{ DB *sql.DB }

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{DB: db} }

const employeeSelect = "SELECT id, name, email, phone, status, created_at, updated_at FROM employees"

// GetAll returns every employee ordered by name.
func (r *EmployeeRepo) GetAll(ctx context.Context) ([]model.Employee, error) {
	rows, err := r.DB.QueryContext(ctx, employeeSelect+" ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// GetByID fetches one employee, returning nil when the id is unknown.
func (r *EmployeeRepo) GetByID(ctx context.Context, id uint64) (*model.Employee, error) {
	e, err := scanEmployee(r.DB.QueryRowContext(ctx, employeeSelect+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByEmail fetches one employee by normalized email, nil when absent.
// Handlers use it to pre-check uniqueness before create and update.
func (r *EmployeeRepo) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	e, err := scanEmployee(r.DB.QueryRowContext(ctx, employeeSelect+" WHERE email = ?", email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts the employee and returns its generated ID.
func (r *EmployeeRepo) Create(ctx context.Context, e *model.Employee) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO employees (name, email, phone, status) VALUES (?, ?, ?, ?)",
		e.Name, strings.ToLower(strings.TrimSpace(e.Email)), e.Phone, e.Status)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update overwrites the employee row in place. Returns false when no row
// matched the id.
func (r *EmployeeRepo) Update(ctx context.Context, e *model.Employee) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE employees SET name = ?, email = ?, phone = ?, status = ? WHERE id = ?",
		e.Name, strings.ToLower(strings.TrimSpace(e.Email)), e.Phone, e.Status, e.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return false, ErrConflict
		}
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete hard-deletes the employee. Attendance and item-usage rows hold
// RESTRICT references, so deleting an employee with history fails with
// ErrConflict instead of cascading.
func (r *EmployeeRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		if isRestricted(err) {
			return false, ErrConflict
		}
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SelectList returns id+name pairs for active employees, ordered by name.
func (r *EmployeeRepo) SelectList(ctx context.Context) ([]model.EmployeeSelectItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name FROM employees WHERE status = TRUE ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.EmployeeSelectItem{}
	for rows.Next() {
		var it model.EmployeeSelectItem
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanEmployee(row rowScanner) (model.Employee, error) {
	var (
		e     model.Employee
		phone sql.NullString
	)
	err := row.Scan(&e.ID, &e.Name, &e.Email, &phone, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return model.Employee{}, err
	}
	if phone.Valid {
		p := phone.String
		e.Phone = &p
	}
	return e, nil
}
