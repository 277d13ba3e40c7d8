package repository

import (
	"context"
	"database/sql"
	"log"
	"sort"
	"time"

	"github.com/iliyamo/employee-management/internal/model"
)

// AttendanceRepo persists the per-employee daily presence matrix.
type AttendanceRepo struct{ DB *sql.DB }

func NewAttendanceRepo(db *sql.DB) *AttendanceRepo { return &AttendanceRepo{DB: db} }

const attendanceMonthQuery = "SELECT employee_id, attendance_date, status FROM attendance_records" +
	" WHERE attendance_date >= ? AND attendance_date < ? ORDER BY employee_id, attendance_date"

// GetMonth returns every attendance record whose date falls inside the given
// calendar month, ordered by employee then date.  No data is not an error.
func (r *AttendanceRepo) GetMonth(ctx context.Context, year, month int) ([]model.AttendanceRecord, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := r.DB.QueryContext(ctx, attendanceMonthQuery, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(&rec.EmployeeID, &rec.AttendanceDate, &rec.Status); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type attendanceCell struct {
	employeeID uint64
	date       time.Time
	status     bool
}

// SaveMonth upserts every submitted (employee, day-of-month) cell for the
// month inside one transaction.  Cells naming a day the month does not have
// (Apr 31) are skipped with a log line; they never fail the call.  Zero valid
// cells after filtering is a successful no-op.  Any database error rolls the
// whole batch back and propagates, so callers never observe a partial month.
func (r *AttendanceRepo) SaveMonth(ctx context.Context, year, month int, data map[uint64]map[int]bool) error {
	var cells []attendanceCell
	for employeeID, days := range data {
		for day, status := range days {
			date, ok := dayInMonth(year, month, day)
			if !ok {
				log.Printf("attendance: skipping invalid date %04d-%02d-%02d for employee %d",
					year, month, day, employeeID)
				continue
			}
			cells = append(cells, attendanceCell{employeeID: employeeID, date: date, status: status})
		}
	}
	// Map iteration order is random; sort for a stable statement shape.
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].employeeID != cells[j].employeeID {
			return cells[i].employeeID < cells[j].employeeID
		}
		return cells[i].date.Before(cells[j].date)
	})

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if len(cells) == 0 {
		return tx.Commit()
	}

	query := "INSERT INTO attendance_records (employee_id, attendance_date, status) VALUES "
	args := make([]interface{}, 0, len(cells)*3)
	for i, c := range cells {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, c.employeeID, c.date, c.status)
	}
	query += " ON DUPLICATE KEY UPDATE status = VALUES(status), updated_at = CURRENT_TIMESTAMP"

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// dayInMonth builds the date for a day-of-month cell and reports whether the
// month actually has that day.  time.Date normalizes overflow (Apr 31 becomes
// May 1), which is how out-of-range days are detected.
func dayInMonth(year, month, day int) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}
