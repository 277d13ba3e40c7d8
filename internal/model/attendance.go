package model

import "time"

// AttendanceRecord is one employee's presence flag for one calendar day.
// At most one row exists per (EmployeeID, AttendanceDate); the monthly save
// upserts against that key.
type AttendanceRecord struct {
	EmployeeID     uint64
	AttendanceDate time.Time
	Status         bool
}
