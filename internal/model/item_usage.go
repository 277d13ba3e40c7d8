package model

import "time"

// ItemUsageRecord is the header of a usage transaction.  EmployeeName is not
// a column of the records table; the joined read fills it from employees.
type ItemUsageRecord struct {
	ID              uint64
	EmployeeID      uint64
	EmployeeName    string
	TransactionDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []ItemUsageDetail
}

// ItemUsageDetail is one line item owned by exactly one record.  Rows are
// cascade-deleted with their parent and fully replaced on update.
type ItemUsageDetail struct {
	ID                uint64
	ItemUsageRecordID uint64
	ItemName          string
	Quantity          int
}
