package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/employee-management/internal/model"
)

// ItemUsageRepo reads and writes usage records together with their owned
// detail lines.  Reads are one joined query folded into nested objects;
// writes keep header and details inside a single transaction.
type ItemUsageRepo struct{ DB *sql.DB }

func NewItemUsageRepo(db *sql.DB) *ItemUsageRepo { return &ItemUsageRepo{DB: db} }

const itemUsageSelect = "SELECT r.id, r.employee_id, r.transaction_date, r.created_at, r.updated_at," +
	" e.name, d.id, d.item_name, d.quantity" +
	" FROM item_usage_records r" +
	" INNER JOIN employees e ON e.id = r.employee_id" +
	" LEFT JOIN item_usage_details d ON d.item_usage_record_id = r.id"

// GetAll returns every usage record with its employee name and detail lines.
// A record without details still appears, with an empty item list.
func (r *ItemUsageRepo) GetAll(ctx context.Context) ([]*model.ItemUsageRecord, error) {
	rows, err := r.DB.QueryContext(ctx, itemUsageSelect+" ORDER BY r.id, d.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return foldUsageRows(rows)
}

// GetByID returns one usage record, or nil when the id is unknown.
func (r *ItemUsageRepo) GetByID(ctx context.Context, id uint64) (*model.ItemUsageRecord, error) {
	rows, err := r.DB.QueryContext(ctx, itemUsageSelect+" WHERE r.id = ? ORDER BY d.id", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := foldUsageRows(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// foldUsageRows groups the flat joined rows by record id.  The left join
// yields NULL detail columns for records with no lines, so those columns are
// scanned as nullable and only appended when present.
func foldUsageRows(rows *sql.Rows) ([]*model.ItemUsageRecord, error) {
	byID := make(map[uint64]*model.ItemUsageRecord)
	var ordered []*model.ItemUsageRecord

	for rows.Next() {
		var (
			rec      model.ItemUsageRecord
			detailID sql.NullInt64
			itemName sql.NullString
			quantity sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.TransactionDate, &rec.CreatedAt,
			&rec.UpdatedAt, &rec.EmployeeName, &detailID, &itemName, &quantity); err != nil {
			return nil, err
		}
		current, ok := byID[rec.ID]
		if !ok {
			current = &rec
			current.Items = []model.ItemUsageDetail{}
			byID[rec.ID] = current
			ordered = append(ordered, current)
		}
		if detailID.Valid {
			current.Items = append(current.Items, model.ItemUsageDetail{
				ID:                uint64(detailID.Int64),
				ItemUsageRecordID: current.ID,
				ItemName:          itemName.String,
				Quantity:          int(quantity.Int64),
			})
		}
	}
	return ordered, rows.Err()
}

// Create inserts the header and all detail lines in one transaction and
// returns the generated record id.  A failed detail insert rolls back the
// header too, so no orphaned header can exist.
func (r *ItemUsageRepo) Create(ctx context.Context, rec *model.ItemUsageRecord) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO item_usage_records (employee_id, transaction_date) VALUES (?, ?)",
		rec.EmployeeID, rec.TransactionDate)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := insertDetails(ctx, tx, uint64(id), rec.Items); err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update overwrites the header and replaces the whole detail set in one
// transaction.  When the header matches no row the record is gone; Update
// reports false without touching any details.
func (r *ItemUsageRepo) Update(ctx context.Context, rec *model.ItemUsageRecord) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE item_usage_records SET employee_id = ?, transaction_date = ? WHERE id = ?",
		rec.EmployeeID, rec.TransactionDate, rec.ID)
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}
	if n == 0 {
		_ = tx.Rollback()
		return false, nil
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM item_usage_details WHERE item_usage_record_id = ?", rec.ID); err != nil {
		_ = tx.Rollback()
		return false, err
	}
	if err := insertDetails(ctx, tx, rec.ID, rec.Items); err != nil {
		_ = tx.Rollback()
		return false, err
	}
	return true, tx.Commit()
}

// Delete removes the header row; detail rows go with it via the cascading
// foreign key.  Returns whether a row was actually removed.
func (r *ItemUsageRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM item_usage_records WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func insertDetails(ctx context.Context, tx *sql.Tx, recordID uint64, items []model.ItemUsageDetail) error {
	if len(items) == 0 {
		return nil
	}
	query := "INSERT INTO item_usage_details (item_usage_record_id, item_name, quantity) VALUES "
	args := make([]interface{}, 0, len(items)*3)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, recordID, it.ItemName, it.Quantity)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
