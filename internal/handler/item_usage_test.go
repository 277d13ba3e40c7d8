package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/employee-management/internal/repository"
)

const (
	employeeByIDSQL = "SELECT id, name, email, phone, status, created_at, updated_at FROM employees WHERE id = ?"
	usageByIDSQL    = "SELECT r.id, r.employee_id, r.transaction_date, r.created_at, r.updated_at," +
		" e.name, d.id, d.item_name, d.quantity" +
		" FROM item_usage_records r" +
		" INNER JOIN employees e ON e.id = r.employee_id" +
		" LEFT JOIN item_usage_details d ON d.item_usage_record_id = r.id" +
		" WHERE r.id = ? ORDER BY d.id"
)

var usageCols = []string{
	"id", "employee_id", "transaction_date", "created_at", "updated_at",
	"name", "d_id", "item_name", "quantity",
}

func newUsageHandler(t *testing.T) (*ItemUsageHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewItemUsageHandler(repository.NewItemUsageRepo(db), repository.NewEmployeeRepo(db)), mock
}

func TestCreateUsageRejectsEmptyItemList(t *testing.T) {
	h, mock := newUsageHandler(t)

	c, rec := newJSONContext(http.MethodPost, "/api/item-usage",
		`{"employeeId":3,"transactionDate":"2025-04-10","items":[]}`)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body fieldErrorsResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "items")
	// Validation failure must not touch the database at all.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUsageRejectsBadTransactionDate(t *testing.T) {
	h, mock := newUsageHandler(t)

	c, rec := newJSONContext(http.MethodPost, "/api/item-usage",
		`{"employeeId":3,"transactionDate":"10/04/2025","items":[{"itemName":"Stapler","quantity":1}]}`)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body fieldErrorsResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "transactionDate")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUsageRejectsUnknownEmployee(t *testing.T) {
	h, mock := newUsageHandler(t)

	employeeCols := []string{"id", "name", "email", "phone", "status", "created_at", "updated_at"}
	mock.ExpectQuery(employeeByIDSQL).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(employeeCols))

	c, rec := newJSONContext(http.MethodPost, "/api/item-usage",
		`{"employeeId":99,"transactionDate":"2025-04-10","items":[{"itemName":"Stapler","quantity":1}]}`)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body fieldErrorsResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "employeeId")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUsageWritesAndReadsBack(t *testing.T) {
	h, mock := newUsageHandler(t)

	now := time.Now().UTC()
	txDate := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	employeeCols := []string{"id", "name", "email", "phone", "status", "created_at", "updated_at"}

	mock.ExpectQuery(employeeByIDSQL).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(employeeCols).
			AddRow(3, "Dana Cohen", "dana@example.com", nil, true, now, now))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO item_usage_records (employee_id, transaction_date) VALUES (?, ?)").
		WithArgs(int64(3), txDate).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("INSERT INTO item_usage_details (item_usage_record_id, item_name, quantity) VALUES (?, ?, ?),(?, ?, ?)").
		WithArgs(int64(10), "Stapler", 1, int64(10), "Paper A4", 5).
		WillReturnResult(sqlmock.NewResult(11, 2))
	mock.ExpectCommit()

	mock.ExpectQuery(usageByIDSQL).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(usageCols).
			AddRow(10, 3, txDate, now, now, "Dana Cohen", 11, "Stapler", 1).
			AddRow(10, 3, txDate, now, now, "Dana Cohen", 12, "Paper A4", 5))

	c, rec := newJSONContext(http.MethodPost, "/api/item-usage",
		`{"employeeId":3,"transactionDate":"2025-04-10","items":[{"itemName":"Stapler","quantity":1},{"itemName":"Paper A4","quantity":5}]}`)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/item-usage/10", rec.Header().Get("Location"))

	var body struct {
		ID              uint64 `json:"id"`
		EmployeeID      uint64 `json:"employeeId"`
		EmployeeName    string `json:"employeeName"`
		TransactionDate string `json:"transactionDate"`
		Items           []struct {
			ItemName string `json:"itemName"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint64(10), body.ID)
	assert.Equal(t, "Dana Cohen", body.EmployeeName)
	assert.Equal(t, "2025-04-10", body.TransactionDate)
	require.Len(t, body.Items, 2)
	assert.Equal(t, "Stapler", body.Items[0].ItemName)
	assert.Equal(t, 5, body.Items[1].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUsageNotFound(t *testing.T) {
	h, mock := newUsageHandler(t)

	mock.ExpectQuery(usageByIDSQL).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(usageCols))

	c, rec := newJSONContext(http.MethodGet, "/api/item-usage/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")

	assert.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUsageNotFound(t *testing.T) {
	h, mock := newUsageHandler(t)

	mock.ExpectExec("DELETE FROM item_usage_records WHERE id = ?").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := newJSONContext(http.MethodDelete, "/api/item-usage/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")

	assert.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
