package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/employee-management/internal/repository"
)

const employeeByEmailSQL = "SELECT id, name, email, phone, status, created_at, updated_at FROM employees WHERE email = ?"

var employeeCols = []string{"id", "name", "email", "phone", "status", "created_at", "updated_at"}

func newEmployeeHandler(t *testing.T) (*EmployeeHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewEmployeeHandler(repository.NewEmployeeRepo(db)), mock
}

func TestCreateEmployeeValidatesTheBody(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	c, rec := newJSONContext(http.MethodPost, "/api/employees", `{"name":"D","email":"nope"}`)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body fieldErrorsResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "name")
	assert.Contains(t, body.Errors, "email")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEmployeeDuplicateEmailAnswers409(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	now := time.Now().UTC()
	mock.ExpectQuery(employeeByEmailSQL).
		WithArgs("dana@example.com").
		WillReturnRows(sqlmock.NewRows(employeeCols).
			AddRow(5, "Dana Cohen", "dana@example.com", nil, true, now, now))

	c, rec := newJSONContext(http.MethodPost, "/api/employees",
		`{"name":"Dana Cohen","email":"dana@example.com","status":true}`)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEmployeeReturns201WithLocation(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	mock.ExpectQuery(employeeByEmailSQL).
		WithArgs("dana@example.com").
		WillReturnRows(sqlmock.NewRows(employeeCols))
	mock.ExpectExec("INSERT INTO employees (name, email, phone, status) VALUES (?, ?, ?, ?)").
		WithArgs("Dana Cohen", "dana@example.com", nil, true).
		WillReturnResult(sqlmock.NewResult(5, 1))

	c, rec := newJSONContext(http.MethodPost, "/api/employees",
		`{"name":"Dana Cohen","email":"dana@example.com","status":true}`)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/employees/5", rec.Header().Get("Location"))

	var body struct {
		ID     uint64 `json:"id"`
		Name   string `json:"name"`
		Status bool   `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint64(5), body.ID)
	assert.Equal(t, "Dana Cohen", body.Name)
	assert.True(t, body.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEmployeeBadIDIs404(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	c, rec := newJSONContext(http.MethodGet, "/api/employees/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	assert.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmployeeTakenEmailAnswers409(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, name, email, phone, status, created_at, updated_at FROM employees WHERE id = ?").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(employeeCols).
			AddRow(5, "Dana Cohen", "dana@example.com", nil, true, now, now))
	// The requested email belongs to a different employee.
	mock.ExpectQuery(employeeByEmailSQL).
		WithArgs("avi@example.com").
		WillReturnRows(sqlmock.NewRows(employeeCols).
			AddRow(3, "Avi Levi", "avi@example.com", nil, true, now, now))

	c, rec := newJSONContext(http.MethodPut, "/api/employees/5",
		`{"name":"Dana Cohen","email":"avi@example.com","status":true}`)
	c.SetParamNames("id")
	c.SetParamValues("5")

	assert.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEmployeeWithHistoryAnswers409(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	mock.ExpectExec("DELETE FROM employees WHERE id = ?").
		WithArgs(int64(5)).
		WillReturnError(errors.New("Error 1451 (23000): Cannot delete or update a parent row: a foreign key constraint fails"))

	c, rec := newJSONContext(http.MethodDelete, "/api/employees/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")

	assert.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "employee has attendance or item usage history", body.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEmployeeSucceedsWith204(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	mock.ExpectExec("DELETE FROM employees WHERE id = ?").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := newJSONContext(http.MethodDelete, "/api/employees/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")

	assert.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectListReturnsIDNamePairs(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	mock.ExpectQuery("SELECT id, name FROM employees WHERE status = TRUE ORDER BY name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(3, "Avi Levi").
			AddRow(5, "Dana Cohen"))

	c, rec := newJSONContext(http.MethodGet, "/api/employees/selectlist", "")

	assert.NoError(t, h.SelectList(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body []struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "Avi Levi", body[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
