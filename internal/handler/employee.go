package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/employee-management/internal/model"
	"github.com/iliyamo/employee-management/internal/repository"
)

// EmployeeHandler exposes employee CRUD plus the active-only select list.
type EmployeeHandler struct {
	Employees *repository.EmployeeRepo
	Validate  *validator.Validate
}

func NewEmployeeHandler(employees *repository.EmployeeRepo) *EmployeeHandler {
	return &EmployeeHandler{Employees: employees, Validate: newValidator()}
}

type employeeReq struct {
	Name   string  `json:"name" validate:"required,min=2,max=200"`
	Email  string  `json:"email" validate:"required,email,max=255"`
	Phone  *string `json:"phone" validate:"omitempty,max=50"`
	Status bool    `json:"status"`
}

type employeeResp struct {
	ID     uint64  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  *string `json:"phone"`
	Status bool    `json:"status"`
}

func toEmployeeResp(e *model.Employee) employeeResp {
	return employeeResp{ID: e.ID, Name: e.Name, Email: e.Email, Phone: e.Phone, Status: e.Status}
}

// List returns all employees.
func (h *EmployeeHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	employees, err := h.Employees.GetAll(ctx)
	if err != nil {
		c.Logger().Errorf("employees: list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]employeeResp, 0, len(employees))
	for i := range employees {
		out = append(out, toEmployeeResp(&employees[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one employee or 404.
func (h *EmployeeHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		c.Logger().Errorf("employees: get %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if e == nil {
		return c.NoContent(http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, toEmployeeResp(e))
}

// Create adds an employee.  Email uniqueness is pre-checked so the common
// duplicate case answers a descriptive 409 instead of a bare constraint error.
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req employeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrors(err)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Employees.GetByEmail(ctx, req.Email)
	if err != nil {
		c.Logger().Errorf("employees: email check: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing != nil {
		return c.JSON(http.StatusConflict,
			echo.Map{"error": fmt.Sprintf("employee with email %q already exists", req.Email)})
	}

	e := &model.Employee{Name: req.Name, Email: req.Email, Phone: req.Phone, Status: req.Status}
	id, err := h.Employees.Create(ctx, e)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict,
				echo.Map{"error": fmt.Sprintf("employee with email %q already exists", req.Email)})
		}
		c.Logger().Errorf("employees: create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	e.ID = id

	c.Response().Header().Set("Location", fmt.Sprintf("/api/employees/%d", id))
	return c.JSON(http.StatusCreated, toEmployeeResp(e))
}

// Update replaces an employee's fields in place.
func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	var req employeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrors(err)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	current, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		c.Logger().Errorf("employees: load %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if current == nil {
		return c.NoContent(http.StatusNotFound)
	}

	existing, err := h.Employees.GetByEmail(ctx, req.Email)
	if err != nil {
		c.Logger().Errorf("employees: email check: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing != nil && existing.ID != id {
		return c.JSON(http.StatusConflict,
			echo.Map{"error": fmt.Sprintf("another employee with email %q already exists", req.Email)})
	}

	e := &model.Employee{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone, Status: req.Status}
	ok, err := h.Employees.Update(ctx, e)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict,
				echo.Map{"error": fmt.Sprintf("another employee with email %q already exists", req.Email)})
		}
		c.Logger().Errorf("employees: update %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !ok {
		// Row vanished between the existence check and the update.
		return c.NoContent(http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, toEmployeeResp(e))
}

// Delete removes an employee.  Employees with attendance or usage history are
// protected by RESTRICT foreign keys and answer 409.
func (h *EmployeeHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Employees.Delete(ctx, id)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict,
				echo.Map{"error": "employee has attendance or item usage history"})
		}
		c.Logger().Errorf("employees: delete %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	return c.NoContent(http.StatusNoContent)
}

// SelectList returns id+name pairs for active employees.
func (h *EmployeeHandler) SelectList(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Employees.SelectList(ctx)
	if err != nil {
		c.Logger().Errorf("employees: select list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}
