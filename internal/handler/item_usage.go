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

// ItemUsageHandler serves usage records together with their line items.
// It also holds the employee repo: create/update verify that the referenced
// employee exists before any write happens.
type ItemUsageHandler struct {
	Usage     *repository.ItemUsageRepo
	Employees *repository.EmployeeRepo
	Validate  *validator.Validate
}

func NewItemUsageHandler(usage *repository.ItemUsageRepo, employees *repository.EmployeeRepo) *ItemUsageHandler {
	return &ItemUsageHandler{Usage: usage, Employees: employees, Validate: newValidator()}
}

type itemDetailDto struct {
	ItemName string `json:"itemName" validate:"required,max=255"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type itemUsageReq struct {
	EmployeeID      uint64          `json:"employeeId" validate:"required"`
	TransactionDate string          `json:"transactionDate" validate:"required"`
	Items           []itemDetailDto `json:"items" validate:"required,min=1,dive"`
}

type itemUsageResp struct {
	ID              uint64          `json:"id"`
	EmployeeID      uint64          `json:"employeeId"`
	EmployeeName    string          `json:"employeeName"`
	TransactionDate string          `json:"transactionDate"`
	Items           []itemDetailDto `json:"items"`
}

func toItemUsageResp(rec *model.ItemUsageRecord) itemUsageResp {
	items := make([]itemDetailDto, 0, len(rec.Items))
	for _, it := range rec.Items {
		items = append(items, itemDetailDto{ItemName: it.ItemName, Quantity: it.Quantity})
	}
	return itemUsageResp{
		ID:              rec.ID,
		EmployeeID:      rec.EmployeeID,
		EmployeeName:    rec.EmployeeName,
		TransactionDate: rec.TransactionDate.Format("2006-01-02"),
		Items:           items,
	}
}

// parseUsageReq validates the DTO and resolves its transaction date.  When
// validation fails it writes the 400 response itself and reports ok=false;
// the caller just returns the error it gets back.
func (h *ItemUsageHandler) parseUsageReq(c echo.Context, req *itemUsageReq) (time.Time, bool, error) {
	if err := h.Validate.Struct(req); err != nil {
		return time.Time{}, false, c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrors(err)})
	}
	date, err := time.Parse("2006-01-02", req.TransactionDate)
	if err != nil {
		return time.Time{}, false, c.JSON(http.StatusBadRequest,
			echo.Map{"errors": map[string]string{"transactionDate": "must be in YYYY-MM-DD format"}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	emp, lookupErr := h.Employees.GetByID(ctx, req.EmployeeID)
	if lookupErr != nil {
		c.Logger().Errorf("item-usage: employee check: %v", lookupErr)
		return time.Time{}, false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if emp == nil {
		return time.Time{}, false, c.JSON(http.StatusBadRequest, echo.Map{"errors": map[string]string{
			"employeeId": fmt.Sprintf("employee with id %d not found", req.EmployeeID),
		}})
	}
	return date, true, nil
}

func toUsageModel(id uint64, req *itemUsageReq, date time.Time) *model.ItemUsageRecord {
	items := make([]model.ItemUsageDetail, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.ItemUsageDetail{ItemName: it.ItemName, Quantity: it.Quantity})
	}
	return &model.ItemUsageRecord{ID: id, EmployeeID: req.EmployeeID, TransactionDate: date, Items: items}
}

// List returns every usage record with employee names and items attached.
func (h *ItemUsageHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	records, err := h.Usage.GetAll(ctx)
	if err != nil {
		c.Logger().Errorf("item-usage: list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]itemUsageResp, 0, len(records))
	for _, rec := range records {
		out = append(out, toItemUsageResp(rec))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one usage record or 404.
func (h *ItemUsageHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec, err := h.Usage.GetByID(ctx, id)
	if err != nil {
		c.Logger().Errorf("item-usage: get %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if rec == nil {
		return c.NoContent(http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, toItemUsageResp(rec))
}

// Create stores a record and its items atomically, then responds with the
// stored record as the database sees it.
func (h *ItemUsageHandler) Create(c echo.Context) error {
	var req itemUsageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, ok, resp := h.parseUsageReq(c, &req)
	if !ok {
		return resp
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Usage.Create(ctx, toUsageModel(0, &req, date))
	if err != nil {
		c.Logger().Errorf("item-usage: create for employee %d: %v", req.EmployeeID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}

	created, err := h.Usage.GetByID(ctx, id)
	if err != nil || created == nil {
		c.Logger().Errorf("item-usage: read back %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	c.Response().Header().Set("Location", fmt.Sprintf("/api/item-usage/%d", id))
	return c.JSON(http.StatusCreated, toItemUsageResp(created))
}

// Update replaces the header fields and the entire item set.
func (h *ItemUsageHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	var req itemUsageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, ok, resp := h.parseUsageReq(c, &req)
	if !ok {
		return resp
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Usage.GetByID(ctx, id)
	if err != nil {
		c.Logger().Errorf("item-usage: load %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing == nil {
		return c.NoContent(http.StatusNotFound)
	}

	updated, err := h.Usage.Update(ctx, toUsageModel(id, &req, date))
	if err != nil {
		c.Logger().Errorf("item-usage: update %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !updated {
		// Row vanished between the existence check and the update.
		return c.NoContent(http.StatusNotFound)
	}

	rec, err := h.Usage.GetByID(ctx, id)
	if err != nil || rec == nil {
		c.Logger().Errorf("item-usage: read back %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toItemUsageResp(rec))
}

// Delete removes a record; the cascade takes its items with it.
func (h *ItemUsageHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Usage.Delete(ctx, id)
	if err != nil {
		c.Logger().Errorf("item-usage: delete %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	return c.NoContent(http.StatusNoContent)
}
