package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/employee-management/internal/queue"
	"github.com/iliyamo/employee-management/internal/repository"
)

// AttendanceHandler serves the monthly attendance grid.  Publish is optional;
// when wired it fires an attendance.saved event after a successful save and
// its failures are ignored, the save already committed.
type AttendanceHandler struct {
	Repo     *repository.AttendanceRepo
	Validate *validator.Validate
	Publish  func(ctx context.Context, ev queue.AttendanceSavedEvent) error
}

func NewAttendanceHandler(repo *repository.AttendanceRepo) *AttendanceHandler {
	return &AttendanceHandler{Repo: repo, Validate: newValidator()}
}

type monthlyAttendanceResp struct {
	AttendanceData map[uint64]map[int]bool `json:"attendanceData"`
}

type saveAttendanceReq struct {
	Month          string                  `json:"month" validate:"required"`
	AttendanceData map[uint64]map[int]bool `json:"attendanceData"`
}

// GetMonth returns the employee -> day -> present grid for one month.
func (h *AttendanceHandler) GetMonth(c echo.Context) error {
	year, errY := strconv.Atoi(c.Param("year"))
	month, errM := strconv.Atoi(c.Param("month"))
	if errY != nil || errM != nil || month < 1 || month > 12 ||
		year < 1900 || year > time.Now().Year()+5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year or month"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	records, err := h.Repo.GetMonth(ctx, year, month)
	if err != nil {
		c.Logger().Errorf("attendance: fetch %04d-%02d: %v", year, month, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	grid := map[uint64]map[int]bool{}
	for _, rec := range records {
		days, ok := grid[rec.EmployeeID]
		if !ok {
			days = map[int]bool{}
			grid[rec.EmployeeID] = days
		}
		days[rec.AttendanceDate.Day()] = rec.Status
	}
	return c.JSON(http.StatusOK, monthlyAttendanceResp{AttendanceData: grid})
}

// SaveMonth upserts a month's worth of edits in one transaction.  An empty or
// fully-invalid grid still succeeds; "nothing to save" is not a failure.
func (h *AttendanceHandler) SaveMonth(c echo.Context) error {
	var req saveAttendanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrors(err)})
	}
	monthStart, err := time.Parse("2006-01", req.Month)
	if err != nil {
		return c.JSON(http.StatusBadRequest,
			echo.Map{"errors": map[string]string{"month": "must be in YYYY-MM format"}})
	}
	year, month := monthStart.Year(), int(monthStart.Month())

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.SaveMonth(ctx, year, month, req.AttendanceData); err != nil {
		c.Logger().Errorf("attendance: save %s: %v", req.Month, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}

	if h.Publish != nil {
		ev := queue.AttendanceSavedEvent{
			Year:      year,
			Month:     month,
			Employees: len(req.AttendanceData),
			Entries:   countEntries(req.AttendanceData),
			SavedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if userID, ok := c.Get("user_id").(uint64); ok {
			ev.SavedBy = userID
		}
		go func() {
			pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = h.Publish(pctx, ev)
		}()
	}
	return c.NoContent(http.StatusOK)
}

func countEntries(data map[uint64]map[int]bool) int {
	n := 0
	for _, days := range data {
		n += len(days)
	}
	return n
}
