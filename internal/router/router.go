package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/employee-management/internal/config"
	"github.com/iliyamo/employee-management/internal/handler"
	"github.com/iliyamo/employee-management/internal/middleware"
)

// Register wires every route.  Registration and login are the only open API
// endpoints; everything else under /api sits behind the JWT middleware and is
// validated per request — no session state exists.  The cache middleware is
// attached only to reads whose payload is shared by all users; per-user
// responses like /users/me must never come out of a shared cache.
func Register(e *echo.Echo, cfg config.Config, cache echo.MiddlewareFunc,
	auth *handler.AuthHandler, emp *handler.EmployeeHandler,
	att *handler.AttendanceHandler, usage *handler.ItemUsageHandler) {

	e.GET("/healthz", handler.Health)

	a := e.Group("/api/auth")
	a.POST("/register", auth.Register)
	a.POST("/login", auth.Login)

	api := e.Group("/api", middleware.JWTAuth(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience))

	api.GET("/users/me", auth.Me)

	api.GET("/employees", emp.List)
	api.GET("/employees/selectlist", emp.SelectList, cache)
	api.GET("/employees/:id", emp.Get)
	api.POST("/employees", emp.Create)
	api.PUT("/employees/:id", emp.Update)
	api.DELETE("/employees/:id", emp.Delete)

	api.GET("/attendance/:year/:month", att.GetMonth)
	api.POST("/attendance", att.SaveMonth)

	api.GET("/item-usage", usage.List)
	api.GET("/item-usage/:id", usage.Get)
	api.POST("/item-usage", usage.Create)
	api.PUT("/item-usage/:id", usage.Update)
	api.DELETE("/item-usage/:id", usage.Delete)
}
