package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/employee-management/internal/config"
	"github.com/iliyamo/employee-management/internal/database"
	"github.com/iliyamo/employee-management/internal/handler"
	"github.com/iliyamo/employee-management/internal/middleware"
	"github.com/iliyamo/employee-management/internal/queue"
	"github.com/iliyamo/employee-management/internal/repository"
	"github.com/iliyamo/employee-management/internal/router"
	queue_publisher "github.com/iliyamo/employee-management/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("ensure schema: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response caching and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	employees := repository.NewEmployeeRepo(db)
	attendance := repository.NewAttendanceRepo(db)
	usage := repository.NewItemUsageRepo(db)

	auth := handler.NewAuthHandler(cfg, users)
	emp := handler.NewEmployeeHandler(employees)
	att := handler.NewAttendanceHandler(attendance)
	att.Publish = queue_publisher.PublishAttendanceSaved
	usg := handler.NewItemUsageHandler(usage, employees)

	// Audit consumer; reconnects on its own and never stops the server.
	go func() {
		if err := queue.StartAttendanceConsumer(); err != nil {
			log.Printf("attendance consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.Register(e, cfg, cache, auth, emp, att, usg)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
