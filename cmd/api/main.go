package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/config"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	appHTTP "github.com/cmlabs-hris/hris-timekeeping/internal/handler/http"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/memory"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-timekeeping/internal/service/attendance"
	holidayService "github.com/cmlabs-hris/hris-timekeeping/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hris-timekeeping/internal/service/leave"
	"github.com/jonboulle/clockwork"
)

type repositories struct {
	attendance   attendance.AttendanceRepository
	leaveRequest leave.LeaveRequestRepository
	holiday      holiday.HolidayRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Validate already resolved both, so errors here are unreachable.
	location, _ := cfg.Location()
	policy, _ := cfg.Policy()
	clock := clockwork.NewRealClock()

	registry := holidayService.NewRegistry(repos.holiday)
	var holidayCalendar leave.HolidayCalendar
	if cfg.Leave.ExcludeHolidays {
		holidayCalendar = registry
	}

	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, clock, location, policy)
	leaveSvc := leaveService.NewLeaveService(repos.leaveRequest, holidayCalendar, clock)

	var verifier *jwt.Verifier
	if cfg.AuthEnabled() {
		verifier = jwt.NewVerifier(cfg.JWT.Secret)
	} else {
		slog.Warn("JWT_SECRET_KEY is not set, API authentication is disabled")
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:            cfg.App.Name,
			Version:            cfg.App.Version,
			Env:                cfg.App.Env,
			LogLevel:           cfg.SlogLevel(),
			CORSAllowedOrigins: cfg.App.CORSAllowedOrigins,
		},
		verifier,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewHolidayHandler(registry),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running",
			"addr", server.Addr,
			"storage", cfg.Storage.Driver,
			"timezone", location.String(),
			"late_threshold", policy.LateThreshold.String(),
			"half_day_hours", policy.HalfDayThreshold,
			"exclude_holidays", cfg.Leave.ExcludeHolidays,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	slog.Info("Server stopped")
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		slog.Warn("Using in-memory storage, data is lost on restart")
		return repositories{
			attendance:   memory.NewAttendanceRepository(),
			leaveRequest: memory.NewLeaveRequestRepository(),
			holiday:      memory.NewHolidayRepository(),
		}, func() {}, nil

	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
		})
		if err != nil {
			return repositories{}, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return repositories{}, nil, err
		}
		return repositories{
			attendance:   postgresql.NewAttendanceRepository(db),
			leaveRequest: postgresql.NewLeaveRequestRepository(db),
			holiday:      postgresql.NewHolidayRepository(db),
		}, db.Close, nil

	default:
		return repositories{}, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
