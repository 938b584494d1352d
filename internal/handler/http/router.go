package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppName            string
	Version            string
	Env                string
	LogLevel           slog.Level
	CORSAllowedOrigins []string
}

// NewRouter wires the API. A nil verifier serves every route without authentication.
func NewRouter(
	cfg RouterConfig,
	verifier *jwt.Verifier,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	holidayHandler HolidayHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	hrOnly := func(r chi.Router) {
		if verifier != nil {
			r.Use(middleware.RequireHR)
		}
	}

	r.Route("/api/v1", func(r chi.Router) {
		if verifier != nil {
			r.Use(jwtauth.Verifier(verifier.JWTAuth()))
			r.Use(middleware.AuthRequired)
		}

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/check-in", attendanceHandler.CheckIn)
			r.Post("/check-out", attendanceHandler.CheckOut)
			r.Get("/{employeeID}", attendanceHandler.GetDay)
			r.Get("/{employeeID}/range", attendanceHandler.ListRange)
		})

		r.Get("/employees/{employeeID}/leave-requests", leaveHandler.ListEmployeeRequests)

		r.Route("/leave-requests", func(r chi.Router) {
			r.Post("/", leaveHandler.CreateRequest)
			r.Post("/evaluate", leaveHandler.Evaluate)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", leaveHandler.GetRequest)
				r.Get("/evaluation", leaveHandler.EvaluateRequest)

				// HR only
				r.Group(func(r chi.Router) {
					hrOnly(r)
					r.Post("/approve", leaveHandler.ApproveRequest)
					r.Post("/reject", leaveHandler.RejectRequest)
				})
			})
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", holidayHandler.List)
			r.Get("/{id}", holidayHandler.Get)

			// HR only
			r.Group(func(r chi.Router) {
				hrOnly(r)
				r.Post("/", holidayHandler.Create)
				r.Put("/{id}", holidayHandler.Update)
				r.Delete("/{id}", holidayHandler.Delete)
			})
		})
	})
	return r
}
