package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/hadirly/hadirly-backend-go/internal/handler/http/middleware"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/jwt"
)

type RouterConfig struct {
	AppName    string
	AppEnv     string
	CORSOrigin string
}

func NewRouter(
	cfg RouterConfig,
	jwtService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	otpHandler OTPHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("env", cfg.AppEnv),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/otp", func(r chi.Router) {
			r.Post("/issue", otpHandler.Issue)
			r.Post("/submit", otpHandler.Submit)
			r.Post("/resend", otpHandler.Resend)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendances", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)
				r.Get("/my", attendanceHandler.GetMyAttendance)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", attendanceHandler.List)
					r.Post("/manual-mark", attendanceHandler.ManualMark)
					r.Post("/bulk-mark", attendanceHandler.BulkMark)
					r.Get("/{id}", attendanceHandler.Get)
					r.Post("/{id}/decide", attendanceHandler.Decide)
					r.Delete("/{id}", attendanceHandler.Delete)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/requests", leaveHandler.Apply)
				r.Get("/requests/my", leaveHandler.GetMyRequests)
				r.Post("/requests/{id}/cancel", leaveHandler.Cancel)
				r.Get("/balances/my", leaveHandler.GetMyBalances)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/requests", leaveHandler.ListRequests)
					r.Get("/requests/{id}", leaveHandler.GetRequest)
					r.Post("/requests/{id}/approve", leaveHandler.Approve)
					r.Post("/requests/{id}/reject", leaveHandler.Reject)
					r.Post("/balances/allocate", leaveHandler.Allocate)
					r.Get("/balances/{employeeID}", leaveHandler.GetBalances)
				})
			})

			r.Get("/notifications/stream", notificationHandler.Stream)
		})
	})

	return r
}
