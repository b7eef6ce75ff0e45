package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/hadirly/hadirly-backend-go/internal/config"
	appHTTP "github.com/hadirly/hadirly-backend-go/internal/handler/http"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/clock"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/database"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/jwt"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/sse"
	"github.com/hadirly/hadirly-backend-go/internal/repository/postgresql"
	attendanceService "github.com/hadirly/hadirly-backend-go/internal/service/attendance"
	authService "github.com/hadirly/hadirly-backend-go/internal/service/auth"
	leaveService "github.com/hadirly/hadirly-backend-go/internal/service/leave"
	notificationService "github.com/hadirly/hadirly-backend-go/internal/service/notification"
	otpService "github.com/hadirly/hadirly-backend-go/internal/service/otp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	otpChallengeRepo := postgresql.NewOTPChallengeRepository(db)
	txRunner := postgresql.NewTxRunner(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	systemClock := clock.NewSystem()

	hub := sse.NewHub()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	)
	sink := notificationService.NewSSESink(hub, logger)

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, systemClock, sink)
	ledgerSvc := leaveService.NewLedgerService(leaveBalanceRepo, employeeRepo)
	requestSvc := leaveService.NewRequestService(txRunner, leaveBalanceRepo, leaveRequestRepo, systemClock, sink)
	otpSvc := otpService.NewOTPService(otpChallengeRepo, systemClock, cfg.OTP.TTL, sink)
	authSvc := authService.NewAuthService(employeeRepo, jwtService)

	authHandler := appHTTP.NewAuthHandler(authSvc, jwtService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(ledgerSvc, requestSvc, func() int {
		return systemClock.Today().Year()
	})
	otpHandler := appHTTP.NewOTPHandler(otpSvc)
	notificationHandler := appHTTP.NewNotificationHandler(hub)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:    cfg.App.Name,
			AppEnv:     cfg.App.Env,
			CORSOrigin: cfg.App.CORSOrigin,
		},
		jwtService,
		authHandler,
		attendanceHandler,
		leaveHandler,
		otpHandler,
		notificationHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
