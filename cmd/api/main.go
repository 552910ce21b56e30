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

	"github.com/chronotrack/attendance-backend-go/internal/config"
	appHTTP "github.com/chronotrack/attendance-backend-go/internal/handler/http"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/cron"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/database"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/jwt"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/sse"
	"github.com/chronotrack/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/chronotrack/attendance-backend-go/internal/service/attendance"
	authService "github.com/chronotrack/attendance-backend-go/internal/service/auth"
	eventService "github.com/chronotrack/attendance-backend-go/internal/service/event"
	qrpassService "github.com/chronotrack/attendance-backend-go/internal/service/qrpass"
	shiftService "github.com/chronotrack/attendance-backend-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeStore := postgresql.NewEmployeeStore(db)
	locationStore := postgresql.NewLocationStore(db)
	shiftStore := postgresql.NewShiftStore(db)
	eventRepo := postgresql.NewEventRepository(db)
	qrPassRepo := postgresql.NewQRPassRepository(db)

	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	hub := sse.NewHub()

	sink := eventService.NewQueuedSink(eventRepo, hub, eventService.Config{
		QueueSize:     cfg.Events.QueueSize,
		BatchSize:     cfg.Events.BatchSize,
		WorkerCount:   cfg.Events.WorkerCount,
		FlushInterval: cfg.Events.FlushInterval,
	})
	defer sink.Stop()

	resolver := shiftService.NewResolver(shiftStore)
	engine := attendanceService.NewAttendanceService(
		attendanceRepo,
		resolver,
		locationStore,
		employeeStore,
		sink,
		attendanceService.Config{
			LateStatusThresholdMinutes:  cfg.Attendance.LateStatusThresholdMinutes,
			LateWarningThresholdMinutes: cfg.Attendance.LateWarningThresholdMinutes,
		},
	)
	authSvc := authService.NewAuthService(employeeStore, jwtSvc)
	qrPassSvc := qrpassService.NewQRPassService(qrPassRepo, locationStore, engine, cfg.Attendance.QRPassTTL)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceRepo, employeeStore, resolver, sink).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.App.AllowedOrigins,
			Env:            cfg.App.Env,
		},
		jwtSvc,
		appHTTP.NewAuthHandler(authSvc, jwtSvc),
		appHTTP.NewAttendanceHandler(engine),
		appHTTP.NewLocationHandler(locationStore),
		appHTTP.NewShiftHandler(shiftStore),
		appHTTP.NewQRPassHandler(qrPassSvc),
		appHTTP.NewEventHandler(sink, hub),
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
}
