package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/careloop/clinic-api/internal/config"
	"github.com/careloop/clinic-api/internal/email"
	appointmentHandler "github.com/careloop/clinic-api/internal/handler/appointment"
	authHandler "github.com/careloop/clinic-api/internal/handler/auth"
	billingHandler "github.com/careloop/clinic-api/internal/handler/billing"
	careteamHandler "github.com/careloop/clinic-api/internal/handler/careteam"
	dashboardHandler "github.com/careloop/clinic-api/internal/handler/dashboard"
	doctorHandler "github.com/careloop/clinic-api/internal/handler/doctor"
	prescriptionHandler "github.com/careloop/clinic-api/internal/handler/prescription"
	recordHandler "github.com/careloop/clinic-api/internal/handler/record"
	referralHandler "github.com/careloop/clinic-api/internal/handler/referral"
	scheduleHandler "github.com/careloop/clinic-api/internal/handler/schedule"
	taskHandler "github.com/careloop/clinic-api/internal/handler/task"
	"github.com/careloop/clinic-api/internal/middleware"
	"github.com/careloop/clinic-api/internal/repository/postgres"
	"github.com/careloop/clinic-api/internal/router"
	appointmentService "github.com/careloop/clinic-api/internal/service/appointment"
	authService "github.com/careloop/clinic-api/internal/service/auth"
	billingService "github.com/careloop/clinic-api/internal/service/billing"
	careteamService "github.com/careloop/clinic-api/internal/service/careteam"
	directoryService "github.com/careloop/clinic-api/internal/service/directory"
	prescriptionService "github.com/careloop/clinic-api/internal/service/prescription"
	recordService "github.com/careloop/clinic-api/internal/service/record"
	referralService "github.com/careloop/clinic-api/internal/service/referral"
	scheduleService "github.com/careloop/clinic-api/internal/service/schedule"
	taskService "github.com/careloop/clinic-api/internal/service/task"
	"github.com/careloop/clinic-api/pkg/auth"
	"github.com/careloop/clinic-api/pkg/logger"
	"github.com/careloop/clinic-api/pkg/messaging"
	redisBroker "github.com/careloop/clinic-api/pkg/messaging/redis"
	"github.com/careloop/clinic-api/pkg/security"
	"github.com/careloop/clinic-api/pkg/validator"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: cfg.Logger.TimeFormat,
		Output:     os.Stdout,
	})

	if err := validator.RegisterCustom(); err != nil {
		log.Fatal(err, "failed to register validation rules")
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	var broker messaging.Broker = messaging.NoopBroker{}
	if cfg.Redis.Enabled {
		rb, err := redisBroker.NewBroker(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal(err, "failed to connect to redis")
		}
		broker = rb
	}
	defer broker.Close()

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryMinutes)*time.Minute, cfg.JWT.Issuer)
	hasher := security.NewBcryptHasher(0)
	mailer := email.NewService(cfg.Email, log)

	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	recordRepo := postgres.NewMedicalRecordRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	billingRepo := postgres.NewBillingRepository(db)
	referralRepo := postgres.NewReferralRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	assignmentRepo := postgres.NewAssignmentRepository(db)

	authSvc := authService.NewService(userRepo, profileRepo, hasher, tokens)
	scheduleSvc := scheduleService.NewService(scheduleRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, scheduleRepo, profileRepo, userRepo, mailer, broker, log)
	careteamSvc := careteamService.NewService(assignmentRepo, profileRepo)
	recordSvc := recordService.NewService(recordRepo, appointmentRepo)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, recordRepo, billingRepo)
	billingSvc := billingService.NewService(billingRepo, prescriptionRepo, appointmentRepo, profileRepo)
	referralSvc := referralService.NewService(referralRepo, appointmentRepo, profileRepo)
	taskSvc := taskService.NewService(taskRepo, userRepo)
	directorySvc := directoryService.NewService(profileRepo, userRepo)

	handlers := router.Handlers{
		Auth:         authHandler.NewHandler(authSvc),
		Appointment:  appointmentHandler.NewHandler(appointmentSvc, careteamSvc),
		Schedule:     scheduleHandler.NewHandler(scheduleSvc),
		Record:       recordHandler.NewHandler(recordSvc, careteamSvc),
		Prescription: prescriptionHandler.NewHandler(prescriptionSvc),
		Billing:      billingHandler.NewHandler(billingSvc),
		Referral:     referralHandler.NewHandler(referralSvc),
		Task:         taskHandler.NewHandler(taskSvc),
		Careteam:     careteamHandler.NewHandler(careteamSvc),
		Doctor:       doctorHandler.NewHandler(directorySvc),
		Dashboard:    dashboardHandler.NewHandler(appointmentSvc, taskSvc, billingSvc, prescriptionSvc, careteamSvc),
	}

	engine := router.New(handlers, middleware.NewAuthMiddleware(tokens), db, router.Config{
		RateLimit: cfg.Server.RateLimit,
		CacheTTL:  5 * time.Minute,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
}
