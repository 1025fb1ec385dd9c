package main

import (
	"context"
	"log"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/config"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/events"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/handler"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/redis"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/repository"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/server"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/services"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/ws"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/database"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.ApplyMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	redisClient := redis.NewClient(redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	limiterCfg := redis.DefaultRateLimitConfig()
	limiterCfg.BookingLimit = cfg.BookingLimit
	limiterCfg.AuthLimit = cfg.AuthLimit
	limiter := redis.NewRateLimiter(redisClient, limiterCfg)

	// Wiring: repositories -> services -> event subscribers -> HTTP.
	userRepo := repository.NewUserRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	bus := events.NewInMemoryBus(l)

	authService := services.NewAuthService(userRepo, cfg)
	appointmentService := services.NewAppointmentService(appointmentRepo, bus, l)
	notificationService := services.NewNotificationService(notificationRepo, l)

	stopDispatcher := notificationService.Start(bus)

	hub := ws.NewHub()
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	bridge := ws.NewBridge(hub)
	stopBridge := bridge.Start(bus)

	handlers := &server.Handlers{
		Auth:         handler.NewAuthHandler(authService, cfg.CookieSecure),
		Appointment:  handler.NewAppointmentHandler(appointmentService, authService),
		Notification: handler.NewNotificationHandler(notificationService),
		Doctor:       handler.NewDoctorHandler(authService, appointmentService),
		Stream:       ws.NewHandler(authService, hub),
	}

	srv := server.New(cfg, l, db)
	srv.SetupRoutes(handlers, authService, limiter)

	// In-flight event handlers finish before the process exits.
	if err := srv.Start(func() {
		stopBridge()
		stopDispatcher()
		bus.Drain()
		stopHub()
	}); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
