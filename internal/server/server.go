package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/config"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/handler"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/middleware"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/redis"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/services"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/transport/httpdto"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/ws"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/database"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/logger"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
	db         *sql.DB
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Appointment  *handler.AppointmentHandler
	Notification *handler.NotificationHandler
	Doctor       *handler.DoctorHandler
	Stream       *ws.Handler
}

func New(cfg *config.Config, l *logger.Logger, db *sql.DB) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
		db:     db,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(s.db); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	authRequired := middleware.AuthMiddleware(authService)

	auth := s.engine.Group("/v1/auth")
	{
		auth.POST("/register", middleware.AuthRateLimitMiddleware(limiter), handlers.Auth.Register)
		auth.POST("/login", middleware.AuthRateLimitMiddleware(limiter), handlers.Auth.Login)
		auth.POST("/logout", authRequired, handlers.Auth.Logout)
		auth.GET("/me", authRequired, handlers.Auth.Me)
	}

	doctors := s.engine.Group("/v1/doctors", authRequired)
	{
		doctors.GET("", handlers.Doctor.List)
		doctors.GET("/:id/slots", handlers.Doctor.Slots)
	}

	appointments := s.engine.Group("/v1/appointments", authRequired)
	{
		appointments.POST("", middleware.BookingRateLimitMiddleware(limiter), handlers.Appointment.Create)
		appointments.GET("", handlers.Appointment.List)
		appointments.GET("/:id", handlers.Appointment.Get)
		appointments.PATCH("/:id", handlers.Appointment.Update)
	}

	notifications := s.engine.Group("/v1/notifications")
	{
		// Stream authenticates via query token inside the handler.
		notifications.GET("/stream", handlers.Stream.Connect)
		notifications.GET("", authRequired, handlers.Notification.List)
		notifications.PATCH("/:id/read", authRequired, handlers.Notification.MarkRead)
		notifications.POST("/read-all", authRequired, handlers.Notification.MarkAllRead)
	}
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
// onShutdown hooks run after the HTTP listener stops accepting requests.
func (s *Server) Start(onShutdown ...func()) error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	for _, hook := range onShutdown {
		hook()
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
