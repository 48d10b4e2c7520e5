package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jordanlanch/leadflow/config"
	"github.com/jordanlanch/leadflow/pkg/api/handlers"
	"github.com/jordanlanch/leadflow/pkg/cache"
	"github.com/jordanlanch/leadflow/pkg/comments"
	"github.com/jordanlanch/leadflow/pkg/database"
	"github.com/jordanlanch/leadflow/pkg/datasync"
	"github.com/jordanlanch/leadflow/pkg/email"
	"github.com/jordanlanch/leadflow/pkg/export"
	"github.com/jordanlanch/leadflow/pkg/jobs"
	"github.com/jordanlanch/leadflow/pkg/leads"
	"github.com/jordanlanch/leadflow/pkg/logger"
	"github.com/jordanlanch/leadflow/pkg/metrics"
	custommiddleware "github.com/jordanlanch/leadflow/pkg/middleware"
	"github.com/jordanlanch/leadflow/pkg/realtime"
	"github.com/jordanlanch/leadflow/pkg/scoring"
	"github.com/jordanlanch/leadflow/pkg/store"
)

func main() {
	cfg := config.Load()
	appLog := logger.New(cfg.LogLevel)
	appLog.Info("configuration loaded", "environment", cfg.APIEnvironment)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 1.0,
			AttachStacktrace: true,
		})
		if err != nil {
			appLog.Warn("sentry init failed", "error", err)
		} else {
			appLog.Info("sentry initialized", "environment", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Database
	db, err := database.NewClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Redis cache
	redisClient, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	prometheusMetrics := metrics.New()

	// In-memory state and the services around it
	st := store.New(appLog)
	leadService := leads.NewService(st, db, redisClient, prometheusMetrics, appLog)
	gateway := datasync.NewGateway(st, db, redisClient, prometheusMetrics, appLog)
	commentService := comments.NewService(st, gateway, appLog)
	emailService := email.NewService(cfg.EmailFrom, cfg.EmailFromName, cfg.SendGridAPIKey, st, gateway, appLog)
	evaluator := scoring.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, gateway, appLog)
	exportService := export.NewService(leadService)

	// Initial load. A cold database is fine; an unreachable one is not.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := leadService.Load(loadCtx); err != nil {
		cancelLoad()
		log.Fatalf("failed to load initial state: %v", err)
	}
	cancelLoad()
	appLog.Info("initial state loaded")

	// Realtime reconciliation
	listener, err := realtime.New(cfg.DatabaseURL, cfg.RealtimeChannel, appLog)
	if err != nil {
		log.Fatalf("failed to start realtime listener: %v", err)
	}
	defer listener.Close()

	reconciler := datasync.NewReconciler(st, listener, prometheusMetrics, appLog)
	if err := reconciler.Start(context.Background()); err != nil {
		log.Fatalf("failed to start reconciler: %v", err)
	}
	defer reconciler.Stop()

	// Periodic resync safety net
	cronManager := jobs.NewCronManager(leadService, appLog)
	if err := cronManager.SetupJobs(cfg.ResyncSchedule); err != nil {
		log.Fatalf("failed to setup cron jobs: %v", err)
	}
	cronManager.Start()
	defer cronManager.Stop()

	// Echo
	e := echo.New()
	e.HideBanner = true

	globalRateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			appLog.Info("request", "method", c.Request().Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}
	e.Use(prometheusMetrics.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowCredentials: true,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))
	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())
	e.Use(custommiddleware.SecurityHeaders(custommiddleware.SecurityHeadersConfig{}))
	e.Use(globalRateLimiter.Middleware())

	// Health endpoints
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"name":        "Leadflow API",
			"status":      "running",
			"environment": cfg.APIEnvironment,
			"timestamp":   time.Now().Unix(),
		})
	})
	e.GET("/health", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status":   "unhealthy",
				"database": "down",
			})
		}
		if err := redisClient.Redis.Ping(c.Request().Context()).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status": "unhealthy",
				"cache":  "down",
			})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status":   "healthy",
			"database": "up",
			"cache":    "up",
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Handlers
	leadHandler := handlers.NewLeadHandler(leadService, gateway)
	filterHandler := handlers.NewFilterHandler(leadService)
	commentHandler := handlers.NewCommentHandler(commentService, leadService)
	activityHandler := handlers.NewActivityHandler(leadService, gateway, emailService, evaluator)
	exportHandler := handlers.NewExportHandler(exportService, leadService)

	v1 := e.Group("/api/v1")

	leadsGroup := v1.Group("/leads")
	{
		leadsGroup.GET("", leadHandler.ListLeads)
		leadsGroup.POST("", leadHandler.CreateLead)
		leadsGroup.GET("/board", leadHandler.GetBoard)
		leadsGroup.GET("/export", exportHandler.ExportLeads)
		leadsGroup.GET("/:id", leadHandler.GetLead)
		leadsGroup.PUT("/:id", leadHandler.UpdateLead)
		leadsGroup.DELETE("/:id", leadHandler.DeleteLead)

		leadsGroup.GET("/:id/calls", activityHandler.ListPhoneCalls)
		leadsGroup.POST("/:id/calls", activityHandler.CreatePhoneCall)
		leadsGroup.GET("/:id/emails", activityHandler.ListEmails)
		leadsGroup.POST("/:id/emails", activityHandler.CreateEmail)
		leadsGroup.GET("/:id/evaluations", activityHandler.ListEvaluations)
		leadsGroup.POST("/:id/evaluations", activityHandler.CreateEvaluation)
		leadsGroup.GET("/:id/comments", commentHandler.ListComments)
		leadsGroup.POST("/:id/comments", commentHandler.CreateComment)
	}

	v1.POST("/emails/:id/events", activityHandler.ApplyEmailEvent)
	v1.PUT("/comments/:id", commentHandler.UpdateComment)
	v1.DELETE("/comments/:id", commentHandler.DeleteComment)

	filtersGroup := v1.Group("/filters")
	{
		filtersGroup.GET("", filterHandler.GetFilters)
		filtersGroup.PUT("", filterHandler.UpdateFilters)
		filtersGroup.POST("/clear", filterHandler.ClearFilters)
	}

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	appLog.Info("starting server", "address", address,
		"rate_limit_rpm", cfg.RateLimitRequestsPerMinute, "resync_schedule", cfg.ResyncSchedule)

	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	appLog.Info("server stopped")
}
