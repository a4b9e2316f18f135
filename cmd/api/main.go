package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/codetrack-dev/codetrack-api/internal/config"
	"github.com/codetrack-dev/codetrack-api/internal/database"
	"github.com/codetrack-dev/codetrack-api/internal/events"
	"github.com/codetrack-dev/codetrack-api/internal/handler"
	"github.com/codetrack-dev/codetrack-api/internal/middleware"
	"github.com/codetrack-dev/codetrack-api/internal/models"
	"github.com/codetrack-dev/codetrack-api/internal/platform"
	"github.com/codetrack-dev/codetrack-api/internal/repository"
	"github.com/codetrack-dev/codetrack-api/internal/router"
	"github.com/codetrack-dev/codetrack-api/internal/scheduler"
	"github.com/codetrack-dev/codetrack-api/internal/service"
	"github.com/codetrack-dev/codetrack-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.PlatformAccount{}, &models.Problem{}, &models.ProblemNote{}, &models.Submission{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, dashboard caching disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var publisher events.Publisher
	if cfg.NATSURL != "" {
		conn, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, sync events disabled")
		} else {
			defer conn.Close()
			publisher = events.NewNATSPublisher(conn, logger)
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewPlatformAccountRepository(db)
	problemRepo := repository.NewProblemRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	noteRepo := repository.NewProblemNoteRepository(db)

	registry := platform.NewRegistry(
		platform.NewCodeforcesClient(cfg.CodeforcesAPIURL, logger),
		platform.NewLeetCodeClient(logger),
		platform.NewHackerRankClient(cfg.HackerRankAPIURL, logger),
	)

	var sourceFetcher platform.SourceFetcher
	if cfg.ScrapeSource {
		sourceFetcher = platform.NewBrowserSourceFetcher(cfg.FetchTimeout, logger)
	}

	var analyzer ai.Analyzer
	if cfg.OpenAIAPIKey != "" {
		openAIAnalyzer, err := ai.NewOpenAIAnalyzer(ai.OpenAIConfig{APIKey: cfg.OpenAIAPIKey, Logger: logger})
		if err != nil {
			logger.Warn().Err(err).Msg("openai unavailable, submission analysis disabled")
		} else {
			analyzer = openAIAnalyzer
		}
	}

	syncService := service.NewSyncService(userRepo, accountRepo, problemRepo, submissionRepo, registry, sourceFetcher, publisher, cfg.FetchLimit, logger)
	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, logger)
	accountService := service.NewAccountService(accountRepo, validate, logger)
	problemService := service.NewProblemService(problemRepo, noteRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, problemRepo, userRepo, analyzer, validate, logger)
	dashboardService := service.NewDashboardService(userRepo, submissionRepo, redisClient, cfg.DashboardCacheTTL, logger)

	syncScheduler := scheduler.New(cfg.SyncSchedule, syncService, userRepo, logger)
	if err := syncScheduler.Start(); err != nil {
		log.Fatalf("failed to start sync scheduler: %v", err)
	}
	defer syncScheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		PlatformHandler:   handler.NewPlatformHandler(accountService, syncService, logger),
		ProblemHandler:    handler.NewProblemHandler(problemService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		DashboardHandler:  handler.NewDashboardHandler(dashboardService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
