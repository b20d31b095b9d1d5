package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/kma-contact-api/internal/config"
	"github.com/noah-isme/kma-contact-api/internal/database"
	"github.com/noah-isme/kma-contact-api/internal/handler"
	"github.com/noah-isme/kma-contact-api/internal/middleware"
	"github.com/noah-isme/kma-contact-api/internal/repository"
	"github.com/noah-isme/kma-contact-api/internal/router"
	"github.com/noah-isme/kma-contact-api/internal/service"
	"github.com/noah-isme/kma-contact-api/pkg/mailer"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		logger = logger.Level(level)
	}
	logger = logger.With().Str("service", cfg.AppName).Str("env", cfg.AppEnv).Logger()

	ctx := context.Background()

	// Every backing service is optional: the API keeps accepting submissions without them.
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.ConnectDocumentStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn().Err(err).Msg("document store unavailable, submissions will not be persisted")
			db = nil
		}
	}
	documents := repository.NewDocumentRepository(db, cfg.DatabaseName)

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, rate limits kept in memory")
			redisClient = nil
		}
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, submission events disabled")
			natsConn = nil
		}
	}

	mail := mailer.New(mailer.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.User,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		FromName: cfg.Mail.SenderName,
	}, logger)
	if !mail.Configured() {
		logger.Info().Msg("smtp not configured, confirmation emails disabled")
	}

	notifier := service.NewMailContactNotifier(mail, service.ConfirmationTemplate{
		Brand:      cfg.Mail.SenderName,
		BookingURL: cfg.Contact.BookingURL,
	}, logger)
	events := service.NewNATSContactPublisher(natsConn, cfg.NATSSubject)

	contactService := service.NewContactService(documents, service.NewValidator(), notifier, events, logger)
	diagnosticsService := service.NewDiagnosticsService(documents, service.DiagnosticsConfig{
		DatabaseURLSet: cfg.DatabaseURL != "",
		DatabaseName:   cfg.DatabaseName,
	}, logger)

	var limiterStorage fiber.Storage
	if redisClient != nil {
		limiterStorage = database.NewRedisStorage(redisClient, "kma:ratelimit:")
	}

	app := fiber.New(fiber.Config{
		AppName:                 cfg.AppName,
		ServerHeader:            cfg.AppName,
		ReadTimeout:             15 * time.Second,
		WriteTimeout:            30 * time.Second,
		ProxyHeader:             cfg.ProxyHeader,
		EnableIPValidation:      cfg.ProxyHeader != "",
		EnableTrustedProxyCheck: len(cfg.TrustedProxies) > 0,
		TrustedProxies:          cfg.TrustedProxies,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
		AccessLog:    cfg.AppEnv == "development",
	})
	router.Register(app, cfg, router.Dependencies{
		ContactHandler:     handler.NewContactHandler(contactService, logger),
		DiagnosticsHandler: handler.NewDiagnosticsHandler(diagnosticsService),
		ContactRateLimit:   middleware.RateLimit("contact", cfg.Contact.RateLimit, cfg.Contact.RateWindow, limiterStorage),
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Msg("http server listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)

	if natsConn != nil {
		if err := natsConn.Drain(); err != nil {
			logger.Warn().Err(err).Msg("failed to drain nats connection")
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}
	if err := documents.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close document store")
	}

	logger.Info().Msg("server stopped")
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
