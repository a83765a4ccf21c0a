package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/config"
	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/database"
	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/discord"
	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/handler"
	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/middleware"
	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/repository"
	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/service"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)

	// Channel config store: Postgres when configured, memory otherwise
	var (
		store service.ChannelConfigStore = service.NewMemoryChannelConfigStore()
		db    handler.Pinger
	)
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPool(context.Background(), cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()

		if err := database.RunMigrations(context.Background(), pool, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
		store = repository.NewChannelConfigRepository(pool)
		db = pool
	} else {
		logger.Warn().Msg("DATABASE_URL not set, channel config kept in memory")
	}

	// Discord session
	var session *discordgo.Session
	if cfg.BotToken != "" {
		s, err := discord.NewSession(cfg.BotToken)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create discord session")
		}
		session = s
	}
	api := discord.NewSessionAPI(session, logger)

	// Services
	hub := service.NewWSHub(logger)
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.AdminKey)
	settings := service.NewChannelSettings(store, cfg.GeneralChannels, cfg.HelpChannels, logger)
	moderation := service.NewModerationService(
		service.NewClassifier(),
		service.NewRecentMessageTracker(cfg.TrackerCapacity),
		service.NewEnforcer(api, logger),
		settings,
		api,
		hub,
		cfg.ChannelIDs,
		logger,
	)
	if cfg.ModLogWebhookURL != "" {
		moderation.SetModLog(service.NewModLogWebhook(cfg.ModLogWebhookURL, logger))
	}
	if len(cfg.ChannelIDs) == 0 {
		logger.Warn().Msg("CHANNEL_IDS not set, moderating every visible channel")
	}

	bot := discord.NewBot(session, cfg.ClientID, moderation, settings, hub, logger)

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           30 * time.Second,
		BodyLimit:             64 * 1024,
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	app.Use(recover.New())
	app.Use(middleware.Logger(logger))
	app.Use(cors.New())

	healthH := handler.NewHealthHandler(db, bot)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api1 := app.Group("/api")
	authH := handler.NewAuthHandler(authSvc)
	api1.Post("/auth/token", middleware.RateLimit("auth_token", 10, time.Minute, logger), middleware.AdminKey(authSvc), authH.Token)

	statusH := handler.NewStatusHandler(bot, moderation, hub)
	api1.Get("/status", statusH.Status)
	api1.Post("/restart", middleware.RateLimit("restart", 5, time.Minute, logger), middleware.DashboardAuth(authSvc), statusH.Restart)

	wsH := handler.NewWSHandler(hub, bot, authSvc, logger)
	app.Get("/ws", wsH.Upgrade)

	if err := bot.Start(); err != nil {
		logger.Error().Err(err).Msg("discord bot failed to start")
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("mafia bot running")

	<-quit
	logger.Info().Msg("shutting down")
	bot.Stop()
	_ = app.ShutdownWithTimeout(5 * time.Second)
	hub.Shutdown()
	logger.Info().Msg("server stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if cfg.IsDevelopment() {
		level = zerolog.DebugLevel
	}
	if cfg.LogLevel != "" {
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			level = lvl
		}
	}

	if cfg.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}
