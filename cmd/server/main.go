package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/454Muscle/DDL-sub000/internal/config"
	"github.com/454Muscle/DDL-sub000/internal/db"
	"github.com/454Muscle/DDL-sub000/internal/handler"
	"github.com/454Muscle/DDL-sub000/internal/middleware"
	"github.com/454Muscle/DDL-sub000/internal/repository"
	"github.com/454Muscle/DDL-sub000/internal/router"
	"github.com/454Muscle/DDL-sub000/internal/service"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "ddl-portal")
	log := middleware.Logger

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := db.InitSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize schema")
	}

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	// Repositories
	submissions := repository.NewSubmissionRepo(pool)
	downloads := repository.NewDownloadRepo(pool)
	rateLimits := repository.NewRateLimitRepo(pool)
	settingsRepo := repository.NewSettingsRepo(pool)
	users := repository.NewUserRepo(pool)
	categories := repository.NewCategoryRepo(pool)

	// Services
	settingsSvc := service.NewSettingsService(settingsRepo, cache)
	captchaSvc := service.NewCaptchaService()
	recaptchaSvc := service.NewRecaptchaService("")
	emailSvc := service.NewEmailService(settingsSvc, "", cfg.ResendAPIKey, cfg.ResendSenderEmail, cfg.FrontendURL)
	submissionSvc := service.NewSubmissionService(submissions, rateLimits, settingsSvc, captchaSvc, recaptchaSvc, emailSvc)
	moderationSvc := service.NewModerationService(submissions, emailSvc)
	catalogSvc := service.NewCatalogService(downloads, settingsSvc, cache)
	authSvc := service.NewAuthService(users, settingsSvc, captchaSvc, recaptchaSvc, emailSvc, cfg.AdminPassword)

	sessions := middleware.NewAdminSessions(middleware.AdminSessionTTL)

	h := &router.Handlers{
		Captcha:    handler.NewCaptchaHandler(captchaSvc, settingsSvc),
		Submission: handler.NewSubmissionHandler(submissionSvc),
		Download:   handler.NewDownloadHandler(catalogSvc, categories),
		Settings:   handler.NewSettingsHandler(settingsSvc, emailSvc),
		Auth:       handler.NewAuthHandler(authSvc),
		Admin:      handler.NewAdminHandler(moderationSvc, catalogSvc, authSvc, categories, sessions),
		Health:     handler.NewHealthHandler(pool, cache.Client()),
	}

	app := fiber.New(fiber.Config{
		AppName:      "DDL Portal API",
		ServerHeader: "DDL-Portal",
	})

	router.Setup(app, h, router.Options{
		CORSOrigins:   cfg.CORSOrigins,
		AdminToken:    cfg.AdminToken,
		AdminSessions: sessions,
	})

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("portal backend starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
