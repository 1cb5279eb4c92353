package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/auctusventures/site/internal/config"
	"github.com/auctusventures/site/internal/db"
	"github.com/auctusventures/site/internal/handler"
	"github.com/auctusventures/site/internal/logging"
	"github.com/auctusventures/site/internal/router"
	"github.com/auctusventures/site/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if _, err := config.LoadDotEnv(""); err != nil {
		log.Fatalf("failed to load env file: %v", err)
	}
	cfg := config.Load()

	logger, err := logging.New(cfg.Development(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.AppConfig, logger *zap.Logger) error {
	gin.SetMode(cfg.GinMode)

	// 数据库仅作审计记录，连接失败时降级为不持久化
	var recorder service.SubmissionRecorder
	var gdb *gorm.DB
	if cfg.PersistenceEnabled() {
		opened, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to initialize database client; submissions will not be persisted", zap.Error(err))
		} else {
			gdb = opened
			recorder = db.NewContactSubmissionStore(gdb)
		}
	}
	defer db.Close(gdb)

	notifier, err := service.NewResendNotifier(service.ResendNotifierConfig{
		APIKey:  cfg.ResendAPIKey,
		BaseURL: cfg.ResendBaseURL,
		From:    cfg.ResendFrom,
		To:      cfg.ResendTo,
	})
	if err != nil {
		return err
	}
	if cfg.ResendAPIKey == "" {
		logger.Warn("RESEND_API_KEY is not set; notification emails will fail")
	}

	if cfg.SessionSecret == config.DefaultSessionSecret && !cfg.Development() {
		logger.Warn("SESSION_SECRET is not set; using the development default")
	}

	if cfg.SecureCookies {
		logger.Info("session cookies are marked Secure; the confirmation page needs HTTPS in front of this server")
	}

	renderer := service.NewNotificationRenderer(cfg.NotifyTimezone)
	contacts := service.NewContactService(recorder, notifier, renderer, logger)
	api := handler.NewAPI(contacts, handler.Options{
		Development:   cfg.Development(),
		FallbackEmail: cfg.ResendTo,
		Logger:        logger,
	})

	r, err := router.SetupRouter(router.Config{
		API:           api,
		SessionSecret: cfg.SessionSecret,
		SecureCookies: cfg.SecureCookies,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("environment", cfg.Environment),
			zap.Bool("persistence", recorder != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
