package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/nirgunrohan/LMS/internal/config"
	"github.com/nirgunrohan/LMS/internal/db"
	transport "github.com/nirgunrohan/LMS/internal/http"
	"github.com/nirgunrohan/LMS/internal/notify"
	"github.com/nirgunrohan/LMS/internal/password"
	"github.com/nirgunrohan/LMS/internal/ratelimit"
	"github.com/nirgunrohan/LMS/internal/repo"
	"github.com/nirgunrohan/LMS/internal/services"
	"github.com/nirgunrohan/LMS/internal/token"
	"github.com/nirgunrohan/LMS/internal/totp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Env)

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbConn, err := db.Connect(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close(context.Background())

	hasher := password.NewHasher(cfg.BcryptCost)

	if err := db.EnsureIndexes(ctx, dbConn.Database, cfg.RequestTimeout); err != nil {
		logger.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}
	if err := db.EnsureAdminUser(ctx, dbConn.Database, hasher, cfg.SeedAdminEmail, cfg.SeedAdminPass, cfg.RequestTimeout); err != nil {
		logger.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}

	userRepo := repo.NewUserRepo(dbConn.Database, cfg.RequestTimeout)
	orderRepo := repo.NewOrderRepo(dbConn.Database, cfg.RequestTimeout)
	complaintRepo := repo.NewComplaintRepo(dbConn.Database, cfg.RequestTimeout)

	tokens := token.NewIssuer(cfg.JWTSecret)
	totpManager := totp.NewManager(totp.Config{Issuer: cfg.TOTPIssuer, Skew: 1})

	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = ratelimit.NewRedisLimiter(client, cfg.AuthRateLimit, cfg.AuthRateWindow)
		logger.Info("using redis rate limiter", "addr", cfg.RedisAddr)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	}

	var notifier notify.Notifier
	if cfg.SMTPAddr != "" {
		notifier = notify.NewSMTPNotifier(cfg.SMTPAddr, cfg.SMTPFrom)
	} else {
		notifier = notify.NewLogNotifier(logger)
	}

	authService := services.NewAuthService(userRepo, hasher, tokens, limiter, notifier, totpManager, services.AuthConfig{
		AppURL:         cfg.AppURL,
		LoginTokenTTL:  cfg.LoginTokenTTL,
		AccessTokenTTL: cfg.AccessTokenTTL,
		RefreshTTL:     cfg.RefreshTTL,
		ResetTTL:       cfg.ResetTTL,
	}, logger)
	orderService := services.NewOrderService(orderRepo, logger)
	complaintService := services.NewComplaintService(complaintRepo, logger)

	router := transport.NewRouter(transport.Dependencies{
		Config:           cfg,
		UserRepo:         userRepo,
		AuthService:      authService,
		OrderService:     orderService,
		ComplaintService: complaintService,
		Tokens:           tokens,
		Logger:           logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.RequestTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErrors:
		logger.Error("http server stopped unexpectedly", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("http server stopped")
}

func newLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env != "prod" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if env == "prod" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
