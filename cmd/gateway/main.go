package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/application/services"
	"github.com/DanielPopoola/telebirr-checkout/internal/config"
	"github.com/DanielPopoola/telebirr-checkout/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/telebirr-checkout/internal/infrastructure/redisstore"
	"github.com/DanielPopoola/telebirr-checkout/internal/infrastructure/telebirr"
	"github.com/DanielPopoola/telebirr-checkout/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/telebirr-checkout/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/telebirr-checkout/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting checkout service",
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	signer, err := newSigner(&cfg.Telebirr)
	if err != nil {
		logger.Error("failed to load signing key", "error", err)
		os.Exit(1)
	}

	validator, err := telebirr.NewResponseValidator()
	if err != nil {
		logger.Error("failed to load gateway response schemas", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := redisstore.Connect(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	attemptRepo := postgres.NewAttemptRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	txManager := postgres.NewTransactionCoordinator(db)

	tokenCache := redisstore.NewTokenCache(rdb)
	locker := redisstore.NewLocker(rdb)
	publisher := redisstore.NewPublisher(rdb, cfg.Redis.UpdateChannel)

	gatewayClient := telebirr.NewClient(cfg.Telebirr, signer, validator)
	retryGatewayClient := telebirr.NewRetryClient(gatewayClient, cfg.Retry)

	tokens := services.NewTokenProvider(retryGatewayClient, tokenCache, cfg.Telebirr.TokenTTL, logger)
	checkoutService := services.NewCheckoutService(attemptRepo, cartRepo, retryGatewayClient, tokens, cfg.Telebirr, logger)
	authTokenService := services.NewAuthTokenService(retryGatewayClient, tokens, logger)
	notifyService := services.NewNotifyService(
		telebirr.NewWebhookVerifier(cfg.Telebirr.AppKey),
		txManager,
		locker,
		publisher,
		cfg.Redis.LockTTL,
		logger,
	)
	queryService := services.NewQueryService(attemptRepo, orderRepo)

	h := handlers.NewHandlers(
		checkoutService,
		authTokenService,
		notifyService,
		queryService,
		logger,
		db,
		handlers.HealthFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	)

	auth := middleware.NewJWTAuth(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, auth.Middleware)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	handler := middleware.Chain(mux,
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.Timeout(cfg.Server.WriteTimeout),
		rateLimiter.Middleware,
	)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	expirationWorker := worker.NewExpirationWorker(
		attemptRepo,
		txManager,
		publisher,
		cfg.Worker.Interval,
		cfg.Worker.BatchSize,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go expirationWorker.Start(workerCtx)
	go rateLimiter.Run(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// newSigner loads the merchant key. A bad key is a startup failure.
func newSigner(cfg *config.TelebirrConfig) (*telebirr.Signer, error) {
	keyPEM, err := cfg.PrivateKeyPEM()
	if err != nil {
		return nil, application.NewConfigurationError(err)
	}
	signer, err := telebirr.NewSigner(keyPEM)
	if err != nil {
		return nil, application.NewConfigurationError(&config.ConfigurationError{
			Field:  "Config.Telebirr.PrivateKey",
			Reason: "not a usable RSA private key",
			Err:    err,
		})
	}
	return signer, nil
}
