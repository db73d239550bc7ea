package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"eatrite-api/internal/config"
	apihttp "eatrite-api/internal/http"
	"eatrite-api/internal/repository"
	"eatrite-api/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	devAccount, err := service.DevAccount(cfg.BcryptCost)
	if err != nil {
		logger.Fatal("dev account", zap.Error(err))
	}
	backend, err := repository.OpenBackend(ctx, cfg, logger, devAccount)
	if err != nil {
		logger.Fatal("backend selection", zap.Error(err))
	}
	defer backend.Close()
	logger.Info("storage backend selected", zap.String("backend", string(backend.Kind)))

	loginLimiter, closeLimiter := newLoginLimiter(ctx, cfg, logger)
	defer closeLimiter()

	var archive service.ScanArchive
	if cfg.S3Bucket != "" {
		s3Archive, err := service.NewS3ScanArchive(ctx, cfg)
		if err != nil {
			logger.Warn("s3 scan archive init failed", zap.Error(err))
		} else {
			archive = s3Archive
		}
	}

	jwtSvc, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL())
	if err != nil {
		logger.Fatal("jwt service", zap.Error(err))
	}

	credSvc := service.NewCredentialService(logger, backend.Users, loginLimiter, cfg.BcryptCost)
	prefsSvc := service.NewPreferencesService(logger, backend.Preferences)
	scanSvc := service.NewScanService(logger, prefsSvc, archive)

	authz := apihttp.NewAuthorizer(logger, jwtSvc, credSvc)
	router := apihttp.NewRouter(
		logger,
		apihttp.RouterOptions{APIPrefix: cfg.APIPrefix, CORSOrigins: cfg.CORSOrigins},
		authz,
		apihttp.NewAuthHandler(logger, credSvc, jwtSvc),
		apihttp.NewPreferencesHandler(logger, prefsSvc),
		apihttp.NewScanHandler(logger, scanSvc),
		apihttp.NewHealthHandler(cfg.AppName, cfg.AppVersion, string(backend.Kind)),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

// newLoginLimiter devuelve nil si LOGIN_MAX_ATTEMPTS es 0. Con REDIS_ADDR el
// contador se comparte en Redis; si no responde se usa el de memoria.
func newLoginLimiter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.LoginRateLimiter, func()) {
	if cfg.LoginMaxAttempts <= 0 {
		return nil, func() {}
	}
	memory := service.NewLoginRateLimiter(cfg.LoginAttemptWindow, cfg.LoginMaxAttempts)
	if cfg.RedisAddr == "" {
		return memory, func() {}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctxPing).Err(); err != nil {
		logger.Warn("redis ping failed, using in-memory login limiter", zap.Error(err))
		_ = redisClient.Close()
		return memory, func() {}
	}
	limiter := service.NewRedisLoginRateLimiter(redisClient, cfg.LoginAttemptWindow, cfg.LoginMaxAttempts)
	return limiter, func() { _ = redisClient.Close() }
}
