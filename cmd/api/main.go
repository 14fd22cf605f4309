package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"villager-registry/internal/bootstrap"
	"villager-registry/internal/config"
	apihttp "villager-registry/internal/http"
	"villager-registry/internal/service"
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

	logger, err := bootstrap.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	rdb := bootstrap.OpenRedis(ctx, cfg, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	characterRepo, closeStore, err := bootstrap.OpenCharacterStore(ctx, cfg, logger, rdb)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer closeStore()

	characterSvc := service.NewCharacterService(logger, characterRepo)
	if cfg.SeedDefaults {
		if _, err := characterSvc.SeedDefaults(ctx); err != nil {
			logger.Warn("seed default characters failed", zap.Error(err))
		}
	}

	gin.SetMode(gin.ReleaseMode)
	characterHandler := apihttp.NewCharacterHandler(logger, characterSvc)
	router, err := apihttp.NewRouter(logger, characterHandler, apihttp.RouterConfig{
		AllowOrigin:    cfg.CORSAllowOrigin,
		TrustedProxies: cfg.TrustedProxies,
		WriteLimiter:   bootstrap.NewWriteLimiter(cfg, rdb, logger),
	})
	if err != nil {
		logger.Fatal("build router", zap.Error(err))
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("store", cfg.StoreDriver))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
