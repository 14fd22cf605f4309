// Package bootstrap arma las dependencias compartidas por cmd/api y cmd/cli.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"villager-registry/internal/config"
	"villager-registry/internal/db"
	"villager-registry/internal/repository"
	"villager-registry/internal/service"
)

// NewLogger construye un logger de produccion con el nivel configurado.
func NewLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zapCfg.Level = lvl
	}
	return zapCfg.Build()
}

// NewConsoleLogger es el logger de la sesion interactiva: texto legible en
// stderr, para no mezclarse con la salida del REPL en stdout.
func NewConsoleLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.DisableStacktrace = true
	zapCfg.DisableCaller = true
	zapCfg.OutputPaths = []string{"stderr"}
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zapCfg.Level = lvl
	}
	return zapCfg.Build()
}

// OpenRedis conecta a Redis si REDIS_ADDR esta configurado. Devuelve nil si no
// hay direccion o el ping falla; en ese caso la cache y el limiter distribuido
// quedan desactivados.
func OpenRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		logger.Warn("redis ping failed, redis features disabled", zap.Error(err))
		_ = client.Close()
		return nil
	}
	logger.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	return client
}

// OpenCharacterStore abre el driver configurado, aplica el esquema y, si hay
// cliente de Redis, agrega la cache de lectura. El cleanup devuelto cierra el store.
func OpenCharacterStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, rdb *redis.Client) (repository.CharacterRepository, func(), error) {
	var (
		repo    repository.CharacterRepository
		cleanup func()
	)

	switch cfg.StoreDriver {
	case config.DriverSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { _ = sqlDB.Close() }
		repo = repository.NewSQLiteCharacterRepository(sqlDB)
		logger.Info("using sqlite store", zap.String("path", cfg.SQLitePath))
	default:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		if err := db.Ping(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("db ping: %w", err)
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("db migrate: %w", err)
		}
		cleanup = pool.Close
		repo = repository.NewPgCharacterRepository(pool)
		logger.Info("using postgres store")
	}

	if rdb != nil {
		repo = repository.NewCachedCharacterRepository(repo, rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		logger.Info("redis cache enabled")
	}
	return repo, cleanup, nil
}

// NewWriteLimiter devuelve nil cuando WRITE_RATE_LIMIT es 0. Con Redis el
// contador se comparte entre instancias; sin Redis queda en memoria.
func NewWriteLimiter(cfg *config.Config, rdb *redis.Client, logger *zap.Logger) *service.WriteLimiter {
	if cfg.WriteRateLimit <= 0 {
		return nil
	}
	var counter service.WindowCounter = service.NewMemoryWindowCounter()
	if rdb != nil {
		counter = service.NewRedisWindowCounter(rdb)
	}
	window := time.Duration(cfg.WriteRateWindow) * time.Second
	return service.NewWriteLimiter(counter, window, cfg.WriteRateLimit, logger)
}
