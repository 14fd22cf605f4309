package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"villager-registry/internal/bootstrap"
	"villager-registry/internal/cli"
	"villager-registry/internal/config"
	"villager-registry/internal/service"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := bootstrap.NewConsoleLogger(cfg.CLILogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	rdb := bootstrap.OpenRedis(ctx, cfg, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	characterRepo, closeStore, err := bootstrap.OpenCharacterStore(ctx, cfg, logger, rdb)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	characterSvc := service.NewCharacterService(logger, characterRepo)
	if cfg.SeedDefaults {
		if _, err := characterSvc.SeedDefaults(ctx); err != nil {
			logger.Warn("seed default characters failed", zap.Error(err))
		}
	}

	session := cli.NewSession(os.Stdin, os.Stdout, characterSvc, logger)
	if err := session.Run(ctx); err != nil {
		logger.Error("cli session ended with error", zap.Error(err))
	}
}
