// Command normalize-tags sweeps the whole tag table, re-normalizing every
// name and merging the duplicates that normalization exposes. It is the
// administrative repair for tags created before a normalization rule
// change, intended to be invoked manually or by an external cron job.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres"
	tagrepo "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/tag"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/app"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/config"
	tagsvc "github.com/TianMeet/quant-skill-vault-sub001/internal/service/tag"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	tagService := tagsvc.NewService(logger, tagrepo.New(pool), txm)

	result, err := tagService.NormalizeAll(ctx)
	if err != nil {
		logger.Error("normalize sweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("normalize sweep completed",
		slog.Int("scanned", result.Scanned),
		slog.Int("groups", result.Groups),
		slog.Int("merged", result.Merged),
		slog.Int("renamed", result.Renamed),
		slog.Int("removed_empty", result.RemovedEmpty),
	)
}
