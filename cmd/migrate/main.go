package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"cleaning-crm/internal/config"
	"cleaning-crm/internal/db"
	"cleaning-crm/internal/logging"
	"cleaning-crm/internal/migrate"
)

func main() {
	var down int
	flag.IntVar(&down, "down", 0, "Revert this many migration steps instead of applying all")
	flag.Parse()

	cfg := config.FromEnv()
	logger := logging.Must(cfg.LogLevel, "migrate")
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if down > 0 {
		if err := migrate.Rollback(ctx, pool, down); err != nil {
			logger.Fatal("rollback migrations", zap.Error(err))
		}
		logger.Info("migrations rolled back", zap.Int("steps", down))
		return
	}

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}
	logger.Info("migrations applied")
}
