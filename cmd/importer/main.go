package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"cleaning-crm/internal/config"
	"cleaning-crm/internal/db"
	"cleaning-crm/internal/importer"
	"cleaning-crm/internal/logging"
	employeerepo "cleaning-crm/internal/repository/employee"
	employeesvc "cleaning-crm/internal/service/employee"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to employee roster CSV")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := logging.Must(cfg.LogLevel, "importer")
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	employees := employeesvc.New(db.NewPool(pool), employeerepo.NewPostgres(logger))
	imp := importer.NewCSVImporter(f, employees)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Int("imported", count), zap.Error(err))
	}
	logger.Info("import finished",
		zap.Int("employees", count),
		zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
}
