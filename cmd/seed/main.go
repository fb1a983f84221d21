package main

import (
	"context"

	"go.uber.org/zap"

	"cleaning-crm/internal/auth"
	"cleaning-crm/internal/config"
	"cleaning-crm/internal/db"
	"cleaning-crm/internal/logging"
	userrepo "cleaning-crm/internal/repository/user"
	"cleaning-crm/internal/seed"
	usersvc "cleaning-crm/internal/service/user"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.Must(cfg.LogLevel, "seed")
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	tokens := auth.NewTokenManager(cfg.StaffJWTSecret, auth.AudienceStaff, cfg.StaffTokenTTL)
	users := usersvc.New(db.NewPool(pool), userrepo.NewPostgres(logger), tokens)

	admin := seed.Admin{
		Name:     cfg.SeedAdminName,
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
	}
	if err := seed.Apply(ctx, users, admin, logger); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}
	logger.Info("seed applied")
}
