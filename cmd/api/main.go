package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"cleaning-crm/internal/auth"
	"cleaning-crm/internal/config"
	"cleaning-crm/internal/db"
	"cleaning-crm/internal/httpserver"
	"cleaning-crm/internal/logging"
	addressrepo "cleaning-crm/internal/repository/address"
	customerrepo "cleaning-crm/internal/repository/customer"
	employeerepo "cleaning-crm/internal/repository/employee"
	orderrepo "cleaning-crm/internal/repository/order"
	userrepo "cleaning-crm/internal/repository/user"
	addresssvc "cleaning-crm/internal/service/address"
	customersvc "cleaning-crm/internal/service/customer"
	employeesvc "cleaning-crm/internal/service/employee"
	ordersvc "cleaning-crm/internal/service/order"
	usersvc "cleaning-crm/internal/service/user"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.Must(cfg.LogLevel, "api")
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()
	database := db.NewPool(dbpool)

	customerTokens := auth.NewTokenManager(cfg.CustomerJWTSecret, auth.AudienceCustomer, cfg.CustomerTokenTTL)
	staffTokens := auth.NewTokenManager(cfg.StaffJWTSecret, auth.AudienceStaff, cfg.StaffTokenTTL)
	authorizer, err := auth.NewAuthorizer()
	if err != nil {
		logger.Fatal("init authorizer", zap.Error(err))
	}

	addressRepo := addressrepo.NewPostgres(logger)
	orderRepo := orderrepo.NewPostgres(logger)
	customerRepo := customerrepo.NewPostgres(logger)
	userRepo := userrepo.NewPostgres(logger)
	employeeRepo := employeerepo.NewPostgres(logger)

	addressService := addresssvc.New(database, addressRepo, orderRepo)
	orderService := ordersvc.New(database, orderRepo, addressRepo, customerRepo, addressService)
	customerService := customersvc.New(database, customerRepo, customerTokens)
	userService := usersvc.New(database, userRepo, staffTokens)
	employeeService := employeesvc.New(database, employeeRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CustomerTokens: customerTokens,
		StaffTokens:    staffTokens,
		Authorizer:     authorizer,
		Customers:      customerService,
		Orders:         orderService,
		Addresses:      addressService,
		Users:          userService,
		Employees:      employeeService,
		CORSOrigins:    cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
