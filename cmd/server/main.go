package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alamin00006/business-management/internal/cache"
	"github.com/alamin00006/business-management/internal/config"
	"github.com/alamin00006/business-management/internal/db"
	"github.com/alamin00006/business-management/internal/handler"
	"github.com/alamin00006/business-management/internal/repository"
	"github.com/alamin00006/business-management/internal/server"
	"github.com/alamin00006/business-management/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	// Product list cache (optional; noop when Redis is not configured).
	productCache := cache.ProductListCache(cache.NoopProductListCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisProductListCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, falling back to noop cache", "err", err)
		} else {
			productCache = redisCache
			defer redisCache.Close()
		}
	}

	// ledger stores and transaction scope
	store := repository.NewPgStore(pg)
	scope := repository.PgTxScope{DB: pg, StatementTimeout: cfg.StatementTimeout}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	productRepo := repository.ProductRepository{DB: pg}
	categoryRepo := repository.CategoryRepository{DB: pg}
	brandRepo := repository.BrandRepository{DB: pg}
	branchRepo := repository.BranchRepository{DB: pg}
	supplierRepo := repository.SupplierRepository{DB: pg}
	customerRepo := repository.CustomerRepository{DB: pg}
	expenseRepo := repository.ExpenseRepository{DB: pg}
	settingsRepo := repository.SettingsRepository{DB: pg}
	notificationRepo := repository.NotificationRepository{DB: pg}
	reportRepo := repository.ReportRepository{DB: pg}

	// services
	authSvc := &service.AuthService{Config: cfg, Users: userRepo, Logger: logger}
	loyaltySvc := &service.LoyaltyService{Scope: scope, Store: store, Rates: settingsRepo, EarnRate: cfg.LoyaltyEarnRate, Logger: logger}
	saleSvc := &service.SaleService{Scope: scope, Store: store, Loyalty: loyaltySvc, Logger: logger}
	purchaseSvc := &service.PurchaseService{Scope: scope, Store: store, Logger: logger}
	returnSvc := &service.ReturnService{Scope: scope, Store: store, AutoApprove: cfg.AutoApproveReturns, Logger: logger}
	inventorySvc := &service.InventoryService{Scope: scope, Store: store, Logger: logger}

	router := server.NewRouter(cfg, logger, server.Handlers{
		Health:        handler.HealthHandler{DB: pg},
		Auth:          handler.AuthHandler{Service: authSvc},
		Products:      handler.ProductHandler{Repo: productRepo, Cache: productCache},
		Categories:    handler.CategoryHandler{Repo: categoryRepo},
		Brands:        handler.BrandHandler{Repo: brandRepo},
		Branches:      handler.BranchHandler{Repo: branchRepo},
		Suppliers:     handler.SupplierHandler{Repo: supplierRepo},
		Customers:     handler.CustomerHandler{Repo: customerRepo},
		Stock:         handler.StockHandler{Service: inventorySvc},
		Purchases:     handler.PurchaseHandler{Service: purchaseSvc},
		Sales:         handler.SaleHandler{Service: saleSvc},
		Returns:       handler.SaleReturnHandler{Service: returnSvc},
		Loyalty:       handler.LoyaltyHandler{Service: loyaltySvc},
		Expenses:      handler.ExpenseHandler{Repo: expenseRepo},
		Settings:      handler.SettingsHandler{Repo: settingsRepo},
		Notifications: handler.NotificationHandler{Repo: notificationRepo},
		Reports:       handler.ReportHandler{Repo: reportRepo},
		Users:         handler.UserHandler{Repo: userRepo},
	})

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
