package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/harthaxer/GsmLabManager/internal/config"
	"github.com/harthaxer/GsmLabManager/internal/db"
	"github.com/harthaxer/GsmLabManager/internal/handler"
	"github.com/harthaxer/GsmLabManager/internal/repository"
	"github.com/harthaxer/GsmLabManager/internal/server"
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

	store, err := db.New(cfg)
	if err != nil {
		logger.Error("failed to open table store", "err", err)
		os.Exit(1)
	}

	// repositories
	salesRepo := repository.SalesRepository{DB: store}
	repairRepo := repository.RepairRepository{DB: store}
	inventoryRepo := repository.InventoryRepository{DB: store}
	reportRepo := repository.ReportRepository{DB: store}
	photoRepo := repository.PhotoRepository{Dir: cfg.PhotoDir}

	// handlers
	healthHandler := handler.HealthHandler{Store: store}
	homeHandler := handler.HomeHandler{}
	saleHandler := handler.SaleHandler{Repo: salesRepo}
	repairHandler := handler.RepairHandler{Repo: repairRepo, Photos: photoRepo}
	inventoryHandler := handler.InventoryHandler{Repo: inventoryRepo}
	customerHandler := handler.CustomerHandler{Sales: salesRepo, Repairs: repairRepo}
	dashboardHandler := handler.DashboardHandler{Repo: reportRepo}
	reportHandler := handler.ReportHandler{Repo: reportRepo}

	router := server.NewRouter(cfg, logger,
		healthHandler, homeHandler, saleHandler, repairHandler,
		inventoryHandler, customerHandler, dashboardHandler, reportHandler)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
