package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/app"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/catalog/customers"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/catalog/products"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/catalog/suppliers"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/catalog/warehouses"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/inventory"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/notify"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/observability"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/platform/cache"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/platform/db"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/purchasing"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/sales"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/uploads"
	"github.com/Shafin5714/stock-craftsman-16-sub000/jobs"
	"github.com/Shafin5714/stock-craftsman-16-sub000/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Warn("init job client", slog.Any("error", err))
	} else {
		defer func() {
			if err := jobsClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
	}

	auditLog := shared.NewAuditLogger(pool)
	approvals := shared.NewApprovalRecorder(pool, logger)
	idemStore := shared.NewIdempotencyStore(pool)
	notifier := notify.NewQueue(jobsClient, logger)

	productService := products.NewService(products.NewRepository(pool))
	supplierService := suppliers.NewService(suppliers.NewRepository(pool))
	customerService := customers.NewService(customers.NewRepository(pool))
	warehouseService := warehouses.NewService(warehouses.NewRepository(pool))

	levelCache := inventory.NewLevelCache(redisClient, cfg.StockCacheTTL)
	inventoryService := inventory.NewService(
		inventory.NewRepository(pool),
		auditLog,
		notifier,
		levelCache,
		idemStore,
		inventory.ServiceConfig{AllowNegativeStock: cfg.AllowNegativeStock},
	)

	purchasingService := purchasing.NewService(purchasing.NewRepository(pool), inventoryService, approvals, auditLog, cfg.Currency)
	salesService := sales.NewService(sales.NewRepository(pool), inventoryService, notifier, auditLog, cfg.Currency)

	uploadStore := uploads.NewStore(cfg.UploadDir, cfg.UploadMaxBytes)
	renderer := report.NewRenderer(salesService, purchasingService, "Stock Craftsman")

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		ProductHandler:    products.NewHandler(logger, productService),
		SupplierHandler:   suppliers.NewHandler(logger, supplierService),
		CustomerHandler:   customers.NewHandler(logger, customerService),
		WarehouseHandler:  warehouses.NewHandler(logger, warehouseService),
		InventoryHandler:  inventory.NewHandler(logger, inventoryService),
		PurchasingHandler: purchasing.NewHandler(logger, purchasingService),
		SalesHandler:      sales.NewHandler(logger, salesService),
		UploadHandler:     uploads.NewHandler(logger, uploadStore),
		ReportHandler:     report.NewHandler(renderer, jobsClient, cfg.ReportDir, logger),
		JobHandler:        jobs.NewHandler(inspector, logger),
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server", slog.Any("error", err))
		os.Exit(1)
	}
}
