package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/app"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/inventory"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/notify"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/observability"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/platform/cache"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/platform/db"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/purchasing"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/sales"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
	"github.com/Shafin5714/stock-craftsman-16-sub000/jobs"
	"github.com/Shafin5714/stock-craftsman-16-sub000/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	auditLog := shared.NewAuditLogger(pool)
	approvals := shared.NewApprovalRecorder(pool, logger)
	idemStore := shared.NewIdempotencyStore(pool)
	notifier := notify.NewQueue(jobsClient, logger)

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
	renderer := report.NewRenderer(salesService, purchasingService, "Stock Craftsman")

	scanTask, err := jobs.NewLowStockScanTask(time.Now().UTC())
	if err != nil {
		logger.Error("build low stock scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Metrics:   observability.NewMetrics(),
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLowStockScan, Handler: jobs.NewLowStockScanHandler(inventoryService, jobsClient, logger)},
			{Type: jobs.TaskStatementRender, Handler: jobs.NewStatementRenderHandler(renderer, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.LowStockCron, Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
