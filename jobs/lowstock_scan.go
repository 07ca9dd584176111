package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/inventory"
)

// LowStockScanPayload carries scheduling metadata.
type LowStockScanPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewLowStockScanTask constructs the nightly scan task.
func NewLowStockScanTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(LowStockScanPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, body, asynq.Queue(QueueDefault)), nil
}

// LowStockLister is the slice of the inventory service the scan needs.
type LowStockLister interface {
	LowStock(ctx context.Context, warehouseID int64) ([]inventory.StockLevel, error)
}

// NewLowStockScanHandler walks every warehouse's levels and enqueues one
// notification per Critical/Low product.
func NewLowStockScanHandler(levels LowStockLister, client *Client, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload LowStockScanPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		low, err := levels.LowStock(ctx, 0)
		if err != nil {
			return err
		}
		for _, lv := range low {
			_, err := client.EnqueueNotification(ctx, NotificationPayload{
				Subject: fmt.Sprintf("Stock %s: %s", lv.Status, lv.ProductName),
				Body: fmt.Sprintf("Warehouse %d has %.2f of %s (min %.2f)",
					lv.WarehouseID, lv.CurrentStock, lv.ProductCode, lv.MinStock),
			})
			if err != nil {
				logger.Warn("enqueue low stock alert", slog.Any("error", err))
			}
		}
		logger.Info("low stock scan finished", slog.Int("alerts", len(low)))
		return nil
	}
}
