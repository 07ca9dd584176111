package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskNotificationDeliver delivers a queued notification.
	TaskNotificationDeliver = "notify:deliver"
	// TaskLowStockScan walks stock levels and alerts on Critical/Low items.
	TaskLowStockScan = "stock:lowscan"
	// TaskStatementRender renders a supplier statement PDF in the background.
	TaskStatementRender = "report:statement"
)

// NotificationPayload describes one notification to deliver.
type NotificationPayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewNotificationTask constructs an Asynq task.
func NewNotificationTask(payload NotificationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationDeliver, data, asynq.Queue(QueueDefault)), nil
}

// NewNotificationHandler returns the delivery handler. Delivery is a log
// sink for now; the seam is where an SMTP or webhook sender would go.
func NewNotificationHandler(logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload NotificationPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		logger.Info("notification delivered",
			slog.String("subject", payload.Subject),
			slog.String("body", payload.Body))
		return nil
	}
}
