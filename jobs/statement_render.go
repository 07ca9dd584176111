package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// StatementRenderPayload names the supplier whose statement to render.
type StatementRenderPayload struct {
	SupplierID int64  `json:"supplier_id"`
	OutputPath string `json:"output_path"`
}

// NewStatementRenderTask constructs a statement render task.
func NewStatementRenderTask(payload StatementRenderPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatementRender, body, asynq.Queue(QueueDefault)), nil
}

// StatementRenderer renders a supplier statement to a file.
type StatementRenderer interface {
	RenderStatementFile(ctx context.Context, supplierID int64, path string) error
}

// NewStatementRenderHandler runs statement rendering off the request path.
func NewStatementRenderHandler(renderer StatementRenderer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload StatementRenderPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if err := renderer.RenderStatementFile(ctx, payload.SupplierID, payload.OutputPath); err != nil {
			return err
		}
		logger.Info("statement rendered",
			slog.Int64("supplier_id", payload.SupplierID),
			slog.String("path", payload.OutputPath))
		return nil
	}
}
