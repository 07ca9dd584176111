// Package notify is the fire-and-forget notification boundary. Services push
// through the Notifier interface and never wait on delivery.
package notify

import (
	"context"
	"log/slog"

	"github.com/Shafin5714/stock-craftsman-16-sub000/jobs"
)

// Notifier pushes a notification for asynchronous delivery.
type Notifier interface {
	Push(ctx context.Context, subject, body string) error
}

// Queue enqueues notifications onto the background worker.
type Queue struct {
	client *jobs.Client
	logger *slog.Logger
}

// NewQueue constructs Queue.
func NewQueue(client *jobs.Client, logger *slog.Logger) *Queue {
	return &Queue{client: client, logger: logger}
}

// Push enqueues one notification. Enqueue failures are logged and swallowed
// so a flapping queue never fails the calling operation.
func (q *Queue) Push(ctx context.Context, subject, body string) error {
	if q == nil || q.client == nil {
		return nil
	}
	_, err := q.client.EnqueueNotification(ctx, jobs.NotificationPayload{Subject: subject, Body: body})
	if err != nil {
		q.logger.Warn("enqueue notification", slog.Any("error", err), slog.String("subject", subject))
	}
	return nil
}

// Log writes notifications straight to the logger. Used when no queue is
// configured, and in tests.
type Log struct {
	logger *slog.Logger
}

// NewLog constructs Log.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Push logs the notification.
func (l *Log) Push(_ context.Context, subject, body string) error {
	l.logger.Info("notification", slog.String("subject", subject), slog.String("body", body))
	return nil
}
