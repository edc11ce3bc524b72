// Package jobs holds the background maintenance tasks: pruning expired
// session rows and enforcing audit log retention.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/dbx-labels/etiquetas/internal/auth"
	"github.com/dbx-labels/etiquetas/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionPrune removes expired rows from the session registry.
	TaskSessionPrune = "session:prune"
	// TaskAuditRetention removes audit rows older than the retention window.
	TaskAuditRetention = "audit:retention"
)

// AuditRetentionPayload carries the retention window for one run.
type AuditRetentionPayload struct {
	Retention time.Duration `json:"retention"`
}

// NewSessionPruneTask constructs the session prune task.
func NewSessionPruneTask() *asynq.Task {
	return asynq.NewTask(TaskSessionPrune, nil)
}

// NewAuditRetentionTask constructs the audit retention task.
func NewAuditRetentionTask(payload AuditRetentionPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditRetention, data), nil
}

// SessionPruner deletes expired session rows.
type SessionPruner interface {
	PruneExpired(ctx context.Context) (int64, error)
}

// HandleSessionPrune returns the handler for TaskSessionPrune.
func HandleSessionPrune(pruner SessionPruner, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		removed, err := pruner.PruneExpired(ctx)
		if err != nil {
			return err
		}
		if logger != nil && removed > 0 {
			logger.Info("pruned expired sessions", slog.Int64("removed", removed))
		}
		return nil
	}
}

// AuditRetainer deletes audit rows older than a cutoff.
type AuditRetainer interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// HandleAuditRetention returns the handler for TaskAuditRetention.
func HandleAuditRetention(audit AuditRetainer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AuditRetentionPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.Retention <= 0 {
			return asynq.SkipRetry
		}
		removed, err := audit.DeleteBefore(ctx, time.Now().Add(-payload.Retention))
		if err != nil {
			return err
		}
		if logger != nil && removed > 0 {
			logger.Info("applied audit retention", slog.Int64("removed", removed))
		}
		return nil
	}
}

var (
	_ SessionPruner = (*auth.Service)(nil)
	_ AuditRetainer = (*shared.AuditLogger)(nil)
)
