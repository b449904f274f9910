// Package worker consumes entity-change events and appends them to the
// audit trail. It runs as its own binary so the API process never blocks on
// the broker.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"piano/internal/amqp"
	"piano/internal/storage"
)

// AuditStore is the storage surface the worker writes to.
type AuditStore interface {
	AppendAudit(ctx context.Context, entry storage.AuditEntry) error
}

type AuditWorker struct {
	store AuditStore
}

func NewAuditWorker(store AuditStore) *AuditWorker {
	return &AuditWorker{store: store}
}

// HandleEntityChange appends one change event to the audit log.
func (w *AuditWorker) HandleEntityChange(ctx context.Context, msg *amqp.EntityChangeMessage) error {
	slog.InfoContext(ctx, "Processing entity change",
		"kind", msg.Kind,
		"id", msg.ID,
		"action", msg.Action)

	entry := storage.AuditEntry{
		EntityKind: string(msg.Kind),
		EntityID:   msg.ID,
		Action:     string(msg.Action),
		OccurredAt: msg.Timestamp,
	}
	if err := w.store.AppendAudit(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}
