// Package audit persists append-only audit log entries.
package audit

import (
	"context"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/pkg/ctxlog"
)

// Repository defines the interface for audit log storage.
type Repository interface {
	CreateAuditLog(ctx context.Context, entry *domain.AuditLogEntry) error
}

// Recorder writes audit entries. A storage failure is logged and swallowed:
// the recorded operation already happened and must not fail retroactively.
type Recorder struct {
	repo Repository
}

// NewRecorder creates a new audit recorder.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

// Record appends one audit entry.
func (r *Recorder) Record(ctx context.Context, actorID, action, entityType, entityID string, details map[string]any) {
	entry := &domain.AuditLogEntry{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}

	if err := r.repo.CreateAuditLog(ctx, entry); err != nil {
		ctxlog.FromContext(ctx).Error("failed to write audit log entry",
			"action", action,
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
	}
}
