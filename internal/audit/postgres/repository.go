// Package postgres provides PostgreSQL implementation of the audit repository.
package postgres

import (
	"context"
	"fmt"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the audit.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateAuditLog appends one audit log entry. Details are stored as JSONB.
func (r *Repository) CreateAuditLog(ctx context.Context, entry *domain.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (actor_id, action, entity_type, entity_id, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		entry.ActorID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Details,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("create audit log entry: %w", err)
	}
	return nil
}
