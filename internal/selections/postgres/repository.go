// Package postgres provides PostgreSQL implementation of the selections repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the selections.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ReplaceForProperty replaces the full selection set for a property inside
// one transaction.
func (r *Repository) ReplaceForProperty(ctx context.Context, propertyID string, sels []domain.PendingSelection) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM pending_selections WHERE property_id = $1`, propertyID); err != nil {
		return fmt.Errorf("delete old selections: %w", err)
	}

	insertQuery := `
		INSERT INTO pending_selections (id, property_id, user_id, service_id, quantity, use_sticker, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range sels {
		_, err := tx.Exec(ctx, insertQuery,
			sels[i].ID,
			sels[i].PropertyID,
			sels[i].UserID,
			sels[i].ServiceID,
			sels[i].Quantity,
			sels[i].UseSticker,
			sels[i].CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert selection: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ListByProperty returns the current selection set for a property.
func (r *Repository) ListByProperty(ctx context.Context, propertyID string) ([]domain.PendingSelection, error) {
	query := `
		SELECT id, property_id, user_id, service_id, quantity, use_sticker, created_at
		FROM pending_selections
		WHERE property_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	defer rows.Close()

	return scanSelections(rows)
}

// ClaimByProperty removes and returns all selections for a property. The
// single delete-returning statement is what makes the claim atomic: two
// concurrent claims can never both receive the same rows.
func (r *Repository) ClaimByProperty(ctx context.Context, propertyID string) ([]domain.PendingSelection, error) {
	query := `
		DELETE FROM pending_selections
		WHERE property_id = $1
		RETURNING id, property_id, user_id, service_id, quantity, use_sticker, created_at
	`
	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("claim selections: %w", err)
	}
	defer rows.Close()

	return scanSelections(rows)
}

func scanSelections(rows pgx.Rows) ([]domain.PendingSelection, error) {
	sels := make([]domain.PendingSelection, 0)
	for rows.Next() {
		var sel domain.PendingSelection
		err := rows.Scan(
			&sel.ID,
			&sel.PropertyID,
			&sel.UserID,
			&sel.ServiceID,
			&sel.Quantity,
			&sel.UseSticker,
			&sel.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		sels = append(sels, sel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate selections: %w", err)
	}

	return sels, nil
}
