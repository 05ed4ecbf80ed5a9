// Package postgres provides PostgreSQL implementation of the review repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/review"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const propertyColumns = `id, user_id, address, city, state, zip_code,
		service_status, service_status_notes, service_status_updated_at,
		created_at, updated_at`

// Repository implements the review.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetProperty retrieves a property by ID without locking.
func (r *Repository) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	return scanProperty(r.db.QueryRow(ctx, query, id))
}

// BeginTx starts a new transaction.
func (r *Repository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

// GetPropertyForUpdateTx retrieves a property and takes an exclusive row
// lock held until the transaction ends. Concurrent decisions on the same
// property queue here; unrelated properties are unaffected.
func (r *Repository) GetPropertyForUpdateTx(ctx context.Context, tx pgx.Tx, id string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1 FOR UPDATE`
	return scanProperty(tx.QueryRow(ctx, query, id))
}

// SetServiceStatusTx updates the review decision fields within a transaction.
func (r *Repository) SetServiceStatusTx(ctx context.Context, tx pgx.Tx, propertyID string, status domain.ServiceStatus, notes string) error {
	query := `
		UPDATE properties
		SET service_status = $2, service_status_notes = $3,
		    service_status_updated_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	result, err := tx.Exec(ctx, query, propertyID, status, notes)
	if err != nil {
		return fmt.Errorf("set service status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return review.ErrPropertyNotFound
	}
	return nil
}

// ClaimPendingSelectionsTx removes and returns all pending selections for a
// property within the decision transaction.
func (r *Repository) ClaimPendingSelectionsTx(ctx context.Context, tx pgx.Tx, propertyID string) ([]domain.PendingSelection, error) {
	query := `
		DELETE FROM pending_selections
		WHERE property_id = $1
		RETURNING id, property_id, user_id, service_id, quantity, use_sticker, created_at
	`
	rows, err := tx.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("claim pending selections: %w", err)
	}
	defer rows.Close()

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

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var property domain.Property
	err := row.Scan(
		&property.ID,
		&property.UserID,
		&property.Address,
		&property.City,
		&property.State,
		&property.ZipCode,
		&property.ServiceStatus,
		&property.ServiceStatusNotes,
		&property.ServiceStatusUpdatedAt,
		&property.CreatedAt,
		&property.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, review.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return &property, nil
}
