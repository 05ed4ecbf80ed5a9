package review

import (
	"context"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/jackc/pgx/v5"
)

// Repository defines the interface for property review storage.
type Repository interface {
	// GetProperty retrieves a property without locking it.
	GetProperty(ctx context.Context, id string) (*domain.Property, error)

	// Transaction methods. The decision path runs inside one transaction
	// holding a row lock on the property.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetPropertyForUpdateTx retrieves a property and locks its row for the
	// duration of the transaction.
	GetPropertyForUpdateTx(ctx context.Context, tx pgx.Tx, id string) (*domain.Property, error)

	// SetServiceStatusTx updates the review decision fields of a property.
	SetServiceStatusTx(ctx context.Context, tx pgx.Tx, propertyID string, status domain.ServiceStatus, notes string) error

	// ClaimPendingSelectionsTx removes and returns all pending selections for
	// a property within the decision transaction.
	ClaimPendingSelectionsTx(ctx context.Context, tx pgx.Tx, propertyID string) ([]domain.PendingSelection, error)
}
