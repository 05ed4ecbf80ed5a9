package selections

import (
	"context"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
)

// Repository defines storage for pending selections.
type Repository interface {
	// ReplaceForProperty atomically replaces the full selection set for a
	// property. The delete and reinsert happen in one transaction so readers
	// never observe a partially written set.
	ReplaceForProperty(ctx context.Context, propertyID string, sels []domain.PendingSelection) error

	// ListByProperty returns the current selection set without removing it.
	ListByProperty(ctx context.Context, propertyID string) ([]domain.PendingSelection, error)

	// ClaimByProperty removes and returns all selections for a property in a
	// single statement. Of two concurrent callers at most one sees rows.
	ClaimByProperty(ctx context.Context, propertyID string) ([]domain.PendingSelection, error)
}
