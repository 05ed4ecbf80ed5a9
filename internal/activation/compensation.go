package activation

import (
	"context"
	"fmt"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
)

// Compensator returns claimed selections to pending storage when activation
// cannot proceed, so a customer's choices are never silently lost.
type Compensator struct {
	store SelectionStore
}

// NewCompensator creates a new compensator over the given store.
func NewCompensator(store SelectionStore) *Compensator {
	return &Compensator{store: store}
}

// Restore reinserts the claimed selections verbatim: same services,
// quantities and equipment flags.
func (c *Compensator) Restore(ctx context.Context, propertyID string, sels []domain.PendingSelection) error {
	if err := c.store.Restore(ctx, propertyID, sels); err != nil {
		return fmt.Errorf("restore claimed selections: %w", err)
	}
	recordSelectionsRestored(len(sels))
	return nil
}
