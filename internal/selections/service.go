// Package selections manages the service options a customer picks for a
// property before it passes feasibility review.
package selections

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/google/uuid"
)

// ErrInvalidQuantity is returned when a selection has a non-positive quantity.
var ErrInvalidQuantity = errors.New("selection quantity must be positive")

// SelectionInput is one chosen service option as submitted by a customer.
type SelectionInput struct {
	ServiceID  string
	Quantity   int
	UseSticker bool
}

// Service implements pending-selection business logic.
type Service struct {
	repo Repository
}

// NewService creates a new selections service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SetSelections replaces the pending selection set for a property with the
// given options. An empty input clears the set.
func (s *Service) SetSelections(ctx context.Context, propertyID, userID string, inputs []SelectionInput) ([]domain.PendingSelection, error) {
	now := time.Now().UTC()

	sels := make([]domain.PendingSelection, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		sels = append(sels, domain.PendingSelection{
			ID:         uuid.NewString(),
			PropertyID: propertyID,
			UserID:     userID,
			ServiceID:  in.ServiceID,
			Quantity:   in.Quantity,
			UseSticker: in.UseSticker,
			CreatedAt:  now,
		})
	}

	if err := s.repo.ReplaceForProperty(ctx, propertyID, sels); err != nil {
		return nil, fmt.Errorf("replace selections: %w", err)
	}

	return sels, nil
}

// Restore reinserts previously claimed selections verbatim, IDs and
// timestamps included. Used by the activation compensation path.
func (s *Service) Restore(ctx context.Context, propertyID string, sels []domain.PendingSelection) error {
	if err := s.repo.ReplaceForProperty(ctx, propertyID, sels); err != nil {
		return fmt.Errorf("restore selections: %w", err)
	}
	return nil
}

// ListSelections returns the current pending set for a property. Read-only;
// not part of the claim path.
func (s *Service) ListSelections(ctx context.Context, propertyID string) ([]domain.PendingSelection, error) {
	return s.repo.ListByProperty(ctx, propertyID)
}

// Claim atomically removes and returns the pending set for a property.
// Of two concurrent callers at most one observes a non-empty result.
func (s *Service) Claim(ctx context.Context, propertyID string) ([]domain.PendingSelection, error) {
	return s.repo.ClaimByProperty(ctx, propertyID)
}
