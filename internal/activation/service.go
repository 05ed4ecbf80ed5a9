// Package activation converts claimed pending selections into live billing
// subscriptions, tolerating per-item failures.
package activation

import (
	"context"
	"errors"
	"fmt"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/billing"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/pkg/ctxlog"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/users"
)

// Activation trigger sources.
const (
	SourceAdminApproval = "admin_approval"
	SourceAuto          = "auto"
)

// Subscription metadata keys sent to the billing provider.
const (
	metadataPropertyID    = "property_id"
	metadataEquipmentType = "equipment_type"
)

// Options control a single activation run.
type Options struct {
	// Source identifies the trigger and is recorded in the audit entry.
	Source string
	// Preloaded carries selections already claimed inside the caller's own
	// transaction. When set, activation does not claim again.
	Preloaded []domain.PendingSelection
}

// Result counts per-item outcomes of one activation run.
type Result struct {
	Activated int `json:"activated"`
	Failed    int `json:"failed"`
}

// UserDirectory resolves users and their billing account linkage.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// SelectionStore claims and restores pending selections.
type SelectionStore interface {
	Claim(ctx context.Context, propertyID string) ([]domain.PendingSelection, error)
	Restore(ctx context.Context, propertyID string, sels []domain.PendingSelection) error
}

// AuditRecorder appends the per-run summary entry.
type AuditRecorder interface {
	Record(ctx context.Context, actorID, action, entityType, entityID string, details map[string]any)
}

// Service implements subscription activation.
type Service struct {
	users       UserDirectory
	store       SelectionStore
	billing     billing.Provider
	compensator *Compensator
	audit       AuditRecorder
}

// NewService creates a new activation service.
func NewService(userDir UserDirectory, store SelectionStore, provider billing.Provider, audit AuditRecorder) *Service {
	return &Service{
		users:       userDir,
		store:       store,
		billing:     provider,
		compensator: NewCompensator(store),
		audit:       audit,
	}
}

// Activate converts the pending selections of a property into recurring
// subscriptions, one per selection.
//
// The selection set is either opts.Preloaded (claimed by the caller's own
// transaction) or claimed here via the store's atomic delete-returning claim.
// By the time any billing call is made the claim is already committed, so a
// concurrent trigger observes an empty set and becomes a no-op. Billing
// failures are counted per item and never abort the batch; the only branch
// that undoes the claim is the missing-billing-account compensation, which
// restores the selections verbatim.
func (s *Service) Activate(ctx context.Context, propertyID, userID string, opts Options) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	recordRun(opts.Source)

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			logger.Warn("activation skipped: user not found",
				"property_id", propertyID, "user_id", userID)
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("look up user: %w", err)
	}

	sels := opts.Preloaded
	if sels == nil {
		sels, err = s.store.Claim(ctx, propertyID)
		if err != nil {
			return Result{}, fmt.Errorf("claim pending selections: %w", err)
		}
	}

	if len(sels) == 0 {
		return Result{}, nil
	}

	if !user.HasBillingAccount() {
		if err := s.compensator.Restore(ctx, propertyID, sels); err != nil {
			return Result{}, err
		}
		logger.Warn("activation aborted: no billing account, selections restored",
			"property_id", propertyID, "user_id", userID, "selections", len(sels))
		return Result{Failed: len(sels)}, nil
	}

	catalog, err := s.billing.ListActiveCatalog(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch billing catalog: %w", err)
	}
	prices := make(map[string]string, len(catalog))
	for _, entry := range catalog {
		prices[entry.ServiceID] = entry.PriceID
	}

	var result Result
	for i := range sels {
		sel := &sels[i]

		priceID, ok := prices[sel.ServiceID]
		if !ok {
			result.Failed++
			recordItemFailed("no_active_price")
			logger.Warn("no active price for selection",
				"property_id", propertyID, "service_id", sel.ServiceID)
			continue
		}

		subscriptionID, err := s.billing.CreateSubscription(ctx, billing.CreateSubscriptionRequest{
			AccountID: *user.BillingAccountID,
			Items:     []billing.SubscriptionItem{{PriceID: priceID, Quantity: sel.Quantity}},
			Metadata: map[string]string{
				metadataPropertyID:    propertyID,
				metadataEquipmentType: string(sel.Equipment()),
			},
			// The selection ID survives compensation verbatim, so a retried
			// run after a crash cannot double-create the subscription.
			IdempotencyKey: "activate-" + sel.ID,
		})
		if err != nil {
			result.Failed++
			recordItemFailed("provider_error")
			logger.Error("subscription create failed",
				"property_id", propertyID, "service_id", sel.ServiceID, "error", err)
			continue
		}

		result.Activated++
		recordItemActivated()
		logger.Info("subscription created",
			"property_id", propertyID,
			"service_id", sel.ServiceID,
			"subscription_id", subscriptionID,
		)
	}

	s.audit.Record(ctx, userID, domain.AuditActionSubscriptionsActivated, domain.AuditEntityProperty, propertyID, map[string]any{
		"source":           opts.Source,
		"automated":        opts.Source != SourceAdminApproval,
		"activated":        result.Activated,
		"failed":           result.Failed,
		"total_selections": len(sels),
	})

	return result, nil
}
