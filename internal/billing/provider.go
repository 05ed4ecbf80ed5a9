// Package billing defines the external billing provider collaborator.
package billing

import "context"

// CatalogEntry maps one sellable service to its default recurring price.
type CatalogEntry struct {
	ServiceID string
	PriceID   string
}

// SubscriptionItem is one priced line of a subscription.
type SubscriptionItem struct {
	PriceID  string
	Quantity int
}

// CreateSubscriptionRequest describes one subscription to create.
type CreateSubscriptionRequest struct {
	AccountID string
	Items     []SubscriptionItem
	Metadata  map[string]string
	// IdempotencyKey deduplicates retries of the same logical creation at
	// the provider. Stable across a claim-restore-reclaim cycle.
	IdempotencyKey string
}

// Provider is the external billing system. Implementations are slow,
// fallible network clients; callers must not invoke them while holding
// database locks.
type Provider interface {
	// ListActiveCatalog returns the currently sellable services with their
	// default recurring prices.
	ListActiveCatalog(ctx context.Context) ([]CatalogEntry, error)

	// CreateSubscription creates one recurring subscription on the given
	// billing account and returns the provider's subscription ID.
	CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (string, error)
}
