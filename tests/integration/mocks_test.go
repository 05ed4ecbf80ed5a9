//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/billing"
)

// fakeBillingProvider implements billing.Provider in memory. The catalog
// and failure set are mutable between tests; reset() returns the fake to
// a clean state.
type fakeBillingProvider struct {
	mu      sync.Mutex
	catalog []billing.CatalogEntry
	// Creating a subscription for any of these price IDs fails.
	failPrices map[string]bool
	calls      []billing.CreateSubscriptionRequest
	nextID     int
}

func newFakeBillingProvider() *fakeBillingProvider {
	return &fakeBillingProvider{failPrices: map[string]bool{}}
}

func (f *fakeBillingProvider) reset(catalog []billing.CatalogEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalog = catalog
	f.failPrices = map[string]bool{}
	f.calls = nil
}

func (f *fakeBillingProvider) failPrice(priceID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPrices[priceID] = true
}

func (f *fakeBillingProvider) subscriptionCalls() []billing.CreateSubscriptionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]billing.CreateSubscriptionRequest, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeBillingProvider) ListActiveCatalog(_ context.Context) ([]billing.CatalogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]billing.CatalogEntry, len(f.catalog))
	copy(out, f.catalog)
	return out, nil
}

func (f *fakeBillingProvider) CreateSubscription(_ context.Context, req billing.CreateSubscriptionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, item := range req.Items {
		if f.failPrices[item.PriceID] {
			return "", fmt.Errorf("price %s rejected", item.PriceID)
		}
	}

	f.nextID++
	f.calls = append(f.calls, req)
	return fmt.Sprintf("sub_%04d", f.nextID), nil
}
