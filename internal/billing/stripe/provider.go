// Package stripe implements the billing provider against the Stripe API.
package stripe

import (
	"context"
	"errors"
	"fmt"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/billing"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"golang.org/x/time/rate"
)

// Config contains Stripe client configuration.
type Config struct {
	APIKey string
	// RateLimit caps outbound requests per second; 0 disables throttling.
	RateLimit float64
}

// Provider calls Stripe. Requests are throttled client-side so a large
// activation batch cannot trip Stripe's rate limits.
type Provider struct {
	api     *client.API
	limiter *rate.Limiter
}

// New creates a Stripe-backed billing provider.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("stripe provider: api key is required")
	}

	var api client.API
	api.Init(cfg.APIKey, nil)

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Provider{
		api:     &api,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// ListActiveCatalog returns active products that carry a default recurring
// price. Products without one are not sellable and are skipped.
func (p *Provider) ListActiveCatalog(ctx context.Context) ([]billing.CatalogEntry, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("throttle catalog fetch: %w", err)
	}

	params := &stripe.ProductListParams{Active: stripe.Bool(true)}
	params.Context = ctx
	params.AddExpand("data.default_price")

	entries := make([]billing.CatalogEntry, 0)
	iter := p.api.Products.List(params)
	for iter.Next() {
		product := iter.Product()
		price := product.DefaultPrice
		if price == nil || price.Recurring == nil {
			continue
		}
		entries = append(entries, billing.CatalogEntry{
			ServiceID: product.ID,
			PriceID:   price.ID,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}

	return entries, nil
}

// CreateSubscription creates a recurring subscription on the given customer.
func (p *Provider) CreateSubscription(ctx context.Context, req billing.CreateSubscriptionRequest) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("throttle subscription create: %w", err)
	}

	params := &stripe.SubscriptionParams{
		Customer: stripe.String(req.AccountID),
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	for _, item := range req.Items {
		params.Items = append(params.Items, &stripe.SubscriptionItemsParams{
			Price:    stripe.String(item.PriceID),
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sub, err := p.api.Subscriptions.New(params)
	if err != nil {
		return "", fmt.Errorf("create subscription: %w", err)
	}

	return sub.ID, nil
}
