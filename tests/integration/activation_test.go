//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/billing"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type activationResult struct {
	Activated int `json:"activated"`
	Failed    int `json:"failed"`
}

func activate(t *testing.T, propertyID string) (int, activationResult) {
	t.Helper()

	operatorID := seedUser(t, domain.RoleOperator, "")
	operator := newTestClient(t).WithToken(tokenFor(t, operatorID, domain.RoleOperator))

	resp, err := operator.POST(fmt.Sprintf("/api/v1/properties/%s/activate", propertyID), map[string]any{
		"source": "portal_signup",
	})
	require.NoError(t, err)

	var result struct {
		Data activationResult `json:"data"`
	}
	status := resp.StatusCode
	if status == http.StatusOK {
		testutil.DecodeJSON(t, resp, &result)
	} else {
		_ = resp.Body.Close()
	}
	return status, result.Data
}

func TestActivate_CreatesSubscriptions(t *testing.T) {
	billingStub.reset([]billing.CatalogEntry{
		{ServiceID: "svc_trash", PriceID: "price_trash"},
	})

	userID := seedUser(t, domain.RoleCustomer, "acct_direct")
	propertyID := seedProperty(t, userID)
	submitSelections(t, userID, propertyID, []map[string]any{
		{"service_id": "svc_trash", "quantity": 2},
	})

	status, result := activate(t, propertyID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, result.Activated)
	assert.Equal(t, 0, result.Failed)

	assert.Equal(t, 0, selectionCount(t, propertyID))
	calls := billingStub.subscriptionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "acct_direct", calls[0].AccountID)
	assert.Equal(t, 2, calls[0].Items[0].Quantity)

	activations := auditEntries(t, domain.AuditActionSubscriptionsActivated, propertyID)
	require.Len(t, activations, 1)
	assert.Equal(t, "portal_signup", activations[0]["source"])
	assert.Equal(t, true, activations[0]["automated"])
}

func TestActivate_SecondRunFindsNothing(t *testing.T) {
	billingStub.reset([]billing.CatalogEntry{
		{ServiceID: "svc_trash", PriceID: "price_trash"},
	})

	userID := seedUser(t, domain.RoleCustomer, "acct_twice")
	propertyID := seedProperty(t, userID)
	submitSelections(t, userID, propertyID, []map[string]any{
		{"service_id": "svc_trash", "quantity": 1},
	})

	status, first := activate(t, propertyID)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, first.Activated)

	// The claim already consumed the selections; a rerun must not
	// create duplicate subscriptions.
	status, second := activate(t, propertyID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, second.Activated)
	assert.Equal(t, 0, second.Failed)
	assert.Len(t, billingStub.subscriptionCalls(), 1)
}

func TestActivate_NoBillingAccountRestoresSelections(t *testing.T) {
	billingStub.reset([]billing.CatalogEntry{
		{ServiceID: "svc_trash", PriceID: "price_trash"},
	})

	userID := seedUser(t, domain.RoleCustomer, "")
	propertyID := seedProperty(t, userID)
	submitSelections(t, userID, propertyID, []map[string]any{
		{"service_id": "svc_trash", "quantity": 1},
		{"service_id": "svc_recycling", "quantity": 1},
	})

	status, result := activate(t, propertyID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, result.Activated)
	assert.Equal(t, 2, result.Failed)

	// Selections survive for a retry once the billing account exists.
	assert.Equal(t, 2, selectionCount(t, propertyID))
	assert.Empty(t, billingStub.subscriptionCalls())
	assert.Empty(t, auditEntries(t, domain.AuditActionSubscriptionsActivated, propertyID))
}

func TestActivate_PartialProviderFailure(t *testing.T) {
	billingStub.reset([]billing.CatalogEntry{
		{ServiceID: "svc_trash", PriceID: "price_trash"},
		{ServiceID: "svc_recycling", PriceID: "price_recycling"},
	})
	billingStub.failPrice("price_recycling")

	userID := seedUser(t, domain.RoleCustomer, "acct_partial")
	propertyID := seedProperty(t, userID)
	submitSelections(t, userID, propertyID, []map[string]any{
		{"service_id": "svc_trash", "quantity": 1},
		{"service_id": "svc_recycling", "quantity": 1},
	})

	status, result := activate(t, propertyID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, result.Activated)
	assert.Equal(t, 1, result.Failed)

	calls := billingStub.subscriptionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "price_trash", calls[0].Items[0].PriceID)

	activations := auditEntries(t, domain.AuditActionSubscriptionsActivated, propertyID)
	require.Len(t, activations, 1)
	assert.EqualValues(t, 1, activations[0]["activated"])
	assert.EqualValues(t, 1, activations[0]["failed"])
}

func TestActivate_ServiceWithoutActivePrice(t *testing.T) {
	billingStub.reset([]billing.CatalogEntry{
		{ServiceID: "svc_trash", PriceID: "price_trash"},
	})

	userID := seedUser(t, domain.RoleCustomer, "acct_noprice")
	propertyID := seedProperty(t, userID)
	submitSelections(t, userID, propertyID, []map[string]any{
		{"service_id": "svc_discontinued", "quantity": 1},
	})

	status, result := activate(t, propertyID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, result.Activated)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, billingStub.subscriptionCalls())
}

func TestActivate_PropertyNotFound(t *testing.T) {
	operatorID := seedUser(t, domain.RoleOperator, "")
	operator := newTestClientWithoutValidation().WithToken(tokenFor(t, operatorID, domain.RoleOperator))

	resp, err := operator.POST("/api/v1/properties/00000000-0000-0000-0000-000000000000/activate", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
