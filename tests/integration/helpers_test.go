//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// tokenFor mints a bearer token for the given user and role.
func tokenFor(t *testing.T, userID string, role domain.Role) string {
	t.Helper()
	token, err := testVerifier.Sign(userID, role, time.Hour)
	require.NoError(t, err)
	return token
}

// seedUser inserts a user and returns its ID. billingAccountID may be
// empty for users without a billing account.
func seedUser(t *testing.T, role domain.Role, billingAccountID string) string {
	t.Helper()

	id := uuid.NewString()
	email := fmt.Sprintf("user-%s@example.com", id[:8])

	var acct *string
	if billingAccountID != "" {
		acct = &billingAccountID
	}

	_, err := testDB.Exec(context.Background(),
		`INSERT INTO users (id, email, name, role, billing_account_id) VALUES ($1, $2, $3, $4, $5)`,
		id, email, "Test User", string(role), acct,
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = testDB.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	})

	return id
}

// seedProperty inserts a property in pending_review for the given user
// and returns its ID.
func seedProperty(t *testing.T, userID string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := testDB.Exec(context.Background(),
		`INSERT INTO properties (id, user_id, address, city, state, zip_code)
		 VALUES ($1, $2, '123 Main St', 'Springfield', 'IL', '62701')`,
		id, userID,
	)
	require.NoError(t, err)

	return id
}

// selectionCount returns the number of pending selections for a property.
func selectionCount(t *testing.T, propertyID string) int {
	t.Helper()

	var n int
	err := testDB.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM pending_selections WHERE property_id = $1`, propertyID,
	).Scan(&n)
	require.NoError(t, err)
	return n
}

// propertyStatus returns the property's current service status.
func propertyStatus(t *testing.T, propertyID string) string {
	t.Helper()

	var status string
	err := testDB.QueryRow(context.Background(),
		`SELECT service_status FROM properties WHERE id = $1`, propertyID,
	).Scan(&status)
	require.NoError(t, err)
	return status
}

// auditEntries returns details of audit log entries for an entity, oldest first.
func auditEntries(t *testing.T, action, entityID string) []map[string]any {
	t.Helper()

	rows, err := testDB.Query(context.Background(),
		`SELECT details FROM audit_logs WHERE action = $1 AND entity_id = $2 ORDER BY created_at`,
		action, entityID,
	)
	require.NoError(t, err)
	defer rows.Close()

	var entries []map[string]any
	for rows.Next() {
		var details map[string]any
		require.NoError(t, rows.Scan(&details))
		entries = append(entries, details)
	}
	require.NoError(t, rows.Err())
	return entries
}
