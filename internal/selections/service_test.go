package selections

import (
	"context"
	"testing"
	"time"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	stored map[string][]domain.PendingSelection
}

func newMockRepository() *mockRepository {
	return &mockRepository{stored: map[string][]domain.PendingSelection{}}
}

func (m *mockRepository) ReplaceForProperty(_ context.Context, propertyID string, sels []domain.PendingSelection) error {
	m.stored[propertyID] = sels
	return nil
}

func (m *mockRepository) ListByProperty(_ context.Context, propertyID string) ([]domain.PendingSelection, error) {
	return m.stored[propertyID], nil
}

func (m *mockRepository) ClaimByProperty(_ context.Context, propertyID string) ([]domain.PendingSelection, error) {
	sels := m.stored[propertyID]
	delete(m.stored, propertyID)
	return sels, nil
}

func TestSetSelections_AssignsIDsAndTimestamps(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	sels, err := svc.SetSelections(context.Background(), "prop-1", "user-1", []SelectionInput{
		{ServiceID: "svc_trash", Quantity: 1},
		{ServiceID: "svc_recycling", Quantity: 2, UseSticker: true},
	})
	require.NoError(t, err)
	require.Len(t, sels, 2)

	for _, sel := range sels {
		assert.NotEmpty(t, sel.ID)
		assert.Equal(t, "prop-1", sel.PropertyID)
		assert.Equal(t, "user-1", sel.UserID)
		assert.False(t, sel.CreatedAt.IsZero())
	}
	assert.NotEqual(t, sels[0].ID, sels[1].ID)
	assert.True(t, sels[1].UseSticker)
	assert.Equal(t, sels, repo.stored["prop-1"])
}

func TestSetSelections_ReplacesExistingSet(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.SetSelections(context.Background(), "prop-1", "user-1", []SelectionInput{
		{ServiceID: "svc_trash", Quantity: 1},
		{ServiceID: "svc_recycling", Quantity: 1},
	})
	require.NoError(t, err)

	_, err = svc.SetSelections(context.Background(), "prop-1", "user-1", []SelectionInput{
		{ServiceID: "svc_yard_waste", Quantity: 3},
	})
	require.NoError(t, err)

	require.Len(t, repo.stored["prop-1"], 1)
	assert.Equal(t, "svc_yard_waste", repo.stored["prop-1"][0].ServiceID)
}

func TestSetSelections_EmptyInputClears(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.SetSelections(context.Background(), "prop-1", "user-1", []SelectionInput{
		{ServiceID: "svc_trash", Quantity: 1},
	})
	require.NoError(t, err)

	sels, err := svc.SetSelections(context.Background(), "prop-1", "user-1", nil)
	require.NoError(t, err)
	assert.Empty(t, sels)
	assert.Empty(t, repo.stored["prop-1"])
}

func TestSetSelections_RejectsNonPositiveQuantity(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.SetSelections(context.Background(), "prop-1", "user-1", []SelectionInput{
		{ServiceID: "svc_trash", Quantity: 0},
	})
	require.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, repo.stored)
}

func TestRestore_KeepsIdentity(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	claimed := []domain.PendingSelection{
		{ID: "sel-1", PropertyID: "prop-1", UserID: "user-1", ServiceID: "svc_trash", Quantity: 2, CreatedAt: created},
	}

	require.NoError(t, svc.Restore(context.Background(), "prop-1", claimed))

	stored := repo.stored["prop-1"]
	require.Len(t, stored, 1)
	assert.Equal(t, claimed[0], stored[0])
}

func TestClaim_EmptiesTheSet(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.SetSelections(context.Background(), "prop-1", "user-1", []SelectionInput{
		{ServiceID: "svc_trash", Quantity: 1},
	})
	require.NoError(t, err)

	claimed, err := svc.Claim(context.Background(), "prop-1")
	require.NoError(t, err)
	assert.Len(t, claimed, 1)

	again, err := svc.Claim(context.Background(), "prop-1")
	require.NoError(t, err)
	assert.Empty(t, again)
}
