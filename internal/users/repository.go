// Package users provides read access to the account directory.
package users

import (
	"context"
	"errors"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
)

// ErrUserNotFound is returned when no user exists with the given ID.
var ErrUserNotFound = errors.New("user not found")

// Repository defines the interface for user lookups.
type Repository interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}
