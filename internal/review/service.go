// Package review finalizes the feasibility decision on a property and hands
// claimed selections off to subscription activation.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/activation"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/pkg/ctxlog"
	"github.com/jackc/pgx/v5"
)

// Activator converts claimed selections into billing subscriptions.
type Activator interface {
	Activate(ctx context.Context, propertyID, userID string, opts activation.Options) (activation.Result, error)
}

// AuditRecorder appends the decision audit entry.
type AuditRecorder interface {
	Record(ctx context.Context, actorID, action, entityType, entityID string, details map[string]any)
}

// Service implements the review decision workflow.
type Service struct {
	repo      Repository
	activator Activator
	audit     AuditRecorder
}

// NewService creates a new review service.
func NewService(repo Repository, activator Activator, audit AuditRecorder) *Service {
	return &Service{
		repo:      repo,
		activator: activator,
		audit:     audit,
	}
}

// GetProperty returns a property by ID.
func (s *Service) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	return s.repo.GetProperty(ctx, id)
}

// Decide finalizes the approve/deny decision for a property.
//
// The status transition and the selection claim commit in one transaction
// holding a row lock on the property, which serializes concurrent decisions
// on the same property. Activation runs after commit with the lock released:
// it talks to the billing provider and must never hold database locks, and
// its failure must never roll back or mask the decision itself.
func (s *Service) Decide(ctx context.Context, propertyID string, decision domain.ServiceStatus, notes, actorID string) error {
	if !decision.IsTerminal() {
		return ErrInvalidDecision
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	property, err := s.repo.GetPropertyForUpdateTx(ctx, tx, propertyID)
	if err != nil {
		return err
	}

	if property.ServiceStatus.IsTerminal() {
		return ErrAlreadyDecided
	}

	if err := s.repo.SetServiceStatusTx(ctx, tx, propertyID, decision, notes); err != nil {
		return fmt.Errorf("set service status: %w", err)
	}

	claimed, err := s.repo.ClaimPendingSelectionsTx(ctx, tx, propertyID)
	if err != nil {
		return fmt.Errorf("claim pending selections: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	logger := ctxlog.FromContext(ctx)

	if decision == domain.ServiceStatusApproved && len(claimed) > 0 {
		result, err := s.activator.Activate(ctx, propertyID, property.UserID, activation.Options{
			Source:    activation.SourceAdminApproval,
			Preloaded: claimed,
		})
		if err != nil {
			logger.Error("post-approval activation failed",
				"property_id", propertyID, "error", err)
		} else {
			logger.Info("post-approval activation finished",
				"property_id", propertyID,
				"activated", result.Activated,
				"failed", result.Failed,
			)
		}
	}

	s.audit.Record(ctx, actorID, domain.AuditActionServiceStatusDecision, domain.AuditEntityProperty, propertyID, map[string]any{
		"decision": string(decision),
		"notes":    notes,
	})

	return nil
}
