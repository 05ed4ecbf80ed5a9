package domain

import "time"

// Audit actions recorded by this service.
const (
	AuditActionServiceStatusDecision  = "service_status_decision"
	AuditActionSubscriptionsActivated = "subscriptions_activated"
)

// Audit entity types.
const (
	AuditEntityProperty = "property"
)

// AuditLogEntry is an append-only record of an administrative or automated
// action. Details carries action-specific fields and is stored as JSON.
type AuditLogEntry struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actor_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Details    map[string]any `json:"details"`
	CreatedAt  time.Time      `json:"created_at"`
}
