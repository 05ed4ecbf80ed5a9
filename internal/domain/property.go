package domain

import "time"

// ServiceStatus represents the feasibility-review state of a property.
type ServiceStatus string

// Property service statuses. pending_review is the only non-terminal state.
const (
	ServiceStatusPendingReview ServiceStatus = "pending_review"
	ServiceStatusApproved      ServiceStatus = "approved"
	ServiceStatusDenied        ServiceStatus = "denied"
)

// IsValid checks if the service status is valid.
func (s ServiceStatus) IsValid() bool {
	switch s {
	case ServiceStatusPendingReview, ServiceStatusApproved, ServiceStatusDenied:
		return true
	}
	return false
}

// IsTerminal reports whether the status is a final review decision.
// Terminal statuses cannot be overwritten.
func (s ServiceStatus) IsTerminal() bool {
	return s == ServiceStatusApproved || s == ServiceStatusDenied
}

// Property represents a service address owned by a customer.
type Property struct {
	ID                     string        `json:"id"`
	UserID                 string        `json:"user_id"`
	Address                string        `json:"address"`
	City                   string        `json:"city"`
	State                  string        `json:"state"`
	ZipCode                string        `json:"zip_code"`
	ServiceStatus          ServiceStatus `json:"service_status"`
	ServiceStatusNotes     string        `json:"service_status_notes"`
	ServiceStatusUpdatedAt *time.Time    `json:"service_status_updated_at,omitempty"`
	CreatedAt              time.Time     `json:"created_at"`
	UpdatedAt              time.Time     `json:"updated_at"`
}
