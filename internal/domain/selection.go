package domain

import "time"

// EquipmentType describes how a customer's waste is containerized.
// The string form is only sent to the billing provider as subscription
// metadata; storage keeps the raw use_sticker flag.
type EquipmentType string

const (
	// EquipmentRental is a company-provided can.
	EquipmentRental EquipmentType = "rental"
	// EquipmentOwnCan is a customer-owned can identified by a sticker.
	EquipmentOwnCan EquipmentType = "own_can"
)

// PendingSelection is one service option a customer chose for a property
// before the property passed feasibility review. Stored with replace-all
// semantics per property and destroyed exactly once when claimed.
type PendingSelection struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	UserID     string    `json:"user_id"`
	ServiceID  string    `json:"service_id"`
	Quantity   int       `json:"quantity"`
	UseSticker bool      `json:"use_sticker"`
	CreatedAt  time.Time `json:"created_at"`
}

// Equipment returns the equipment variant for the selection.
func (s *PendingSelection) Equipment() EquipmentType {
	if s.UseSticker {
		return EquipmentOwnCan
	}
	return EquipmentRental
}
