package review

import "errors"

var (
	// ErrPropertyNotFound is returned when no property exists with the given ID.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrAlreadyDecided is returned when the property's service status is
	// already terminal. Decisions are final and cannot be overwritten.
	ErrAlreadyDecided = errors.New("property service status already decided")
	// ErrInvalidDecision is returned for a decision other than approved or denied.
	ErrInvalidDecision = errors.New("decision must be approved or denied")
)
