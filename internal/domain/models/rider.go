package models

import (
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

// RiderCandidate is a point-in-time snapshot of a rider eligible for
// assignment. Location is nil when the rider has never reported one;
// such candidates never participate in selection.
type RiderCandidate struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	IsActive bool      `json:"is_active"`
	Location *Location `json:"location,omitempty"`
}

// HasLocation reports whether the candidate can be scored.
func (c RiderCandidate) HasLocation() bool {
	return c.Location != nil
}
