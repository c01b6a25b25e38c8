package models

import (
	"time"

	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

/* ======================= rabbitmq ======================= */

// RideAssignedMessage is published after a successful assignment commit.
type RideAssignedMessage struct {
	RideID         uuid.UUID `json:"ride_id"`
	RiderID        uuid.UUID `json:"rider_id"`
	PickupLocation Location  `json:"pickup_location"`
	DistanceKm     float64   `json:"distance_km"`
	AssignedAt     time.Time `json:"assigned_at"`
	CorrelationID  string    `json:"correlation_id"`
}

// RideStatusMessage is published on every ride state transition.
type RideStatusMessage struct {
	RideID        uuid.UUID        `json:"ride_id"`
	OldStatus     types.RideStatus `json:"old_status"`
	NewStatus     types.RideStatus `json:"new_status"`
	Timestamp     time.Time        `json:"timestamp"`
	CorrelationID string           `json:"correlation_id"`
}

/* ======================= websocket ======================= */

// AssignmentNotice is pushed to the selected rider's websocket.
type AssignmentNotice struct {
	MsgType         string    `json:"type"` // always "ride_assigned"
	RideID          uuid.UUID `json:"ride_id"`
	PickupLocation  Location  `json:"pickup_location"`
	DropoffLocation string    `json:"dropoff_location"`
	RideType        string    `json:"ride_type"`
	DistanceKm      float64   `json:"distance_km"`
	AssignedAt      time.Time `json:"assigned_at"`
}
