package models

import (
	"time"

	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

// Ride represents one transportation request. Pickup and dropoff are the
// free-text location strings entered by the customer; coordinates are only
// resolved at assignment time.
type Ride struct {
	ID              uuid.UUID        `json:"ride_id"`
	CustomerID      uuid.UUID        `json:"customer_id"`
	RiderID         *uuid.UUID       `json:"rider_id,omitempty"`
	PickupLocation  string           `json:"pickup_location"`
	DropoffLocation string           `json:"dropoff_location"`
	RideType        types.RideType   `json:"ride_type"`
	Status          types.RideStatus `json:"status"`
	BookedAt        time.Time        `json:"booked_at"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	UpdatedAt       time.Time        `json:"-"`
}

// RideFilter narrows ride listings. Zero values mean "no constraint".
type RideFilter struct {
	CustomerID uuid.UUID
	RiderID    uuid.UUID
	Status     types.RideStatus
	Limit      int
	Offset     int
}

// Assignment is the transient result of a successful rider assignment.
type Assignment struct {
	Ride       *Ride          `json:"ride"`
	Rider      RiderCandidate `json:"rider"`
	Pickup     Location       `json:"pickup_coordinates"`
	DistanceKm float64        `json:"distance_km"`
}
