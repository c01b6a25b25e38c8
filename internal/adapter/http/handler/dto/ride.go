package dto

import (
	"time"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/uuid"
	"github.com/Harish01234/vahanseva/pkg/validator"
)

type BookRideRequest struct {
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
	RideType        string `json:"ride_type"`
}

func (r *BookRideRequest) Validate(v *validator.Validator) {
	v.Check(r.PickupLocation != "", "pickup_location", "must be provided")
	v.Check(len(r.PickupLocation) <= 255, "pickup_location", "must not be more than 255 characters long")

	v.Check(r.DropoffLocation != "", "dropoff_location", "must be provided")
	v.Check(len(r.DropoffLocation) <= 255, "dropoff_location", "must not be more than 255 characters long")

	v.Check(r.RideType != "", "ride_type", "must be provided")
	if r.RideType != "" {
		v.Check(validator.PermittedValue(r.RideType, "bike", "car"), "ride_type", "must be one of bike or car")
	}
}

type BookRideResponse struct {
	RideID   uuid.UUID `json:"ride_id"`
	Status   string    `json:"status"`
	BookedAt time.Time `json:"booked_at"`
}

type UpdateRideStateRequest struct {
	Status string `json:"status"`
}

func (r *UpdateRideStateRequest) Validate(v *validator.Validator) {
	v.Check(r.Status != "", "status", "must be provided")
	if r.Status != "" {
		v.Check(validator.PermittedValue(r.Status,
			string(types.StatusAssigned),
			string(types.StatusEnRoute),
			string(types.StatusCompleted),
			string(types.StatusCancelled),
		), "status", "must be one of Assigned, En Route, Completed or Cancelled")
	}
}

type AssignRideResponse struct {
	RideID     uuid.UUID       `json:"ride_id"`
	RiderID    uuid.UUID       `json:"rider_id"`
	RiderName  string          `json:"rider_name"`
	Status     string          `json:"status"`
	Pickup     models.Location `json:"pickup_coordinates"`
	DistanceKm float64         `json:"distance_km"`
}

func NewAssignRideResponse(a *models.Assignment) AssignRideResponse {
	return AssignRideResponse{
		RideID:     a.Ride.ID,
		RiderID:    a.Rider.ID,
		RiderName:  a.Rider.Name,
		Status:     string(a.Ride.Status),
		Pickup:     a.Pickup,
		DistanceKm: a.DistanceKm,
	}
}
