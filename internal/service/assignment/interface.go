package assignment

import (
	"context"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

type (
	RideRepo interface {
		Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)

		// AssignRider atomically moves the ride from Pending to Assigned and
		// sets the rider. Returns false when the ride was no longer Pending.
		AssignRider(ctx context.Context, rideID, riderID uuid.UUID) (bool, error)
	}

	CandidateRepo interface {
		// FindActiveCandidates returns active users of the given role,
		// ordered by id so tie-breaks are deterministic.
		FindActiveCandidates(ctx context.Context, role types.UserRole) ([]models.RiderCandidate, error)
	}

	Geocoder interface {
		Geocode(ctx context.Context, location string) (models.Location, error)
	}

	EventPublisher interface {
		PublishRideAssigned(ctx context.Context, msg models.RideAssignedMessage) error
	}

	RiderNotifier interface {
		NotifyAssignment(ctx context.Context, riderID uuid.UUID, notice models.AssignmentNotice) error
	}
)
