package ride

import (
	"context"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

type (
	RideRepo interface {
		Create(ctx context.Context, ride *models.Ride) (*models.Ride, error)
		Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)

		// TransitionStatus atomically moves the ride from exactly `from`
		// to `to`. Returns false when the ride was no longer in `from`.
		TransitionStatus(ctx context.Context, rideID uuid.UUID, from, to types.RideStatus) (bool, error)

		List(ctx context.Context, filter models.RideFilter) ([]models.Ride, error)
	}

	StatusPublisher interface {
		PublishRideStatus(ctx context.Context, msg models.RideStatusMessage) error
	}

	UserRepo interface {
		GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	}
)
