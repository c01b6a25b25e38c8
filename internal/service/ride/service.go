package ride

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/logger"
	wrap "github.com/Harish01234/vahanseva/pkg/logger/wrapper"
	"github.com/Harish01234/vahanseva/pkg/metrics"
	"github.com/Harish01234/vahanseva/pkg/trm"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

var ErrCustomerNotFound = errors.New("customer does not exist")

// Service owns the ride lifecycle outside of assignment: booking,
// manual status transitions and listing.
type Service struct {
	rides     RideRepo
	users     UserRepo
	publisher StatusPublisher
	txManager trm.TxManager
	log       logger.Logger
}

func New(rides RideRepo, users UserRepo, publisher StatusPublisher, txManager trm.TxManager, log logger.Logger) *Service {
	return &Service{
		rides:     rides,
		users:     users,
		publisher: publisher,
		txManager: txManager,
		log:       log,
	}
}

// Book creates a new ride in the Pending state for the given customer.
func (s *Service) Book(ctx context.Context, customerID uuid.UUID, pickup, dropoff string, rideType types.RideType) (*models.Ride, error) {
	const op = "ride.Book"

	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		Action: "book_ride",
		UserID: customerID.String(),
	})

	ride := &models.Ride{
		ID:              uuid.New(),
		CustomerID:      customerID,
		PickupLocation:  pickup,
		DropoffLocation: dropoff,
		RideType:        rideType,
		Status:          types.StatusPending,
		BookedAt:        time.Now().UTC(),
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		customer, err := s.users.GetByID(ctx, customerID)
		if err != nil {
			if errors.Is(err, types.ErrUserNotFound) {
				return ErrCustomerNotFound
			}
			return fmt.Errorf("%s: load customer: %w", op, err)
		}
		if customer.Role != types.RoleCustomer {
			return ErrCustomerNotFound
		}

		if _, err := s.rides.Create(ctx, ride); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return nil, err
		}
		return nil, wrap.Error(ctx, err)
	}

	s.log.Info(wrap.WithRideID(ctx, ride.ID.String()), "ride booked", "ride_type", ride.RideType)
	metrics.RidesBookedTotal.WithLabelValues(types.ServiceName, string(ride.RideType)).Inc()

	return ride, nil
}

// UpdateState moves the ride to the requested status, enforcing the
// one-way progression. The write is conditional on the status observed
// here, so concurrent updates cannot leapfrog a state.
func (s *Service) UpdateState(ctx context.Context, rideID uuid.UUID, next types.RideStatus) (*models.Ride, error) {
	const op = "ride.UpdateState"

	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		Action: "update_ride_state",
		RideID: rideID.String(),
	})

	ride, err := s.rides.Get(ctx, rideID)
	if err != nil {
		if errors.Is(err, types.ErrRideNotFound) {
			return nil, err
		}
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	if !ride.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", types.ErrInvalidTransition, ride.Status, next)
	}

	moved, err := s.rides.TransitionStatus(ctx, rideID, ride.Status, next)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if !moved {
		// Status changed under us between the read and the write.
		return nil, fmt.Errorf("%w: ride is no longer %s", types.ErrInvalidTransition, ride.Status)
	}

	old := ride.Status
	ride.Status = next
	if next == types.StatusCompleted {
		now := time.Now().UTC()
		ride.CompletedAt = &now
	}

	s.log.Info(ctx, "ride state updated", "from", old, "to", next)

	if s.publisher != nil {
		msg := models.RideStatusMessage{
			RideID:        rideID,
			OldStatus:     old,
			NewStatus:     next,
			Timestamp:     time.Now().UTC(),
			CorrelationID: wrap.GetRequestID(ctx),
		}
		if err := s.publisher.PublishRideStatus(ctx, msg); err != nil {
			s.log.Error(ctx, "failed to publish ride status event", err)
		}
	}

	return ride, nil
}

func (s *Service) Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	return s.rides.Get(ctx, rideID)
}

func (s *Service) List(ctx context.Context, filter models.RideFilter) ([]models.Ride, error) {
	const op = "ride.List"

	rides, err := s.rides.List(ctx, filter)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return rides, nil
}
