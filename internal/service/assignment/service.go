package assignment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/logger"
	wrap "github.com/Harish01234/vahanseva/pkg/logger/wrapper"
	"github.com/Harish01234/vahanseva/pkg/metrics"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

const defaultGeocodeTimeout = 5 * time.Second

// Service pairs a pending ride with the nearest active rider.
type Service struct {
	rides      RideRepo
	candidates CandidateRepo
	geocoder   Geocoder
	publisher  EventPublisher
	notifier   RiderNotifier

	geocodeTimeout time.Duration
	log            logger.Logger
}

func New(
	rides RideRepo,
	candidates CandidateRepo,
	geocoder Geocoder,
	publisher EventPublisher,
	notifier RiderNotifier,
	geocodeTimeout time.Duration,
	log logger.Logger,
) *Service {
	if geocodeTimeout <= 0 {
		geocodeTimeout = defaultGeocodeTimeout
	}
	return &Service{
		rides:          rides,
		candidates:     candidates,
		geocoder:       geocoder,
		publisher:      publisher,
		notifier:       notifier,
		geocodeTimeout: geocodeTimeout,
		log:            log,
	}
}

// Assign resolves the ride's pickup address, scores every active rider with
// a known location by great-circle distance and commits the closest one.
//
// The commit is a compare-and-swap on the ride status, so of two concurrent
// calls for the same ride exactly one succeeds; the loser gets
// types.ErrRideAlreadyAssigned. All other failures leave the ride untouched.
func (s *Service) Assign(ctx context.Context, rideID uuid.UUID) (*models.Assignment, error) {
	const op = "assignment.Assign"

	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		Action: "assign_rider",
		RideID: rideID.String(),
	})

	ride, err := s.rides.Get(ctx, rideID)
	if err != nil {
		if errors.Is(err, types.ErrRideNotFound) {
			metrics.RecordAssignment(types.ServiceName, "ride_not_found", 0)
			return nil, err
		}
		return nil, wrap.Error(ctx, fmt.Errorf("%s: load ride: %w", op, err))
	}

	if ride.Status != types.StatusPending {
		s.log.Warn(ctx, "ride is not assignable", "status", ride.Status)
		metrics.RecordAssignment(types.ServiceName, "not_pending", 0)
		return nil, types.ErrRideNotPending
	}

	pickup, err := s.geocodePickup(ctx, ride.PickupLocation)
	if err != nil {
		metrics.RecordAssignment(types.ServiceName, "geocode_failed", 0)
		return nil, err
	}

	best, distanceKm, err := s.selectNearest(ctx, pickup)
	if err != nil {
		metrics.RecordAssignment(types.ServiceName, "no_riders", 0)
		return nil, err
	}

	ctx = wrap.WithRiderID(ctx, best.ID.String())

	committed, err := s.rides.AssignRider(ctx, rideID, best.ID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: commit: %w", op, err))
	}
	if !committed {
		// Lost the race: someone else moved the ride out of Pending
		// between our read and the conditional write.
		s.log.Warn(ctx, "assignment commit lost race")
		metrics.RecordAssignment(types.ServiceName, "lost_race", 0)
		return nil, types.ErrRideAlreadyAssigned
	}

	now := time.Now().UTC()
	ride.Status = types.StatusAssigned
	ride.RiderID = &best.ID

	s.log.Info(ctx, "rider assigned", "distance_km", distanceKm)
	metrics.RecordAssignment(types.ServiceName, "assigned", distanceKm)

	// Event publishing and rider notification are best-effort: the
	// assignment is already committed and must not be unwound.
	if s.publisher != nil {
		msg := models.RideAssignedMessage{
			RideID:         rideID,
			RiderID:        best.ID,
			PickupLocation: pickup,
			DistanceKm:     distanceKm,
			AssignedAt:     now,
			CorrelationID:  wrap.GetRequestID(ctx),
		}
		if err := s.publisher.PublishRideAssigned(ctx, msg); err != nil {
			s.log.Error(ctx, "failed to publish assignment event", err)
		}
	}

	if s.notifier != nil {
		notice := models.AssignmentNotice{
			MsgType:         "ride_assigned",
			RideID:          rideID,
			PickupLocation:  pickup,
			DropoffLocation: ride.DropoffLocation,
			RideType:        string(ride.RideType),
			DistanceKm:      distanceKm,
			AssignedAt:      now,
		}
		if err := s.notifier.NotifyAssignment(ctx, best.ID, notice); err != nil {
			s.log.Debug(ctx, "rider not reachable over websocket", "error", err.Error())
		}
	}

	return &models.Assignment{
		Ride:       ride,
		Rider:      best,
		Pickup:     pickup,
		DistanceKm: distanceKm,
	}, nil
}

// geocodePickup resolves the free-text pickup location under a bounded
// timeout. Resolution failure and service unavailability are collapsed
// into the single ErrGeocodeFailed kind with the cause attached.
func (s *Service) geocodePickup(ctx context.Context, location string) (models.Location, error) {
	gctx, cancel := context.WithTimeout(ctx, s.geocodeTimeout)
	defer cancel()

	start := time.Now()
	pickup, err := s.geocoder.Geocode(gctx, location)
	metrics.RecordGeocodeLookup(types.ServiceName, err, time.Since(start))

	if err != nil {
		s.log.Error(wrap.WithAction(ctx, types.ActionExternalServiceFailed), "pickup geocoding failed", err, "pickup", location)
		return models.Location{}, fmt.Errorf("%w: %v", types.ErrGeocodeFailed, err)
	}

	if err := pickup.Validate(); err != nil {
		return models.Location{}, fmt.Errorf("%w: %v", types.ErrGeocodeFailed, err)
	}

	return pickup, nil
}

// selectNearest scores every candidate with a known location and returns
// the strict arg-min. Candidates without coordinates do not participate.
// Ties go to the first candidate in repository order (sorted by id).
func (s *Service) selectNearest(ctx context.Context, pickup models.Location) (models.RiderCandidate, float64, error) {
	const op = "assignment.selectNearest"

	candidates, err := s.candidates.FindActiveCandidates(ctx, types.RoleRider)
	if err != nil {
		return models.RiderCandidate{}, 0, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	var (
		best     models.RiderCandidate
		bestDist = math.MaxFloat64
		found    bool
	)

	for _, cand := range candidates {
		if !cand.HasLocation() {
			continue
		}
		if err := cand.Location.Validate(); err != nil {
			s.log.Warn(ctx, "skipping rider with invalid coordinates", "rider_id", cand.ID.String())
			continue
		}

		dist := HaversineDistance(
			pickup.Latitude, pickup.Longitude,
			cand.Location.Latitude, cand.Location.Longitude,
		)
		if dist < bestDist {
			best = cand
			bestDist = dist
			found = true
		}
	}

	if !found {
		return models.RiderCandidate{}, 0, types.ErrNoAvailableRiders
	}

	return best, bestDist, nil
}
