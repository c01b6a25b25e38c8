package rider

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/logger"
	wrap "github.com/Harish01234/vahanseva/pkg/logger/wrapper"
	"github.com/Harish01234/vahanseva/pkg/metrics"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

type RiderRepo interface {
	FindActiveCandidates(ctx context.Context, role types.UserRole) ([]models.RiderCandidate, error)
	UpdateLocation(ctx context.Context, riderID uuid.UUID, loc models.Location) error
	SetActive(ctx context.Context, riderID uuid.UUID, active bool) error
}

// Service manages rider availability and location reports.
type Service struct {
	riders RiderRepo
	log    logger.Logger
}

func New(riders RiderRepo, log logger.Logger) *Service {
	return &Service{riders: riders, log: log}
}

func (s *Service) ReportLocation(ctx context.Context, riderID uuid.UUID, loc models.Location) error {
	const op = "rider.ReportLocation"

	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		Action:  "report_location",
		RiderID: riderID.String(),
	})

	if err := loc.Validate(); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidCoordinates, err)
	}

	if err := s.riders.UpdateLocation(ctx, riderID, loc); err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return err
		}
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	s.log.Debug(ctx, "rider location updated", "lat", loc.Latitude, "lon", loc.Longitude)
	return nil
}

func (s *Service) SetAvailability(ctx context.Context, riderID uuid.UUID, active bool) error {
	const op = "rider.SetAvailability"

	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		Action:  "set_availability",
		RiderID: riderID.String(),
	})

	if err := s.riders.SetActive(ctx, riderID, active); err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return err
		}
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	s.refreshActiveGauge(ctx)

	s.log.Info(ctx, "rider availability changed", "active", active)
	return nil
}

func (s *Service) ActiveRiders(ctx context.Context) ([]models.RiderCandidate, error) {
	const op = "rider.ActiveRiders"

	candidates, err := s.riders.FindActiveCandidates(ctx, types.RoleRider)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return candidates, nil
}

func (s *Service) refreshActiveGauge(ctx context.Context) {
	candidates, err := s.riders.FindActiveCandidates(ctx, types.RoleRider)
	if err != nil {
		return
	}
	located := 0
	for _, c := range candidates {
		if c.HasLocation() {
			located++
		}
	}
	metrics.ActiveRidersGauge.WithLabelValues(types.ServiceName).Set(float64(located))
}
