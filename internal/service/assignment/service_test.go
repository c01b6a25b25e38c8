package assignment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/logger"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

type fakeRideRepo struct {
	mu    sync.Mutex
	rides map[uuid.UUID]*models.Ride
}

func newFakeRideRepo(rides ...*models.Ride) *fakeRideRepo {
	r := &fakeRideRepo{rides: make(map[uuid.UUID]*models.Ride)}
	for _, ride := range rides {
		r.rides[ride.ID] = ride
	}
	return r
}

func (r *fakeRideRepo) Get(_ context.Context, rideID uuid.UUID) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[rideID]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	cp := *ride
	return &cp, nil
}

func (r *fakeRideRepo) AssignRider(_ context.Context, rideID, riderID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[rideID]
	if !ok {
		return false, types.ErrRideNotFound
	}
	if ride.Status != types.StatusPending {
		return false, nil
	}
	ride.Status = types.StatusAssigned
	ride.RiderID = &riderID
	return true, nil
}

type fakeCandidateRepo struct {
	candidates []models.RiderCandidate
	err        error
}

func (r *fakeCandidateRepo) FindActiveCandidates(_ context.Context, _ types.UserRole) ([]models.RiderCandidate, error) {
	return r.candidates, r.err
}

type fakeGeocoder struct {
	loc models.Location
	err error
}

func (g *fakeGeocoder) Geocode(_ context.Context, _ string) (models.Location, error) {
	return g.loc, g.err
}

type capturedPublisher struct {
	mu   sync.Mutex
	msgs []models.RideAssignedMessage
	err  error
}

func (p *capturedPublisher) PublishRideAssigned(_ context.Context, msg models.RideAssignedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func candidateAt(lat, lon float64) models.RiderCandidate {
	return models.RiderCandidate{
		ID:       uuid.New(),
		Name:     "rider",
		IsActive: true,
		Location: &models.Location{Latitude: lat, Longitude: lon},
	}
}

func pendingRide() *models.Ride {
	return &models.Ride{
		ID:              uuid.New(),
		CustomerID:      uuid.New(),
		PickupLocation:  "Connaught Place, Delhi",
		DropoffLocation: "IGI Airport, Delhi",
		RideType:        types.RideTypeCar,
		Status:          types.StatusPending,
	}
}

func testLogger() logger.Logger {
	return logger.InitLogger("assignment-test", logger.LevelError)
}

func TestAssign_PicksNearestRider(t *testing.T) {
	ride := pendingRide()

	// Pickup at the origin; riders at increasing distances.
	near := candidateAt(0.01, 0.01)
	mid := candidateAt(0.05, 0.0)
	far := candidateAt(0.1, 0.1)

	svc := New(
		newFakeRideRepo(ride),
		&fakeCandidateRepo{candidates: []models.RiderCandidate{far, near, mid}},
		&fakeGeocoder{loc: models.Location{Latitude: 0, Longitude: 0}},
		nil, nil, 0, testLogger(),
	)

	got, err := svc.Assign(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Rider.ID != near.ID {
		t.Fatalf("expected nearest rider %s, got %s", near.ID, got.Rider.ID)
	}
	if got.Ride.Status != types.StatusAssigned {
		t.Fatalf("expected status %s, got %s", types.StatusAssigned, got.Ride.Status)
	}
	if got.Ride.RiderID == nil || *got.Ride.RiderID != near.ID {
		t.Fatalf("rider id not set on ride")
	}
	if got.DistanceKm <= 0 {
		t.Fatalf("expected positive distance, got %f", got.DistanceKm)
	}
}

func TestAssign_SkipsRidersWithoutLocation(t *testing.T) {
	ride := pendingRide()

	noLoc := models.RiderCandidate{ID: uuid.New(), Name: "ghost", IsActive: true}
	withLoc := candidateAt(1, 1)

	svc := New(
		newFakeRideRepo(ride),
		&fakeCandidateRepo{candidates: []models.RiderCandidate{noLoc, withLoc}},
		&fakeGeocoder{loc: models.Location{Latitude: 0, Longitude: 0}},
		nil, nil, 0, testLogger(),
	)

	got, err := svc.Assign(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Rider.ID != withLoc.ID {
		t.Fatalf("expected the located rider, got %s", got.Rider.ID)
	}
}

func TestAssign_RideNotFound(t *testing.T) {
	svc := New(
		newFakeRideRepo(),
		&fakeCandidateRepo{},
		&fakeGeocoder{},
		nil, nil, 0, testLogger(),
	)

	_, err := svc.Assign(context.Background(), uuid.New())
	if !errors.Is(err, types.ErrRideNotFound) {
		t.Fatalf("expected ErrRideNotFound, got %v", err)
	}
}

func TestAssign_RideNotPending(t *testing.T) {
	ride := pendingRide()
	ride.Status = types.StatusCompleted

	svc := New(
		newFakeRideRepo(ride),
		&fakeCandidateRepo{candidates: []models.RiderCandidate{candidateAt(0, 0)}},
		&fakeGeocoder{loc: models.Location{}},
		nil, nil, 0, testLogger(),
	)

	_, err := svc.Assign(context.Background(), ride.ID)
	if !errors.Is(err, types.ErrRideNotPending) {
		t.Fatalf("expected ErrRideNotPending, got %v", err)
	}
}

func TestAssign_NoAvailableRiders(t *testing.T) {
	ride := pendingRide()

	svc := New(
		newFakeRideRepo(ride),
		&fakeCandidateRepo{},
		&fakeGeocoder{loc: models.Location{Latitude: 0, Longitude: 0}},
		nil, nil, 0, testLogger(),
	)

	_, err := svc.Assign(context.Background(), ride.ID)
	if !errors.Is(err, types.ErrNoAvailableRiders) {
		t.Fatalf("expected ErrNoAvailableRiders, got %v", err)
	}
}

func TestAssign_AllRidersWithoutLocation(t *testing.T) {
	ride := pendingRide()
	svc := New(
		newFakeRideRepo(ride),
		&fakeCandidateRepo{candidates: []models.RiderCandidate{
			{ID: uuid.New(), IsActive: true},
			{ID: uuid.New(), IsActive: true},
		}},
		&fakeGeocoder{loc: models.Location{Latitude: 0, Longitude: 0}},
		nil, nil, 0, testLogger(),
	)

	_, err := svc.Assign(context.Background(), ride.ID)
	if !errors.Is(err, types.ErrNoAvailableRiders) {
		t.Fatalf("expected ErrNoAvailableRiders, got %v", err)
	}
}

func TestAssign_GeocodeFailure(t *testing.T) {
	ride := pendingRide()

	svc := New(
		newFakeRideRepo(ride),
		&fakeCandidateRepo{candidates: []models.RiderCandidate{candidateAt(0, 0)}},
		&fakeGeocoder{err: errors.New("upstream timeout")},
		nil, nil, 0, testLogger(),
	)

	_, err := svc.Assign(context.Background(), ride.ID)
	if !errors.Is(err, types.ErrGeocodeFailed) {
		t.Fatalf("expected ErrGeocodeFailed, got %v", err)
	}

	got, _ := svc.rides.Get(context.Background(), ride.ID)
	if got.Status != types.StatusPending {
		t.Fatalf("ride must stay Pending after geocode failure, got %s", got.Status)
	}
}

func TestAssign_LocationNotFound(t *testing.T) {
	ride := pendingRide()

	svc := New(
		newFakeRideRepo(ride),
		&fakeCandidateRepo{candidates: []models.RiderCandidate{candidateAt(0, 0)}},
		&fakeGeocoder{err: types.ErrLocationNotFound},
		nil, nil, 0, testLogger(),
	)

	_, err := svc.Assign(context.Background(), ride.ID)
	if !errors.Is(err, types.ErrGeocodeFailed) {
		t.Fatalf("expected ErrGeocodeFailed, got %v", err)
	}
}

func TestAssign_PublishesEvent(t *testing.T) {
	ride := pendingRide()
	rider := candidateAt(0.01, 0.01)
	pub := &capturedPublisher{}

	svc := New(
		newFakeRideRepo(ride),
		&fakeCandidateRepo{candidates: []models.RiderCandidate{rider}},
		&fakeGeocoder{loc: models.Location{Latitude: 0, Longitude: 0}},
		pub, nil, 0, testLogger(),
	)

	if _, err := svc.Assign(context.Background(), ride.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.msgs) != 1 {
		t.Fatalf("expected one published message, got %d", len(pub.msgs))
	}
	msg := pub.msgs[0]
	if msg.RideID != ride.ID || msg.RiderID != rider.ID {
		t.Fatalf("published message carries wrong ids: %+v", msg)
	}
}

func TestAssign_PublishFailureDoesNotUnwind(t *testing.T) {
	ride := pendingRide()
	pub := &capturedPublisher{err: errors.New("broker down")}

	repo := newFakeRideRepo(ride)
	svc := New(
		repo,
		&fakeCandidateRepo{candidates: []models.RiderCandidate{candidateAt(0, 0)}},
		&fakeGeocoder{loc: models.Location{Latitude: 0, Longitude: 0}},
		pub, nil, 0, testLogger(),
	)

	got, err := svc.Assign(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("publish failure must not fail the assignment: %v", err)
	}
	if got.Ride.Status != types.StatusAssigned {
		t.Fatalf("expected status %s, got %s", types.StatusAssigned, got.Ride.Status)
	}
}

func TestAssign_ConcurrentCallsCommitExactlyOnce(t *testing.T) {
	ride := pendingRide()
	repo := newFakeRideRepo(ride)

	svc := New(
		repo,
		&fakeCandidateRepo{candidates: []models.RiderCandidate{candidateAt(0.01, 0.01), candidateAt(0.02, 0.02)}},
		&fakeGeocoder{loc: models.Location{Latitude: 0, Longitude: 0}},
		nil, nil, 0, testLogger(),
	)

	const workers = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Assign(context.Background(), ride.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, types.ErrRideAlreadyAssigned) || errors.Is(err, types.ErrRideNotPending):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d (conflicts: %d)", wins, conflicts)
	}
	if conflicts != workers-1 {
		t.Fatalf("expected %d conflicts, got %d", workers-1, conflicts)
	}
}
