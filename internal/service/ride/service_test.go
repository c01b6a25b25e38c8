package ride

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

func newFakeRideRepo() *fakeRideRepo {
	return &fakeRideRepo{rides: make(map[uuid.UUID]*models.Ride)}
}

func (r *fakeRideRepo) Create(_ context.Context, ride *models.Ride) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ride
	r.rides[ride.ID] = &cp
	return ride, nil
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

func (r *fakeRideRepo) TransitionStatus(_ context.Context, rideID uuid.UUID, from, to types.RideStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[rideID]
	if !ok {
		return false, types.ErrRideNotFound
	}
	if ride.Status != from {
		return false, nil
	}
	ride.Status = to
	return true, nil
}

func (r *fakeRideRepo) List(_ context.Context, filter models.RideFilter) ([]models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Ride
	for _, ride := range r.rides {
		if !filter.CustomerID.IsNil() && ride.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && ride.Status != filter.Status {
			continue
		}
		out = append(out, *ride)
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return u, nil
}

type fakeStatusPublisher struct {
	mu   sync.Mutex
	msgs []models.RideStatusMessage
}

func (p *fakeStatusPublisher) PublishRideStatus(_ context.Context, msg models.RideStatusMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

// noopTxManager runs the function without a transaction. The repos in
// these tests are in-memory so there is nothing to roll back.
type noopTxManager struct{}

func (noopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testLogger() logger.Logger {
	return logger.InitLogger("ride-test", logger.LevelError)
}

func newService(repo *fakeRideRepo, users *fakeUserRepo, pub *fakeStatusPublisher) *Service {
	var sp StatusPublisher
	if pub != nil {
		sp = pub
	}
	return New(repo, users, sp, noopTxManager{}, testLogger())
}

func customerFixture() *models.User {
	return &models.User{
		ID:   uuid.New(),
		Name: "Asha",
		Role: types.RoleCustomer,
	}
}

func TestBook_CreatesPendingRide(t *testing.T) {
	repo := newFakeRideRepo()
	customer := customerFixture()
	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{customer.ID: customer}}

	svc := newService(repo, users, nil)

	ride, err := svc.Book(context.Background(), customer.ID, "Karol Bagh", "Hauz Khas", types.RideTypeBike)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.Status != types.StatusPending {
		t.Fatalf("expected Pending, got %s", ride.Status)
	}
	if ride.ID.IsNil() {
		t.Fatal("ride id not generated")
	}
	if ride.BookedAt.IsZero() {
		t.Fatal("booked_at not set")
	}

	stored, err := repo.Get(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("ride not persisted: %v", err)
	}
	if stored.CustomerID != customer.ID {
		t.Fatalf("wrong customer on stored ride")
	}
}

func TestBook_UnknownCustomer(t *testing.T) {
	svc := newService(newFakeRideRepo(), &fakeUserRepo{users: map[uuid.UUID]*models.User{}}, nil)

	_, err := svc.Book(context.Background(), uuid.New(), "a", "b", types.RideTypeCar)
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestBook_RiderCannotBook(t *testing.T) {
	rider := &models.User{ID: uuid.New(), Role: types.RoleRider}
	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{rider.ID: rider}}

	svc := newService(newFakeRideRepo(), users, nil)

	_, err := svc.Book(context.Background(), rider.ID, "a", "b", types.RideTypeCar)
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound for rider role, got %v", err)
	}
}

func TestUpdateState_ValidProgression(t *testing.T) {
	repo := newFakeRideRepo()
	customer := customerFixture()
	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{customer.ID: customer}}
	pub := &fakeStatusPublisher{}

	svc := newService(repo, users, pub)

	ride, err := svc.Book(context.Background(), customer.ID, "a", "b", types.RideTypeCar)
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	// Walk the full lifecycle.
	steps := []types.RideStatus{types.StatusAssigned, types.StatusEnRoute, types.StatusCompleted}
	for _, next := range steps {
		updated, err := svc.UpdateState(context.Background(), ride.ID, next)
		if err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
		if updated.Status != next {
			t.Fatalf("expected %s, got %s", next, updated.Status)
		}
	}

	final, _ := repo.Get(context.Background(), ride.ID)
	if final.Status != types.StatusCompleted {
		t.Fatalf("expected Completed, got %s", final.Status)
	}
	if len(pub.msgs) != len(steps) {
		t.Fatalf("expected %d status events, got %d", len(steps), len(pub.msgs))
	}
}

func TestUpdateState_CompletedSetsTimestamp(t *testing.T) {
	repo := newFakeRideRepo()
	customer := customerFixture()
	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{customer.ID: customer}}

	svc := newService(repo, users, nil)

	ride, _ := svc.Book(context.Background(), customer.ID, "a", "b", types.RideTypeCar)
	svc.UpdateState(context.Background(), ride.ID, types.StatusAssigned)
	svc.UpdateState(context.Background(), ride.ID, types.StatusEnRoute)

	updated, err := svc.UpdateState(context.Background(), ride.ID, types.StatusCompleted)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if updated.CompletedAt == nil {
		t.Fatal("completed_at not set on completion")
	}
}

func TestUpdateState_RejectsSkippedStates(t *testing.T) {
	repo := newFakeRideRepo()
	customer := customerFixture()
	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{customer.ID: customer}}

	svc := newService(repo, users, nil)

	ride, _ := svc.Book(context.Background(), customer.ID, "a", "b", types.RideTypeCar)

	// Pending cannot jump straight to En Route or Completed.
	for _, next := range []types.RideStatus{types.StatusEnRoute, types.StatusCompleted} {
		if _, err := svc.UpdateState(context.Background(), ride.ID, next); !errors.Is(err, types.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition for Pending->%s, got %v", next, err)
		}
	}
}

func TestUpdateState_TerminalStatesAreFinal(t *testing.T) {
	repo := newFakeRideRepo()
	customer := customerFixture()
	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{customer.ID: customer}}

	svc := newService(repo, users, nil)

	ride, _ := svc.Book(context.Background(), customer.ID, "a", "b", types.RideTypeCar)
	if _, err := svc.UpdateState(context.Background(), ride.ID, types.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := svc.UpdateState(context.Background(), ride.ID, types.StatusAssigned); !errors.Is(err, types.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition out of Cancelled, got %v", err)
	}
}

func TestUpdateState_CancellableFromAnyNonTerminal(t *testing.T) {
	repo := newFakeRideRepo()
	customer := customerFixture()
	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{customer.ID: customer}}

	svc := newService(repo, users, nil)

	for _, setup := range [][]types.RideStatus{
		{},
		{types.StatusAssigned},
		{types.StatusAssigned, types.StatusEnRoute},
	} {
		ride, _ := svc.Book(context.Background(), customer.ID, "a", "b", types.RideTypeCar)
		for _, next := range setup {
			if _, err := svc.UpdateState(context.Background(), ride.ID, next); err != nil {
				t.Fatalf("setup transition to %s: %v", next, err)
			}
		}
		if _, err := svc.UpdateState(context.Background(), ride.ID, types.StatusCancelled); err != nil {
			t.Fatalf("cancel after %v: %v", setup, err)
		}
	}
}

func TestUpdateState_RideNotFound(t *testing.T) {
	svc := newService(newFakeRideRepo(), &fakeUserRepo{}, nil)

	_, err := svc.UpdateState(context.Background(), uuid.New(), types.StatusAssigned)
	if !errors.Is(err, types.ErrRideNotFound) {
		t.Fatalf("expected ErrRideNotFound, got %v", err)
	}
}

func TestList_FiltersByCustomer(t *testing.T) {
	repo := newFakeRideRepo()
	a := customerFixture()
	b := customerFixture()
	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{a.ID: a, b.ID: b}}

	svc := newService(repo, users, nil)

	svc.Book(context.Background(), a.ID, "p1", "d1", types.RideTypeCar)
	svc.Book(context.Background(), a.ID, "p2", "d2", types.RideTypeBike)
	svc.Book(context.Background(), b.ID, "p3", "d3", types.RideTypeCar)

	rides, err := svc.List(context.Background(), models.RideFilter{CustomerID: a.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rides) != 2 {
		t.Fatalf("expected 2 rides for customer, got %d", len(rides))
	}
}
