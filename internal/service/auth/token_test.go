package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/logger"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

type memUserRepo struct {
	byID    map[uuid.UUID]*models.User
	byEmail map[string]*models.User
}

func newMemUserRepo(users ...*models.User) *memUserRepo {
	r := &memUserRepo{
		byID:    make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]*models.User),
	}
	for _, u := range users {
		r.byID[u.ID] = u
		r.byEmail[u.Email] = u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, types.ErrEmailTaken
	}
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return u, nil
}

type memRefreshRepo struct {
	records map[uuid.UUID]*models.RefreshTokenRecord
}

func newMemRefreshRepo() *memRefreshRepo {
	return &memRefreshRepo{records: make(map[uuid.UUID]*models.RefreshTokenRecord)}
}

func (r *memRefreshRepo) Save(_ context.Context, record *models.RefreshTokenRecord) error {
	cp := *record
	r.records[record.ID] = &cp
	return nil
}

func (r *memRefreshRepo) Get(_ context.Context, tokenID uuid.UUID) (*models.RefreshTokenRecord, error) {
	rec, ok := r.records[tokenID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *memRefreshRepo) Revoke(_ context.Context, tokenID uuid.UUID) error {
	if rec, ok := r.records[tokenID]; ok {
		rec.Revoked = true
	}
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testLogger() logger.Logger {
	return logger.InitLogger("auth-test", logger.LevelError)
}

func userFixture() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Name:  "Ravi",
		Email: "ravi@example.com",
		Role:  types.RoleRider,
	}
}

func newTokenService(users *memUserRepo, refresh *memRefreshRepo) *TokenService {
	return NewTokenService("test-secret", users, refresh, passthroughTxManager{}, time.Hour, time.Minute, testLogger())
}

func TestGenerateTokens_ValidatesRoundTrip(t *testing.T) {
	user := userFixture()
	svc := newTokenService(newMemUserRepo(user), newMemRefreshRepo())

	pair, err := svc.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty tokens in pair")
	}

	claims, err := svc.Validate(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("wrong user id in claims: %s", claims.UserID)
	}
	if claims.TokenType != models.AccessToken {
		t.Fatalf("expected access type, got %s", claims.TokenType)
	}
	if claims.Role != types.RoleRider {
		t.Fatalf("expected rider role, got %s", claims.Role)
	}
}

func TestValidate_RejectsWrongSecret(t *testing.T) {
	user := userFixture()
	issuer := newTokenService(newMemUserRepo(user), newMemRefreshRepo())
	verifier := NewTokenService("other-secret", newMemUserRepo(user), newMemRefreshRepo(), passthroughTxManager{}, time.Hour, time.Minute, testLogger())

	pair, err := issuer.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := verifier.Validate(context.Background(), pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_RejectsGarbage(t *testing.T) {
	svc := newTokenService(newMemUserRepo(), newMemRefreshRepo())

	if _, err := svc.Validate(context.Background(), "not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefresh_RotatesTokens(t *testing.T) {
	user := userFixture()
	refresh := newMemRefreshRepo()
	svc := newTokenService(newMemUserRepo(user), refresh)

	pair, err := svc.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	// The old token was revoked and cannot be replayed.
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on replay, got %v", err)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	user := userFixture()
	svc := newTokenService(newMemUserRepo(user), newMemRefreshRepo())

	pair, err := svc.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access token, got %v", err)
	}
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	user := userFixture()
	refresh := newMemRefreshRepo()
	svc := newTokenService(newMemUserRepo(user), refresh)

	pair, err := svc.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := svc.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}

	// The revoked token cannot be rotated any more.
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}

	// Logging out twice is not an error.
	if err := svc.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestLogout_RejectsAccessToken(t *testing.T) {
	user := userFixture()
	svc := newTokenService(newMemUserRepo(user), newMemRefreshRepo())

	pair, err := svc.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := svc.Logout(context.Background(), pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access token, got %v", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	users := newMemUserRepo()
	tokens := newTokenService(users, newMemRefreshRepo())
	svc := NewAuthService(users, tokens, testLogger())

	id, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Meera",
		Email:    "meera@example.com",
		Phone:    "+911234567890",
		Password: "s3cret-pass",
		Role:     types.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id.IsNil() {
		t.Fatal("no id returned from register")
	}

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Dup", Email: "meera@example.com", Password: "x", Role: types.RoleCustomer,
	}); !errors.Is(err, ErrNotUniqueEmail) {
		t.Fatalf("expected ErrNotUniqueEmail, got %v", err)
	}

	pair, err := svc.Login(context.Background(), "meera@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" {
		t.Fatal("empty access token after login")
	}

	if _, err := svc.Login(context.Background(), "meera@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ghost@example.com", "x"); !errors.Is(err, ErrUserWithEmailNotFound) {
		t.Fatalf("expected ErrUserWithEmailNotFound, got %v", err)
	}
}

func TestRoleCheck(t *testing.T) {
	users := newMemUserRepo()
	tokens := newTokenService(users, newMemRefreshRepo())
	svc := NewAuthService(users, tokens, testLogger())

	id, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Arun", Email: "arun@example.com", Password: "pass-123", Role: types.RoleRider,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	pair, err := svc.Login(context.Background(), "arun@example.com", "pass-123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user, err := svc.RoleCheck(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("role check: %v", err)
	}
	if user.ID != id || user.Role != types.RoleRider {
		t.Fatalf("unexpected user from role check: %+v", user)
	}

	// Refresh tokens are not valid for authentication.
	if _, err := svc.RoleCheck(context.Background(), pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for refresh token, got %v", err)
	}
}

func TestRegister_RiderStartsInactive(t *testing.T) {
	users := newMemUserRepo()
	tokens := newTokenService(users, newMemRefreshRepo())
	svc := NewAuthService(users, tokens, testLogger())

	id, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Kiran", Email: "kiran@example.com", Password: "pass-123", Role: types.RoleRider,
		VehicleDetails: "Bajaj Pulsar, KA-05-XY-9876",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, _ := users.GetByID(context.Background(), id)
	if user.IsActive {
		t.Fatal("rider must start inactive")
	}
	if user.Location != nil {
		t.Fatal("rider must start without a location")
	}
	if user.VehicleDetails != "Bajaj Pulsar, KA-05-XY-9876" {
		t.Fatalf("vehicle details not carried through registration: %q", user.VehicleDetails)
	}
}
