package auth

import (
	"context"
	"errors"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/logger"
	wrap "github.com/Harish01234/vahanseva/pkg/logger/wrapper"
	"github.com/Harish01234/vahanseva/pkg/passhash"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

type AuthService struct {
	userRepo     UserRepo
	tokenService TokenProvider
	log          logger.Logger
}

func NewAuthService(userRepo UserRepo, tokenService TokenProvider, log logger.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenService: tokenService,
		log:          log,
	}
}

// RegisterRequest carries the validated registration payload.
type RegisterRequest struct {
	Name           string
	Email          string
	Phone          string
	Password       string
	Role           types.UserRole
	VehicleDetails string
}

// Register creates a new customer or rider account. Riders start inactive
// with no location until they go online and report one.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (uuid.UUID, error) {
	ctx = wrap.WithAction(ctx, "user_register")

	hashPassword, err := passhash.HashPassword(req.Password)
	if err != nil {
		s.log.Error(ctx, "failed to generate hash from password", err)
		return uuid.Nil, ErrUnexpected
	}

	user := &models.User{
		ID:             uuid.New(),
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Role:           req.Role,
		VehicleDetails: req.VehicleDetails,
		IsActive:       req.Role == types.RoleCustomer,
		PasswordHash:   hashPassword,
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, types.ErrEmailTaken) {
			return uuid.Nil, ErrNotUniqueEmail
		}
		s.log.Error(ctx, "failed to save user", err)
		return uuid.Nil, ErrUnexpected
	}

	return user.ID, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "user_login")

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, ErrUserWithEmailNotFound
		}
		return nil, ErrUnexpected
	}

	if ok, err := passhash.VerifyPassword(password, user.PasswordHash); err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.tokenService.GenerateTokens(ctx, user)
	if err != nil {
		s.log.Error(ctx, "failed to generate tokens", err)
		return nil, ErrTokenGenerateFail
	}

	return tokens, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	return s.tokenService.Refresh(ctx, refreshToken)
}

// Logout revokes the presented refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenService.Logout(ctx, refreshToken)
}

// RoleCheck validates the access token and loads the user it belongs to.
func (s *AuthService) RoleCheck(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokenService.Validate(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != models.AccessToken {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, ErrUnexpected
	}

	return user, nil
}
