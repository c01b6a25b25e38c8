package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

func IsValidTokenType(typ string) bool {
	return typ == string(AccessToken) || typ == string(RefreshToken)
}

// CustomClaims is the decoded payload of an issued JWT.
type CustomClaims struct {
	UserID    uuid.UUID
	TokenID   uuid.UUID
	TokenType TokenType
	Email     string
	Role      types.UserRole
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// RefreshTokenRecord is the persisted fingerprint of an issued refresh token.
type RefreshTokenRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}
