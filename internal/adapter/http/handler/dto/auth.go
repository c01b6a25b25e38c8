package dto

import (
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/internal/service/auth"
	"github.com/Harish01234/vahanseva/pkg/validator"
)

type RegisterUserRequest struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	VehicleDetails string `json:"vehicle_details"`
}

func (r *RegisterUserRequest) ToModel() auth.RegisterRequest {
	return auth.RegisterRequest{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Password:       r.Password,
		Role:           types.UserRole(r.Role),
		VehicleDetails: r.VehicleDetails,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func ValidateNewUser(v *validator.Validator, user *RegisterUserRequest) {
	v.Check(user.Name != "", "name", "must be provided")
	v.Check(len(user.Name) <= 500, "name", "must not be more than 500 bytes long")

	v.Check(user.Email != "", "email", "must be provided")
	v.Check(validator.Matches(user.Email, validator.EmailRX), "email", "must be a valid email address")
	v.Check(len(user.Email) <= 500, "email", "must not be more than 500 bytes long")

	v.Check(user.Password != "", "password", "must be provided")
	v.Check(len(user.Password) >= 8, "password", "must be at least 8 bytes long")
	v.Check(len(user.Password) <= 50, "password", "must not be more than 50 bytes long")

	v.Check(user.Role != "", "role", "must be provided")
	if user.Role != "" {
		v.Check(validator.PermittedValue(user.Role, "customer", "rider"), "role", "must be one of customer or rider")
	}

	// Riders must describe their vehicle at signup.
	if user.Role == "rider" {
		v.Check(user.VehicleDetails != "", "vehicle_details", "must be provided for riders")
	}
	v.Check(len(user.VehicleDetails) <= 500, "vehicle_details", "must not be more than 500 bytes long")
}

func ValidateLogin(v *validator.Validator, user *LoginRequest) {
	v.Check(user.Email != "", "email", "must be provided")
	v.Check(user.Password != "", "password", "must be provided")
}

func ValidateRefreshToken(v *validator.Validator, req *RefreshTokenRequest) {
	v.Check(req.RefreshToken != "", "refresh_token", "must be provided")
}
