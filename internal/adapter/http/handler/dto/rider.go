package dto

import (
	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/pkg/validator"
)

type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *UpdateLocationRequest) Validate(v *validator.Validator) {
	v.Check(r.Latitude >= -90 && r.Latitude <= 90, "latitude", "must be between -90 and 90")
	v.Check(r.Longitude >= -180 && r.Longitude <= 180, "longitude", "must be between -180 and 180")
}

func (r *UpdateLocationRequest) ToModel() models.Location {
	return models.Location{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}
