package types

import "errors"

var (
	ErrRideNotFound        = errors.New("ride not found")
	ErrRideNotPending      = errors.New("ride is not in pending state")
	ErrRideAlreadyAssigned = errors.New("ride was already assigned")
	ErrNoAvailableRiders   = errors.New("no available riders found")
	ErrGeocodeFailed       = errors.New("could not resolve pickup location")
	ErrInvalidTransition   = errors.New("invalid ride state transition")

	ErrLocationNotFound   = errors.New("location not found")
	ErrNoCoordinates      = errors.New("rider has no reported coordinates")
	ErrInvalidCoordinates = errors.New("coordinates out of range")

	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrNotFound     = errors.New("requested item not found")
)
