package handler

import (
	"context"
	"net/http"

	"github.com/Harish01234/vahanseva/internal/adapter/http/handler/dto"
	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/logger"
	wrap "github.com/Harish01234/vahanseva/pkg/logger/wrapper"
	"github.com/Harish01234/vahanseva/pkg/uuid"
	"github.com/Harish01234/vahanseva/pkg/validator"
)

type (
	RideService interface {
		Book(ctx context.Context, customerID uuid.UUID, pickup, dropoff string, rideType types.RideType) (*models.Ride, error)
		UpdateState(ctx context.Context, rideID uuid.UUID, next types.RideStatus) (*models.Ride, error)
		Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
		List(ctx context.Context, filter models.RideFilter) ([]models.Ride, error)
	}

	AssignmentService interface {
		Assign(ctx context.Context, rideID uuid.UUID) (*models.Assignment, error)
	}
)

type Ride struct {
	rides      RideService
	assignment AssignmentService
	l          logger.Logger
}

func NewRide(rides RideService, assignment AssignmentService, l logger.Logger) *Ride {
	return &Ride{
		rides:      rides,
		assignment: assignment,
		l:          l,
	}
}

// Book godoc
// @Summary      Book a ride
// @Description  Creates a new ride in the Pending state
// @Tags         Rides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookRideRequest true "ride details"
// @Success      201  {object}  dto.BookRideResponse
// @Failure      422  {object}  map[string]string
// @Router       /rides [post]
func (h *Ride) Book(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "book_ride")

	user := models.UserFromContext(ctx)
	if user == nil || user.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	req := &dto.BookRideRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	ride, err := h.rides.Book(ctx, user.ID, req.PickupLocation, req.DropoffLocation, types.RideType(req.RideType))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to book ride", err)
		serviceErrorResponse(w, err)
		return
	}

	response := envelope{"ride": dto.BookRideResponse{
		RideID:   ride.ID,
		Status:   string(ride.Status),
		BookedAt: ride.BookedAt,
	}}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Assign godoc
// @Summary      Assign nearest rider
// @Description  Resolves the pickup address and assigns the nearest active rider
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id path string true "ride id"
// @Success      200  {object}  dto.AssignRideResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /rides/{ride_id}/assign [post]
func (h *Ride) Assign(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "assign_rider")

	rideID, err := uuid.Parse(r.PathValue("ride_id"))
	if err != nil {
		badRequestResponse(w, "invalid ride id")
		return
	}

	assignment, err := h.assignment.Assign(ctx, rideID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to assign rider", err)
		serviceErrorResponse(w, err)
		return
	}

	response := envelope{"assignment": dto.NewAssignRideResponse(assignment)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// UpdateState godoc
// @Summary      Update ride state
// @Description  Moves the ride along its lifecycle
// @Tags         Rides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id path string true "ride id"
// @Param        request body dto.UpdateRideStateRequest true "target state"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /rides/{ride_id}/state [post]
func (h *Ride) UpdateState(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_ride_state")

	rideID, err := uuid.Parse(r.PathValue("ride_id"))
	if err != nil {
		badRequestResponse(w, "invalid ride id")
		return
	}

	req := &dto.UpdateRideStateRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	ride, err := h.rides.UpdateState(ctx, rideID, types.RideStatus(req.Status))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update ride state", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": ride}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Get godoc
// @Summary      Get a ride
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id path string true "ride id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Router       /rides/{ride_id} [get]
func (h *Ride) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_ride")

	rideID, err := uuid.Parse(r.PathValue("ride_id"))
	if err != nil {
		badRequestResponse(w, "invalid ride id")
		return
	}

	ride, err := h.rides.Get(ctx, rideID)
	if err != nil {
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": ride}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// List godoc
// @Summary      List rides
// @Description  Lists rides, optionally filtered by status. Customers see
// @Description  their own rides, riders the ones assigned to them.
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "filter by status"
// @Success      200  {object}  map[string]any
// @Router       /rides [get]
func (h *Ride) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_rides")

	user := models.UserFromContext(ctx)
	if user == nil || user.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	filter := models.RideFilter{
		Status: types.RideStatus(r.URL.Query().Get("status")),
	}
	switch user.Role {
	case types.RoleCustomer:
		filter.CustomerID = user.ID
	case types.RoleRider:
		filter.RiderID = user.ID
	}

	rides, err := h.rides.List(ctx, filter)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list rides", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"rides": rides}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
