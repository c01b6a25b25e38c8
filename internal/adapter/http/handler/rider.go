package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Harish01234/vahanseva/internal/adapter/http/handler/dto"
	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/logger"
	wrap "github.com/Harish01234/vahanseva/pkg/logger/wrapper"
	"github.com/Harish01234/vahanseva/pkg/metrics"
	"github.com/Harish01234/vahanseva/pkg/uuid"
	"github.com/Harish01234/vahanseva/pkg/validator"
	"github.com/Harish01234/vahanseva/pkg/wshub"
)

type RiderService interface {
	ReportLocation(ctx context.Context, riderID uuid.UUID, loc models.Location) error
	SetAvailability(ctx context.Context, riderID uuid.UUID, active bool) error
	ActiveRiders(ctx context.Context) ([]models.RiderCandidate, error)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Rider struct {
	riders      RiderService
	connections *wshub.ConnectionHub
	l           logger.Logger
}

func NewRider(riders RiderService, connections *wshub.ConnectionHub, l logger.Logger) *Rider {
	return &Rider{
		riders:      riders,
		connections: connections,
		l:           l,
	}
}

// riderFromPath checks the path rider id against the authenticated user.
// Riders can only act on themselves.
func riderFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	riderID, err := uuid.Parse(r.PathValue("rider_id"))
	if err != nil {
		badRequestResponse(w, "invalid rider id")
		return uuid.Nil, false
	}

	user := models.UserFromContext(r.Context())
	if user == nil || user.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return uuid.Nil, false
	}
	if user.ID != riderID {
		errorResponse(w, http.StatusForbidden, "cannot act on another rider")
		return uuid.Nil, false
	}

	return riderID, true
}

// UpdateLocation godoc
// @Summary      Report rider location
// @Tags         Riders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        rider_id path string true "rider id"
// @Param        request body dto.UpdateLocationRequest true "coordinates"
// @Success      200  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /riders/{rider_id}/location [post]
func (h *Rider) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_rider_location")

	riderID, ok := riderFromPath(w, r)
	if !ok {
		return
	}

	req := &dto.UpdateLocationRequest{}
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

	if err := h.riders.ReportLocation(ctx, riderID, req.ToModel()); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update rider location", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"status": "location updated"}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// GoOnline godoc
// @Summary      Rider goes online
// @Tags         Riders
// @Produce      json
// @Security     BearerAuth
// @Param        rider_id path string true "rider id"
// @Success      200  {object}  map[string]string
// @Router       /riders/{rider_id}/online [post]
func (h *Rider) GoOnline(w http.ResponseWriter, r *http.Request) {
	h.setAvailability(w, r, true)
}

// GoOffline godoc
// @Summary      Rider goes offline
// @Tags         Riders
// @Produce      json
// @Security     BearerAuth
// @Param        rider_id path string true "rider id"
// @Success      200  {object}  map[string]string
// @Router       /riders/{rider_id}/offline [post]
func (h *Rider) GoOffline(w http.ResponseWriter, r *http.Request) {
	h.setAvailability(w, r, false)
}

func (h *Rider) setAvailability(w http.ResponseWriter, r *http.Request, active bool) {
	ctx := wrap.WithAction(r.Context(), "set_rider_availability")

	riderID, ok := riderFromPath(w, r)
	if !ok {
		return
	}

	if err := h.riders.SetAvailability(ctx, riderID, active); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to change rider availability", err)
		serviceErrorResponse(w, err)
		return
	}

	status := "offline"
	if active {
		status = "online"
	}
	if err := writeJSON(w, http.StatusOK, envelope{"status": status}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ListActive godoc
// @Summary      List active riders
// @Tags         Riders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /riders/active [get]
func (h *Rider) ListActive(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_active_riders")

	riders, err := h.riders.ActiveRiders(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list active riders", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"riders": riders}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// HandleWS upgrades the connection and registers the rider in the hub so
// assignment notices can be pushed to them. The connection is held open
// until the client disconnects.
func (h *Rider) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "rider_websocket")

	riderID, err := uuid.Parse(r.PathValue("rider_id"))
	if err != nil {
		badRequestResponse(w, "invalid rider id")
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Error(ctx, "failed to upgrade websocket connection", err)
		return
	}

	conn := wshub.NewConn(ctx, riderID, wsConn)
	if err := h.connections.Add(conn); err != nil {
		h.l.Error(ctx, "failed to register websocket connection", err)
		conn.Close()
		return
	}
	metrics.WebSocketConnectionsGauge.WithLabelValues(types.ServiceName).Inc()

	defer func() {
		// Remove rather than Delete by id: a reconnect may have
		// replaced this connection already.
		h.connections.Remove(conn)
		metrics.WebSocketConnectionsGauge.WithLabelValues(types.ServiceName).Dec()
	}()

	h.l.Info(wrap.WithRiderID(ctx, riderID.String()), "rider websocket connected")

	// Block reading until the peer goes away. Inbound frames are ignored,
	// the socket is push-only.
	if err := conn.Listen(func(msg map[string]any) error { return nil }); err != nil {
		h.l.Debug(ctx, "rider websocket closed", "error", err.Error())
	}
}
