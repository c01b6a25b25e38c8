package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Harish01234/vahanseva/docs"
	"github.com/Harish01234/vahanseva/internal/domain/types"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	// System health
	a.mux.HandleFunc("/health", a.routes.health.HealthCheck)

	// Swagger UI
	a.mux.HandleFunc("/swagger/", httpSwagger.Handler())

	// Prometheus metrics
	a.mux.Handle("/metrics", promhttp.Handler())

	a.setupAuthRoutes()
	a.setupRideRoutes()
	a.setupRiderRoutes()
}

func (a *API) setupAuthRoutes() {
	a.mux.HandleFunc("POST /auth/register", a.routes.auth.Register)
	a.mux.HandleFunc("POST /auth/login", a.routes.auth.Login)
	a.mux.HandleFunc("POST /auth/refresh", a.routes.auth.Refresh)
	a.mux.HandleFunc("POST /auth/logout", a.routes.auth.Logout)
	a.mux.HandleFunc("GET /auth/me", a.routes.auth.Profile)
}

func (a *API) setupRideRoutes() {
	a.mux.Handle("POST /rides", a.m.RequireRoles(a.routes.ride.Book, types.RoleCustomer))                // Book a new ride
	a.mux.Handle("GET /rides", a.m.RequireRoles(a.routes.ride.List, types.RoleCustomer, types.RoleRider)) // List own rides
	a.mux.Handle("GET /rides/{ride_id}", a.m.RequireRoles(a.routes.ride.Get, types.RoleCustomer, types.RoleRider))
	a.mux.Handle("POST /rides/{ride_id}/assign", a.m.RequireRoles(a.routes.ride.Assign, types.RoleCustomer)) // Assign nearest rider
	a.mux.Handle("POST /rides/{ride_id}/state", a.m.RequireRoles(a.routes.ride.UpdateState, types.RoleCustomer, types.RoleRider))
}

func (a *API) setupRiderRoutes() {
	a.mux.Handle("POST /riders/{rider_id}/location", a.m.RequireRoles(a.routes.rider.UpdateLocation, types.RoleRider))
	a.mux.Handle("POST /riders/{rider_id}/online", a.m.RequireRoles(a.routes.rider.GoOnline, types.RoleRider))
	a.mux.Handle("POST /riders/{rider_id}/offline", a.m.RequireRoles(a.routes.rider.GoOffline, types.RoleRider))
	a.mux.Handle("GET /riders/active", a.m.RequireRoles(a.routes.rider.ListActive, types.RoleCustomer, types.RoleRider))
	a.mux.HandleFunc("GET /ws/riders/{rider_id}", a.routes.rider.HandleWS) // WebSocket connection for riders
}
