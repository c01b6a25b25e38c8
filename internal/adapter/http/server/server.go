package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Harish01234/vahanseva/config"
	"github.com/Harish01234/vahanseva/internal/adapter/http/handler"
	"github.com/Harish01234/vahanseva/internal/adapter/http/middleware"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/logger"
	wrap "github.com/Harish01234/vahanseva/pkg/logger/wrapper"
	"github.com/Harish01234/vahanseva/pkg/wshub"
)

const serverIPAddress = "%s:%s"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health *handler.Health
	auth   *handler.Auth
	ride   *handler.Ride
	rider  *handler.Rider
}

func New(
	cfg config.Config,
	rideService handler.RideService,
	assignmentService handler.AssignmentService,
	riderService handler.RiderService,
	authService handler.AuthService,
	connections *wshub.ConnectionHub,
	log logger.Logger,
) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}

	addr := fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.HTTP.Port)

	routes := &handlers{
		health: handler.NewHealth(types.ServiceName, log),
		auth:   handler.NewAuth(authService, log),
		ride:   handler.NewRide(rideService, assignmentService, log),
		rider:  handler.NewRider(riderService, connections, log),
	}

	mid := middleware.NewMiddleware(authService, log)

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      mid,
		addr:   addr,
		cfg:    cfg,
		log:    log,
	}

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	api.setupRoutes()

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	metricsWrapped := a.m.Metrics(types.ServiceName)(a.mux)
	return a.m.Recover(a.m.RequestID(a.m.Logging(a.m.Auth(metricsWrapped))))
}
