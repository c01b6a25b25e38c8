package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Harish01234/vahanseva/config"
	"github.com/Harish01234/vahanseva/internal/adapter/geocache"
	"github.com/Harish01234/vahanseva/internal/adapter/http/server"
	wshandler "github.com/Harish01234/vahanseva/internal/adapter/http/ws"
	"github.com/Harish01234/vahanseva/internal/adapter/nominatim"
	repo "github.com/Harish01234/vahanseva/internal/adapter/postgres"
	brokers "github.com/Harish01234/vahanseva/internal/adapter/rabbit"
	"github.com/Harish01234/vahanseva/internal/service/assignment"
	authsvc "github.com/Harish01234/vahanseva/internal/service/auth"
	ridesvc "github.com/Harish01234/vahanseva/internal/service/ride"
	ridersvc "github.com/Harish01234/vahanseva/internal/service/rider"
	"github.com/Harish01234/vahanseva/pkg/logger"
	"github.com/Harish01234/vahanseva/pkg/postgres"
	"github.com/Harish01234/vahanseva/pkg/rabbit"
	"github.com/Harish01234/vahanseva/pkg/trm"
	"github.com/Harish01234/vahanseva/pkg/wshub"
)

// App wires every adapter and service together and owns their lifecycle.
type App struct {
	postgresDB  *postgres.PostgreDB
	rabbitMQ    *rabbit.RabbitMQ
	redisClient *goredis.Client
	httpServer  *server.API
	connections *wshub.ConnectionHub

	cfg config.Config
	log logger.Logger
}

func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	postgresDB, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "failed to setup database", err)
		return nil, err
	}

	txManager := trm.New(postgresDB.Pool)

	rideRepo := repo.NewRideRepo(postgresDB.Pool)
	riderRepo := repo.NewRiderRepo(postgresDB.Pool)
	userRepo := repo.NewUserRepo(postgresDB.Pool)
	refreshRepo := repo.NewRefreshTokenRepo(postgresDB.Pool)

	// Geocoder, optionally fronted by a Redis cache.
	var geocoder assignment.Geocoder = nominatim.New(
		cfg.Nominatim.BaseURL,
		cfg.Nominatim.UserAgent,
		cfg.Nominatim.Timeout,
	)

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		geocoder = geocache.New(geocoder, redisClient, cfg.Nominatim.CacheTTL, log)
	}

	// Event broker is optional: without RabbitMQ the app still serves
	// requests, it just publishes nothing.
	var (
		rabbitMQ   *rabbit.RabbitMQ
		rideBroker *brokers.RideBroker
	)
	if cfg.RabbitMQ.Host != "" {
		rabbitMQ, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			log.Error(ctx, "failed to connect to rabbitmq", err)
			return nil, err
		}

		rideBroker, err = brokers.NewRideBroker(rabbitMQ)
		if err != nil {
			log.Error(ctx, "failed to setup ride broker", err)
			return nil, err
		}
	}

	connections := wshub.NewConnHub(log)
	notifier := wshandler.NewRiderNotifier(connections)

	var (
		assignPublisher assignment.EventPublisher
		statusPublisher ridesvc.StatusPublisher
	)
	if rideBroker != nil {
		assignPublisher = rideBroker
		statusPublisher = rideBroker
	}

	assignService := assignment.New(
		rideRepo,
		riderRepo,
		geocoder,
		assignPublisher,
		notifier,
		cfg.Nominatim.Timeout,
		log,
	)
	rideService := ridesvc.New(rideRepo, userRepo, statusPublisher, txManager, log)
	riderService := ridersvc.New(riderRepo, log)

	tokenService := authsvc.NewTokenService(
		cfg.Auth.JWTSecret,
		userRepo,
		refreshRepo,
		txManager,
		cfg.Auth.RefreshTokenTTL,
		cfg.Auth.AccessTokenTTL,
		log,
	)
	authService := authsvc.NewAuthService(userRepo, tokenService, log)

	httpServer, err := server.New(cfg, rideService, assignService, riderService, authService, connections, log)
	if err != nil {
		log.Error(ctx, "failed to setup http server", err)
		return nil, err
	}

	return &App{
		postgresDB:  postgresDB,
		rabbitMQ:    rabbitMQ,
		redisClient: redisClient,
		httpServer:  httpServer,
		connections: connections,
		cfg:         cfg,
		log:         log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.httpServer.Run(ctx, errCh)
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "application closed")
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "application started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Warn(ctx, "failed to gracefully close http server", "error", err.Error())
		}
	}

	if a.connections != nil {
		a.connections.Close()
	}

	if a.rabbitMQ != nil {
		if err := a.rabbitMQ.Close(ctx); err != nil {
			a.log.Warn(ctx, "failed to gracefully close rabbitmq connection", "error", err.Error())
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn(ctx, "failed to close redis client", "error", err.Error())
		}
	}

	if a.postgresDB != nil && a.postgresDB.Pool != nil {
		a.postgresDB.Pool.Close()
	}
}
