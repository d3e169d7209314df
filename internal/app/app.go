package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fleettrack/internal/config"
	"fleettrack/internal/db"
	"fleettrack/internal/httpserver"
	"fleettrack/internal/httpserver/handlers"
	"fleettrack/internal/ingest"
	"fleettrack/internal/redisstore"
	"fleettrack/internal/repository"
	"fleettrack/internal/service"
)

// App wires fleettrack dependencies.
type App struct {
	server      *httpserver.Server
	consumer    *ingest.Consumer
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := redisstore.NewClient(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	pingRepo := repository.NewPingRepository(sqlDB)
	vehicleRepo := repository.NewVehicleRepository(sqlDB)
	latestStore := redisstore.NewStore(redisClient, cfg.LatestPositionTTL())

	telemetry := service.NewTelemetryService(pingRepo, vehicleRepo, latestStore, logger)
	routes := service.NewRouteService(telemetry)
	fetcher := service.NewTrackingFetcher(routes, telemetry)

	locations := handlers.NewLocationsHandler(telemetry)
	routeHandler := handlers.NewRouteHandler(routes, vehicleRepo)
	ingestHandler := handlers.NewIngestHandler(telemetry, logger)
	trackHandler := handlers.NewTrackHandler(fetcher, cfg.RouteWindow(), logger)

	router := httpserver.NewRouter(httpserver.Routes{
		Vehicles:        handlers.NewVehiclesHandler(telemetry),
		Locations:       locations.List,
		CurrentLocation: locations.Current,
		Route:           routeHandler.Get,
		IngestPings:     ingestHandler.ServeHTTP,
		TrackWS:         trackHandler.ServeHTTP,
		Health:          handlers.NewHealthHandler(),
	})
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	app := &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}

	if cfg.Kafka.Enabled {
		reader := ingest.NewReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
		app.consumer = ingest.NewConsumer(reader, telemetry, logger)
	}

	return app, nil
}

// Run starts the HTTP server and, when configured, the Kafka consumer.
// It blocks until ctx is canceled or a component fails.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- a.server.Run(runCtx)
	}()
	if a.consumer != nil {
		go func() {
			errCh <- a.consumer.Run(runCtx)
		}()
	}

	err := <-errCh
	cancel()
	if a.consumer != nil {
		// wait for the second component to unwind
		<-errCh
	}
	return err
}

// Close releases resources.
func (a *App) Close() {
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Warn("failed to close kafka reader", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
