package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"route-time-service/internal/adapters/distance"
	"route-time-service/internal/adapters/model"
	"route-time-service/internal/adapters/repositories"
	"route-time-service/internal/adapters/validation"
	"route-time-service/internal/api"
	"route-time-service/internal/config"
	"route-time-service/internal/platform/db"
	"route-time-service/internal/platform/logger"
	"route-time-service/internal/platform/obs"
	"route-time-service/internal/ports"
	"route-time-service/internal/services"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Service owns the process-wide components: the reference database, the
// loaded model, the estimator and the HTTP server.
type Service struct {
	Estimator *services.RouteTimeEstimator
	Handler   http.Handler

	cfg *config.Config
	db  *sql.DB
	log logger.Logger
}

// New builds a Service from the configuration. reg receives the metrics;
// nil selects a fresh registry.
func New(ctx context.Context, cfg *config.Config, reg *prometheus.Registry) (*Service, error) {
	log := logger.New("service")
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	metrics, err := obs.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	svc := &Service{cfg: cfg, log: log}

	if cfg.NeedsDatabase() {
		conn, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		svc.db = conn
	}

	est, err := svc.buildEstimator(ctx, metrics)
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.Estimator = est

	svc.Handler = api.NewRouter(est, api.RouterOptions{
		Metrics:     metrics,
		Gatherer:    reg,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	return svc, nil
}

func (s *Service) buildEstimator(ctx context.Context, metrics *obs.Metrics) (*services.RouteTimeEstimator, error) {
	validator, err := s.buildValidator()
	if err != nil {
		return nil, err
	}

	resolver, err := s.buildResolver(ctx, metrics)
	if err != nil {
		return nil, err
	}

	m, err := LoadModel(s.cfg.Model, s.log)
	if err != nil {
		return nil, err
	}

	return services.NewRouteTimeEstimator(validator, resolver, m, metrics, logger.New("estimator"))
}

func (s *Service) dialect() (repositories.Dialect, error) {
	return repositories.DialectFor(s.cfg.Database.Driver)
}

func (s *Service) buildValidator() (ports.RequestValidator, error) {
	switch s.cfg.Validation.Mode {
	case "reference":
		d, err := s.dialect()
		if err != nil {
			return nil, err
		}
		stations := repositories.NewSQLStationRepository(s.db, d)
		return validation.NewReferenceValidator(stations, config.Seconds(s.cfg.Validation.CacheTTLSeconds)), nil
	default:
		return validation.AlwaysValid{}, nil
	}
}

func (s *Service) buildResolver(ctx context.Context, metrics *obs.Metrics) (ports.DistanceResolver, error) {
	cfg := s.cfg.Distance

	var resolver ports.DistanceResolver
	switch cfg.Mode {
	case "constant":
		return distance.NewConstantResolver(cfg.ConstantKM()), nil
	case "static":
		pairs := make([]distance.StaticPair, 0, len(cfg.Pairs))
		for _, p := range cfg.Pairs {
			pairs = append(pairs, distance.StaticPair{From: p.From, To: p.To, KM: p.DistanceKM})
		}
		resolver = distance.NewStaticResolver(pairs)
	case "haversine", "table":
		d, err := s.dialect()
		if err != nil {
			return nil, err
		}
		if cfg.Mode == "haversine" {
			resolver = distance.NewHaversineResolver(repositories.NewSQLStationRepository(s.db, d))
		} else {
			resolver = distance.NewTableResolver(repositories.NewSQLDistanceRepository(s.db, d))
		}
	case "http":
		var store distance.DistanceStore
		if cfg.Store {
			d, err := s.dialect()
			if err != nil {
				return nil, err
			}
			if err := repositories.InitSchema(ctx, s.db); err != nil {
				return nil, err
			}
			store = repositories.NewSQLDistanceRepository(s.db, d)
		}
		r, err := distance.NewHTTPResolver(cfg.URL, distance.HTTPOptions{
			Timeout: config.Seconds(cfg.TimeoutSeconds),
			Retries: cfg.Retries,
			Backoff: time.Duration(cfg.RetryBackoffMS) * time.Millisecond,
		}, store)
		if err != nil {
			return nil, err
		}
		resolver = r
	default:
		return nil, fmt.Errorf("unknown distance mode %q", cfg.Mode)
	}

	if cfg.CacheSize > 0 {
		return distance.NewCachedResolver(resolver, cfg.CacheSize, metrics)
	}
	return resolver, nil
}

// LoadModel loads the configured artifact. A failure is returned when the
// model is required; otherwise it is logged and a nil model is returned so
// the service runs in degraded mode.
func LoadModel(cfg config.ModelConfig, log logger.Logger) (ports.TravelTimeModel, error) {
	m, err := model.Load(cfg.Format, cfg.Path)
	if err != nil {
		if cfg.IsRequired() {
			return nil, fmt.Errorf("model: %w", err)
		}
		log.Warnf("model unavailable, serving travel_time=0: %v", err)
		return nil, nil
	}

	log.Infof("model loaded path=%s format=%s features=%d", cfg.Path, cfg.Format, m.NumFeatures())
	return m, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler,
		ReadHeaderTimeout: config.Seconds(s.cfg.Server.ReadHeaderTimeoutSeconds),
		ReadTimeout:       config.Seconds(s.cfg.Server.ReadTimeoutSeconds),
		WriteTimeout:      config.Seconds(s.cfg.Server.WriteTimeoutSeconds),
		IdleTimeout:       config.Seconds(s.cfg.Server.IdleTimeoutSeconds),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("server listening addr=%s", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Seconds(s.cfg.Server.ShutdownTimeoutSeconds))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Close releases the reference database.
func (s *Service) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
