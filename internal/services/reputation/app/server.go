// Package server wires the reputation runtime and gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/faction-reputation/internal/platform/config"
	"github.com/louisbranch/faction-reputation/internal/platform/timeouts"
	reputationservice "github.com/louisbranch/faction-reputation/internal/services/reputation/api/grpc/reputation"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/person"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/shop"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/standing"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/submission"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/tribute"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/observability/audit"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/observability/audit/metrics"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
	reputationpostgres "github.com/louisbranch/faction-reputation/internal/services/reputation/storage/postgres"
	reputationsqlite "github.com/louisbranch/faction-reputation/internal/services/reputation/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

type serverEnv struct {
	DBDriver               string        `env:"FACTION_REPUTATION_DB_DRIVER" envDefault:"sqlite"`
	DBPath                 string        `env:"FACTION_REPUTATION_DB_PATH"`
	PostgresDSN            string        `env:"FACTION_REPUTATION_POSTGRES_DSN"`
	CatalogPath            string        `env:"FACTION_REPUTATION_CATALOG_PATH"`
	PropagationConcurrency int           `env:"FACTION_REPUTATION_PROPAGATION_CONCURRENCY" envDefault:"4"`
	PropagationTimeout     time.Duration `env:"FACTION_REPUTATION_PROPAGATION_TIMEOUT"`
}

func loadServerEnv() (serverEnv, error) {
	var cfg serverEnv
	if err := config.ParseEnv(&cfg); err != nil {
		return serverEnv{}, err
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.DBDriver == "" {
		cfg.DBDriver = driverSQLite
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "reputation.db")
	}
	if cfg.PropagationTimeout <= 0 {
		cfg.PropagationTimeout = timeouts.Propagation
	}
	return cfg, nil
}

// Server hosts the reputation gRPC API and storage lifecycle.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      storage.Store
}

// New creates a configured reputation server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured reputation server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	env, err := loadServerEnv()
	if err != nil {
		return nil, fmt.Errorf("load server env: %w", err)
	}
	catalog, err := loadCatalog(env.CatalogPath)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	store, err := openStore(env)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}
	apiService, err := newService(catalog, store, env)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(reputationservice.UnaryServerInterceptor()),
	)
	healthServer := health.NewServer()
	reputationservice.RegisterFactionReputationServer(grpcServer, apiService)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(reputationservice.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
	}, nil
}

// newService builds the domain graph over one store.
func newService(catalog *faction.Catalog, store storage.Store, env serverEnv) (*reputationservice.Service, error) {
	instruments, err := metrics.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create metrics: %w", err)
	}
	emitter := audit.NewEmitter(store)

	engine, err := standing.New(standing.Config{
		Catalog:            catalog,
		Standings:          store,
		Approvals:          store,
		Audit:              emitter,
		Metrics:            instruments,
		Concurrency:        env.PropagationConcurrency,
		PropagationTimeout: env.PropagationTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create standing engine: %w", err)
	}
	tributes, err := tribute.New(tribute.Config{Engine: engine, Tributes: store, Audit: emitter})
	if err != nil {
		return nil, fmt.Errorf("create tribute service: %w", err)
	}
	people, err := person.New(engine, store, emitter)
	if err != nil {
		return nil, fmt.Errorf("create person gate: %w", err)
	}
	submissions, err := submission.New(submission.Config{Engine: engine, Submissions: store, Audit: emitter})
	if err != nil {
		return nil, fmt.Errorf("create submission service: %w", err)
	}
	storeFront, err := shop.New(engine)
	if err != nil {
		return nil, fmt.Errorf("create shop: %w", err)
	}

	return reputationservice.NewService(reputationservice.Deps{
		Engine:      engine,
		Tributes:    tributes,
		People:      people,
		Submissions: submissions,
		Shop:        storeFront,
		Audit:       store,
	}), nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a reputation server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("reputation server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		stopped := make(chan struct{})
		go func() {
			s.grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(timeouts.Shutdown):
			log.Printf("graceful stop exceeded %v, forcing stop", timeouts.Shutdown)
			s.grpcServer.Stop()
		}
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// Close releases reputation server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close reputation store: %v", err)
		}
	}
}

func loadCatalog(path string) (*faction.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		catalog, err := faction.Default()
		if err != nil {
			return nil, fmt.Errorf("load default catalog: %w", err)
		}
		return catalog, nil
	}
	catalog, err := faction.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return catalog, nil
}

func openStore(env serverEnv) (storage.Store, error) {
	switch env.DBDriver {
	case driverSQLite:
		if dir := filepath.Dir(env.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create storage dir: %w", err)
			}
		}
		store, err := reputationsqlite.Open(env.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open reputation sqlite store: %w", err)
		}
		return store, nil
	case driverPostgres:
		if strings.TrimSpace(env.PostgresDSN) == "" {
			return nil, errors.New("FACTION_REPUTATION_POSTGRES_DSN is required for the postgres driver")
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.GRPCRequest)
		defer cancel()
		store, err := reputationpostgres.Open(ctx, env.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open reputation postgres store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", env.DBDriver)
	}
}
