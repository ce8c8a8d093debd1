package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	platformgrpc "github.com/louisbranch/faction-reputation/internal/platform/grpc"
	reputationservice "github.com/louisbranch/faction-reputation/internal/services/reputation/api/grpc/reputation"
	"google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("FACTION_REPUTATION_DB_PATH", filepath.Join(t.TempDir(), "reputation.db"))

	srv, err := NewWithAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	t.Cleanup(func() {
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Fatalf("serve: %v", serveErr)
			}
		case <-time.After(10 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
	})
	return srv
}

func dial(t *testing.T, addr string) *grpc.ClientConn {
	t.Helper()
	conn, err := grpc.NewClient(addr, platformgrpc.DefaultClientDialOptions()...)
	if err != nil {
		t.Fatalf("dial reputation server: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := conn.Close(); closeErr != nil {
			t.Fatalf("close gRPC connection: %v", closeErr)
		}
	})
	return conn
}

func TestServer_HealthAndStandingRoundTrip(t *testing.T) {
	srv := startServer(t)
	conn := dial(t, srv.Addr())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	healthResp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{
		Service: reputationservice.ServiceName,
	})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if healthResp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("health = %v, want SERVING", healthResp.GetStatus())
	}

	client := reputationservice.NewClient(conn)
	factions, err := client.ListFactions(ctx, &reputationservice.ListFactionsRequest{})
	if err != nil {
		t.Fatalf("list factions: %v", err)
	}
	if len(factions.Factions) == 0 {
		t.Fatal("expected default catalog factions")
	}

	applied, err := client.ApplyStandingEvent(ctx, &reputationservice.ApplyStandingEventRequest{
		TrainerID: "trainer-1",
		FactionID: "league",
		Delta:     100,
	})
	if err != nil {
		t.Fatalf("apply standing event: %v", err)
	}
	if applied.Result.Origin.NewValue != 100 {
		t.Fatalf("league = %d, want 100", applied.Result.Origin.NewValue)
	}

	got, err := client.GetStanding(ctx, &reputationservice.GetStandingRequest{TrainerID: "trainer-1", FactionID: "rangers"})
	if err != nil {
		t.Fatalf("get standing: %v", err)
	}
	if got.Standing.Standing != 50 {
		t.Fatalf("rangers = %d, want 50", got.Standing.Standing)
	}
}

func TestNewWithAddr_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("FACTION_REPUTATION_DB_DRIVER", "mysql")
	t.Setenv("FACTION_REPUTATION_DB_PATH", filepath.Join(t.TempDir(), "reputation.db"))

	if _, err := NewWithAddr("127.0.0.1:0"); err == nil {
		t.Fatal("expected unknown driver error")
	}
}

func TestNewWithAddr_PostgresNeedsDSN(t *testing.T) {
	t.Setenv("FACTION_REPUTATION_DB_DRIVER", "postgres")
	t.Setenv("FACTION_REPUTATION_POSTGRES_DSN", "")

	if _, err := NewWithAddr("127.0.0.1:0"); err == nil {
		t.Fatal("expected missing dsn error")
	}
}

func TestNewWithAddr_RejectsMissingCatalog(t *testing.T) {
	t.Setenv("FACTION_REPUTATION_DB_PATH", filepath.Join(t.TempDir(), "reputation.db"))
	t.Setenv("FACTION_REPUTATION_CATALOG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := NewWithAddr("127.0.0.1:0"); err == nil {
		t.Fatal("expected catalog error")
	}
}

func TestLoadServerEnvDefaults(t *testing.T) {
	cfg, err := loadServerEnv()
	if err != nil {
		t.Fatalf("load server env: %v", err)
	}
	if cfg.DBDriver != driverSQLite {
		t.Fatalf("driver = %q, want %q", cfg.DBDriver, driverSQLite)
	}
	if cfg.DBPath != filepath.Join("data", "reputation.db") {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
	if cfg.PropagationConcurrency != 4 {
		t.Fatalf("concurrency = %d, want 4", cfg.PropagationConcurrency)
	}
	if cfg.PropagationTimeout != 10*time.Second {
		t.Fatalf("timeout = %v, want 10s", cfg.PropagationTimeout)
	}
}
