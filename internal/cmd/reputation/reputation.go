// Package reputation parses reputation service flags and launches the service.
package reputation

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/faction-reputation/internal/platform/cmd"
	"github.com/louisbranch/faction-reputation/internal/platform/otel"
	"github.com/louisbranch/faction-reputation/internal/platform/timeouts"
	server "github.com/louisbranch/faction-reputation/internal/services/reputation/app"
)

// Config holds reputation command configuration.
type Config struct {
	Port      int `env:"FACTION_REPUTATION_PORT" envDefault:"8095"`
	Telemetry otel.Config
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The reputation gRPC server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the reputation gRPC API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceReputation, entrypoint.RunOptions{
		ShutdownTimeout: timeouts.Shutdown,
		Telemetry:       cfg.Telemetry,
	}, func(ctx context.Context) error {
		return server.Run(ctx, cfg.Port)
	})
}
