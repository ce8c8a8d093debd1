// Package reputationctl implements the admin CLI for the reputation service.
package reputationctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	platformgrpc "github.com/louisbranch/faction-reputation/internal/platform/grpc"
	"github.com/louisbranch/faction-reputation/internal/platform/timeouts"
	reputation "github.com/louisbranch/faction-reputation/internal/services/reputation/api/grpc/reputation"
	"github.com/urfave/cli/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// DefaultAddr is the reputation service address used when none is given.
const DefaultAddr = "localhost:8095"

// Dialer opens a connection to the reputation service.
type Dialer func(ctx context.Context, addr string) (*grpc.ClientConn, error)

// DialWithHealth dials addr and waits for the health service to report SERVING.
func DialWithHealth(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	return platformgrpc.DialWithHealth(ctx, addr, timeouts.GRPCDial, log.Printf)
}

type ctl struct {
	out    io.Writer
	dial   Dialer
	conn   *grpc.ClientConn
	client *reputation.Client
}

// NewCommand builds the reputationctl command tree. A nil dial uses DialWithHealth.
func NewCommand(out io.Writer, dial Dialer) *cli.Command {
	if dial == nil {
		dial = DialWithHealth
	}
	c := &ctl{out: out, dial: dial}
	return &cli.Command{
		Name:  "reputationctl",
		Usage: "Inspect and administer faction reputation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   DefaultAddr,
				Usage:   "reputation gRPC address",
				Sources: cli.EnvVars("FACTION_REPUTATION_ADDR"),
			},
			&cli.StringFlag{Name: "locale", Usage: "preferred locale for error messages"},
			&cli.StringFlag{Name: "reviewer", Usage: "reviewer id sent as x-reviewer-id", Sources: cli.EnvVars("FACTION_REPUTATION_REVIEWER_ID")},
			&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
		},
		Commands: []*cli.Command{
			c.standingCommand(),
			c.titlesCommand(),
			c.tributeCommand(),
			c.submissionCommand(),
			c.peopleCommand(),
			c.shopCommand(),
			c.factionsCommand(),
			c.promptsCommand(),
			c.failuresCommand(),
		},
		After: func(context.Context, *cli.Command) error {
			return c.close()
		},
	}
}

// connect dials lazily so help output never needs a server.
func (c *ctl) connect(ctx context.Context, cmd *cli.Command) (context.Context, context.CancelFunc, error) {
	if c.client == nil {
		conn, err := c.dial(ctx, strings.TrimSpace(cmd.String("addr")))
		if err != nil {
			return nil, nil, fmt.Errorf("connect to reputation service: %w", err)
		}
		c.conn = conn
		c.client = reputation.NewClient(conn)
	}

	var pairs []string
	if locale := strings.TrimSpace(cmd.String("locale")); locale != "" {
		pairs = append(pairs, reputation.LocaleHeader, locale)
	}
	if reviewer := strings.TrimSpace(cmd.String("reviewer")); reviewer != "" {
		pairs = append(pairs, reputation.ReviewerHeader, reviewer)
	}
	if len(pairs) > 0 {
		ctx = metadata.AppendToOutgoingContext(ctx, pairs...)
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
	return reqCtx, cancel, nil
}

func (c *ctl) close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.client = nil
	return err
}

// call connects, runs fn and prints its response.
func call[Resp any](c *ctl, ctx context.Context, cmd *cli.Command, fn func(context.Context, *reputation.Client) (*Resp, error), render func(io.Writer, *Resp)) error {
	reqCtx, cancel, err := c.connect(ctx, cmd)
	if err != nil {
		return err
	}
	defer cancel()
	resp, err := fn(reqCtx, c.client)
	if err != nil {
		return describeError(err)
	}
	if cmd.Bool("json") {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	render(c.out, resp)
	return nil
}

func requireString(cmd *cli.Command, name string) (string, error) {
	value := strings.TrimSpace(cmd.String(name))
	if value == "" {
		return "", fmt.Errorf("--%s is required", name)
	}
	return value, nil
}

func requireStrings(cmd *cli.Command, names ...string) ([]string, error) {
	values := make([]string, 0, len(names))
	var missing []string
	for _, name := range names {
		value := strings.TrimSpace(cmd.String(name))
		if value == "" {
			missing = append(missing, "--"+name)
		}
		values = append(values, value)
	}
	if len(missing) > 0 {
		return nil, errors.New(strings.Join(missing, ", ") + " required")
	}
	return values, nil
}
