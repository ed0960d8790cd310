package cmd

import (
	"context"
	stdErrors "errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/glanced/internal/cmd"
	cmdopts "github.com/mozilla-ai/glanced/internal/cmd/options"
	"github.com/mozilla-ai/glanced/internal/config"
	"github.com/mozilla-ai/glanced/internal/daemon"
	"github.com/mozilla-ai/glanced/internal/flags"
	"github.com/mozilla-ai/glanced/internal/glances"
	"github.com/mozilla-ai/glanced/internal/registry"
)

// DaemonCmd should be used to represent the 'daemon' command.
type DaemonCmd struct {
	*cmd.BaseCmd
	Addr                string
	FetchTimeout        time.Duration
	HealthCheckInterval time.Duration
	PingTimeout         time.Duration
	CORSEnabled         bool
	CORSOrigins         []string
	cfgLoader           config.Loader
}

// NewDaemonCmd creates a newly configured (Cobra) command.
func NewDaemonCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &DaemonCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "daemon [--addr]",
		Short: "Launches a `glanced` daemon instance",
		Long: "Launches a `glanced` daemon instance, which serves metrics tools over MCP stdio " +
			"and provides registry and agent health information via HTTP API",
		RunE: c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Addr,
		"addr",
		"0.0.0.0:8090",
		"Address for the daemon status API to bind",
	)

	cobraCommand.Flags().DurationVar(
		&c.FetchTimeout,
		"fetch-timeout",
		glances.DefaultTimeout,
		"Timeout for a single metrics fetch against an agent",
	)

	cobraCommand.Flags().DurationVar(
		&c.HealthCheckInterval,
		"health-interval",
		daemon.DefaultHealthCheckInterval(),
		"Interval between agent health probes",
	)

	cobraCommand.Flags().DurationVar(
		&c.PingTimeout,
		"ping-timeout",
		daemon.DefaultPingTimeout(),
		"Timeout for a single agent health probe",
	)

	cobraCommand.Flags().BoolVar(
		&c.CORSEnabled,
		"cors-enabled",
		false,
		"Enable CORS headers on the status API",
	)

	cobraCommand.Flags().StringSliceVar(
		&c.CORSOrigins,
		"cors-origin",
		nil,
		"Allowed origins for CORS requests (repeatable)",
	)

	return cobraCommand, nil
}

// run is configured (via NewDaemonCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *DaemonCmd) run(_ *cobra.Command, _ []string) error {
	logger := c.Logger()

	addr := strings.TrimSpace(c.Addr)
	if err := daemon.IsValidAddr(addr); err != nil {
		return fmt.Errorf("invalid api address '%s': %w", addr, err)
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	reg, err := registry.New(cfg.ListServers())
	if err != nil {
		return err
	}

	client, err := glances.NewClient(reg, logger, glances.WithTimeout(c.FetchTimeout))
	if err != nil {
		return err
	}

	d, err := daemon.NewDaemon(
		logger,
		client,
		addr,
		daemon.WithHealthCheckInterval(c.HealthCheckInterval),
		daemon.WithPingTimeout(c.PingTimeout),
		daemon.WithAPIOptions(
			daemon.WithCORSEnabled(c.CORSEnabled),
			daemon.WithCORSAllowOrigins(c.CORSOrigins),
		),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.StartAndManage(ctx); err != nil && !stdErrors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
