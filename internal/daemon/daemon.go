package daemon

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mozilla-ai/glanced/internal/cmd"
	"github.com/mozilla-ai/glanced/internal/contracts"
	"github.com/mozilla-ai/glanced/internal/domain"
	"github.com/mozilla-ai/glanced/internal/errors"
	"github.com/mozilla-ai/glanced/internal/tools"
)

// Daemon exposes the metrics tools over MCP stdio and serves the HTTP
// status API, while probing every registered agent in the background.
// NewDaemon should be used to create instances of Daemon.
type Daemon struct {
	logger              hclog.Logger
	fetcher             contracts.MetricsFetcher
	apiServer           *APIServer
	healthTracker       *HealthTracker
	healthCheckInterval time.Duration
	pingTimeout         time.Duration
}

// NewDaemon creates a daemon around the given fetcher, binding the status
// API to apiAddr.
func NewDaemon(logger hclog.Logger, fetcher contracts.MetricsFetcher, apiAddr string, opt ...DaemonOption) (*Daemon, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if fetcher == nil || reflect.ValueOf(fetcher).IsNil() {
		return nil, fmt.Errorf("fetcher cannot be nil")
	}

	opts, err := NewDaemonOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid daemon options: %w", err)
	}

	healthTracker := NewHealthTracker(fetcher.Registry().IDs())

	deps, err := NewAPIDependencies(logger, fetcher.Registry(), healthTracker, apiAddr)
	if err != nil {
		return nil, err
	}

	apiServer, err := NewAPIServer(deps, opts.API...)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon API server: %w", err)
	}

	return &Daemon{
		logger:              logger.Named("daemon"),
		fetcher:             fetcher,
		apiServer:           apiServer,
		healthTracker:       healthTracker,
		healthCheckInterval: opts.HealthCheckInterval,
		pingTimeout:         opts.PingTimeout,
	}, nil
}

// HealthTracker returns the daemon's agent reachability tracker.
func (d *Daemon) HealthTracker() contracts.HealthMonitor {
	return d.healthTracker
}

// StartAndManage runs the daemon until the context is canceled.
// It serves MCP tools on stdio, the status API on the configured address,
// and probes every agent on the configured interval.
func (d *Daemon) StartAndManage(ctx context.Context) error {
	manager, err := tools.NewManager(d.fetcher, d.logger)
	if err != nil {
		return fmt.Errorf("failed to create tool manager: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"glanced",
		cmd.Version(),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	manager.RegisterTools(mcpServer)

	d.logger.Info(
		"Serving metrics tools",
		"servers", d.fetcher.Registry().Len(),
		"interval", d.healthCheckInterval,
	)

	go d.healthCheckLoop(ctx)

	apiErrCh := make(chan error, 1)
	go func() {
		if err := d.apiServer.Start(ctx); err != nil && ctx.Err() == nil {
			apiErrCh <- err
		}
		close(apiErrCh)
	}()

	stdioErrCh := make(chan error, 1)
	go func() {
		stdio := server.NewStdioServer(mcpServer)
		stdioErrCh <- stdio.Listen(ctx, os.Stdin, os.Stdout)
		close(stdioErrCh)
	}()

	select {
	case <-ctx.Done():
		d.logger.Info("Shutting down")
		return ctx.Err()
	case err := <-apiErrCh:
		if err != nil {
			return fmt.Errorf("API server failed: %w", err)
		}
		return nil
	case err := <-stdioErrCh:
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("stdio server failed: %w", err)
		}
		return nil
	}
}

// healthCheckLoop probes every registered agent once immediately, then on
// every tick until the context is canceled.
func (d *Daemon) healthCheckLoop(ctx context.Context) {
	ticker := time.NewTicker(d.healthCheckInterval)
	defer ticker.Stop()

	d.pingAllServers(ctx)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Stopping agent health checks")
			return
		case <-ticker.C:
			d.pingAllServers(ctx)
		}
	}
}

func (d *Daemon) pingAllServers(ctx context.Context) {
	for _, id := range d.fetcher.Registry().IDs() {
		d.pingServer(ctx, id)
	}
}

// pingServer probes one agent and records the outcome in the health tracker.
func (d *Daemon) pingServer(ctx context.Context, id string) {
	pingCtx, cancel := context.WithTimeout(ctx, d.pingTimeout)
	defer cancel()

	latency, err := d.fetcher.Ping(pingCtx, id)

	status := domain.HealthStatusOK
	var recordedLatency *time.Duration
	if err != nil {
		switch errors.KindOf(err) {
		case errors.KindTimeout:
			status = domain.HealthStatusTimeout
		case errors.KindConnectionFailed:
			status = domain.HealthStatusUnreachable
		default:
			status = domain.HealthStatusUnknown
		}
		d.logger.Debug("Agent probe failed", "server", id, "status", status, "error", err)
	} else {
		recordedLatency = &latency
	}

	if err := d.healthTracker.Update(id, status, recordedLatency); err != nil {
		d.logger.Error("Failed to record agent health", "server", id, "error", err)
	}
}
