package daemon

import (
	"fmt"
	"time"
)

// DaemonOptions contains optional configuration for the daemon.
// NewDaemonOptions should be used to create instances of DaemonOptions.
type DaemonOptions struct {
	// HealthCheckInterval is how often every agent is probed.
	HealthCheckInterval time.Duration

	// PingTimeout bounds each individual health probe.
	PingTimeout time.Duration

	// API holds options forwarded to the status API server.
	API []APIOption
}

// DaemonOption defines a functional option for configuring DaemonOptions.
type DaemonOption func(*DaemonOptions) error

// NewDaemonOptions creates DaemonOptions with optional configurations applied.
func NewDaemonOptions(opts ...DaemonOption) (DaemonOptions, error) {
	options := DaemonOptions{
		HealthCheckInterval: DefaultHealthCheckInterval(),
		PingTimeout:         DefaultPingTimeout(),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return DaemonOptions{}, err
		}
	}

	return options, nil
}

// WithHealthCheckInterval configures how often agents are probed.
func WithHealthCheckInterval(interval time.Duration) DaemonOption {
	return func(o *DaemonOptions) error {
		if interval <= 0 {
			return fmt.Errorf("health check interval must be positive, got %v", interval)
		}
		o.HealthCheckInterval = interval
		return nil
	}
}

// WithPingTimeout configures the per-probe timeout.
func WithPingTimeout(timeout time.Duration) DaemonOption {
	return func(o *DaemonOptions) error {
		if timeout <= 0 {
			return fmt.Errorf("ping timeout must be positive, got %v", timeout)
		}
		o.PingTimeout = timeout
		return nil
	}
}

// WithAPIOptions forwards options to the status API server.
func WithAPIOptions(opt ...APIOption) DaemonOption {
	return func(o *DaemonOptions) error {
		o.API = append(o.API, opt...)
		return nil
	}
}

// DefaultHealthCheckInterval is the default interval between agent probes.
func DefaultHealthCheckInterval() time.Duration {
	return 10 * time.Second
}

// DefaultPingTimeout is the default timeout for a single agent probe.
func DefaultPingTimeout() time.Duration {
	return 3 * time.Second
}
