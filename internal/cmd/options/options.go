package options

import (
	"github.com/mozilla-ai/glanced/internal/config"
)

// CmdOption defines a functional option for configuring CmdOptions.
type CmdOption func(*CmdOptions) error

// CmdOptions carries injectable collaborators for commands, so tests can
// swap out the config layer.
type CmdOptions struct {
	ConfigLoader      config.Loader
	ConfigInitializer config.Initializer
}

func defaultOptions() CmdOptions {
	configLoader := &config.DefaultLoader{}
	return CmdOptions{
		ConfigLoader:      configLoader,
		ConfigInitializer: configLoader,
	}
}

// NewOptions creates CmdOptions with defaults, then applies the given options in order.
func NewOptions(opt ...CmdOption) (CmdOptions, error) {
	opts := defaultOptions()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return CmdOptions{}, err
		}
	}
	return opts, nil
}

// WithConfigLoader overrides the config loader used by a command.
func WithConfigLoader(l config.Loader) CmdOption {
	return func(o *CmdOptions) error {
		o.ConfigLoader = l
		return nil
	}
}

// WithConfigInitializer overrides the config initializer used by a command.
func WithConfigInitializer(i config.Initializer) CmdOption {
	return func(o *CmdOptions) error {
		o.ConfigInitializer = i
		return nil
	}
}
