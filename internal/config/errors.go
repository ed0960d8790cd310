package config

import (
	"errors"
)

var (
	// ErrConfigLoadFailed indicates the registry configuration could not be
	// loaded. It is startup-fatal: no tool calls are served on a rejected config.
	ErrConfigLoadFailed = errors.New("failed to load configuration")
)
