package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mozilla-ai/glanced/internal/cmd"
	"github.com/mozilla-ai/glanced/internal/flags"
	"github.com/mozilla-ai/glanced/internal/perms"
)

// RootCmd should be used to represent the root 'glanced' command.
type RootCmd struct {
	*cmd.BaseCmd
}

// Execute configures logging, builds the command tree and runs it.
func Execute() error {
	logger, err := configureLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error configuring logger: %s\n", err)
		return err
	}

	rootCmd, err := NewRootCmd(logger)
	if err != nil {
		return err
	}

	return rootCmd.Execute()
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd(logger hclog.Logger) (*cobra.Command, error) {
	base := &cmd.BaseCmd{}
	base.SetLogger(logger)

	c := &RootCmd{
		BaseCmd: base,
	}

	rootCmd := &cobra.Command{
		Use:          "glanced <command> [args]",
		Short:        "'glanced' exposes live system metrics from Glances agents as MCP tools.",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      cmd.Version(),
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	initCmd, err := NewInitCmd(base)
	if err != nil {
		return nil, err
	}
	listCmd, err := NewListCmd(base)
	if err != nil {
		return nil, err
	}
	daemonCmd, err := NewDaemonCmd(base)
	if err != nil {
		return nil, err
	}

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(daemonCmd)

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `The 'glanced' CLI is a monitoring gateway for servers running the Glances agent.
It loads a registry of servers from configuration and exposes their live system
metrics (CPU, memory, disk, network and more) as MCP tools over stdio, alongside
an HTTP status API for registry and agent health information.`
}

func configureLogger() (hclog.Logger, error) {
	logPath := strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))

	// If GLANCED_LOG_PATH is not set, don't log anywhere.
	logOutput := io.Discard

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, perms.RegularFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		logOutput = f
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "glanced",
		Level:  hclog.LevelFromString(getLogLevel()),
		Output: logOutput,
	})

	return logger, nil
}

func getLogLevel() string {
	lvl := strings.ToLower(os.Getenv(flags.EnvVarLogLevel))
	switch lvl {
	case "trace", "debug", "info", "warn", "error", "off":
		return lvl
	default:
		return "info"
	}
}
