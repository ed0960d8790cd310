package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/glanced/internal/cmd"
	cmdopts "github.com/mozilla-ai/glanced/internal/cmd/options"
	"github.com/mozilla-ai/glanced/internal/config"
	"github.com/mozilla-ai/glanced/internal/flags"
)

// InitCmd should be used to represent the 'init' command.
type InitCmd struct {
	*cmd.BaseCmd
	cfgInitializer config.Initializer
}

// NewInitCmd creates a newly configured (Cobra) command.
func NewInitCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &InitCmd{
		BaseCmd:        baseCmd,
		cfgInitializer: opts.ConfigInitializer,
	}

	cobraCommand := &cobra.Command{
		Use:   "init",
		Short: "Creates a skeleton server registry configuration file",
		Long:  c.longDescription(),
		RunE:  c.run,
	}

	return cobraCommand, nil
}

func (c *InitCmd) longDescription() string {
	return fmt.Sprintf(
		"Creates a %s configuration file describing the servers to monitor.\n\n"+
			"Each entry in the file names a server and the base URL of its Glances agent.\n\n"+
			"The configuration file path can be overridden using the `--%s` flag or the `%s` environment variable",
		flags.DefaultConfigFile,
		flags.FlagNameConfigFile,
		flags.EnvVarConfigFile,
	)
}

func (c *InitCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger := c.Logger()

	initFilePath := flags.ConfigFile
	if initFilePath == flags.DefaultConfigFile {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("could not determine working directory: %w", err)
		}
		initFilePath = filepath.Join(wd, flags.DefaultConfigFile)
	}

	if _, err := os.Stat(initFilePath); err == nil {
		return fmt.Errorf("config file already exists: %s", initFilePath)
	}

	if err := c.cfgInitializer.Init(initFilePath); err != nil {
		return err
	}

	logger.Info("Created config file", "path", initFilePath)
	_, _ = fmt.Fprintf(cobraCmd.OutOrStdout(), "Created %s\n", initFilePath)

	return nil
}
