package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/glanced/internal/cmd"
	cmdopts "github.com/mozilla-ai/glanced/internal/cmd/options"
	"github.com/mozilla-ai/glanced/internal/config"
	"github.com/mozilla-ai/glanced/internal/flags"
)

// ListCmd should be used to represent the 'list' command.
type ListCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
}

// NewListCmd creates a newly configured (Cobra) command.
func NewListCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ListCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "list",
		Short: "Lists the servers in the registry configuration",
		RunE:  c.run,
	}

	return cobraCommand, nil
}

func (c *ListCmd) run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	servers := cfg.ListServers()
	out := cobraCmd.OutOrStdout()

	_, _ = fmt.Fprintf(out, "%d server(s) configured:\n", len(servers))
	for _, s := range servers {
		_, _ = fmt.Fprintf(out, "  %s  %s  %s\n", s.ID, s.Name, s.URL)
		if s.Description != "" {
			_, _ = fmt.Fprintf(out, "    %s\n", s.Description)
		}
	}

	return nil
}
