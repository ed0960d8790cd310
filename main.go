package main

import (
	"os"

	"github.com/mozilla-ai/glanced/cmd"
)

func main() {
	// Execute the root command.
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
