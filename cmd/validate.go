package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfwatch/pfwatch/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a pfwatch configuration file without running anything.

This is useful for pre-checking configuration before deploying.

Examples:
  pfwatch validate -c pfwatch.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		runValidateCommand()
	},
}

func runValidateCommand() {
	if configFile == "" {
		exitWithError("no config file: pass one with --config", nil)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("VALID: output format %s, log level %s\n",
		cfg.Output.Format, cfg.Log.Level)
}
