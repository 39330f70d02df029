// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfwatch/pfwatch/internal/config"
	"github.com/pfwatch/pfwatch/internal/log"
)

var configFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pfwatch",
	Short: "pfwatch - pf firewall log parser and exporter",
	Long: `pfwatch parses pf firewall logs from pfSense and OPNsense systems.

It understands the filterlog textual format produced by syslog as well
as binary pflog captures, and turns both into structured records.

Commands:
  parse     parse a filterlog file (or stdin) into JSON or YAML
  watch     follow a filterlog file and stream records continuously
  pcap      decode a binary pflog pcap capture
  validate  check a configuration file without running`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(pcapCmd)
	rootCmd.AddCommand(validateCmd)
}

// loadConfig loads the configuration named by --config, falling back to
// defaults when no file was given.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := log.Init(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
