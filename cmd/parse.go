package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfwatch/pfwatch/internal/log"
	"github.com/pfwatch/pfwatch/internal/metrics"
	"github.com/pfwatch/pfwatch/internal/source"
	"github.com/pfwatch/pfwatch/pkg/filterlog"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a filterlog file into structured records",
	Long: `Parse a filterlog file and print one structured record per log line.

Reads from the given file, or from stdin when no file is given. Output
format is controlled by the configuration (json by default). In strict
mode the first malformed line aborts with an error; otherwise malformed
lines are logged and skipped.

Examples:
  pfwatch parse /var/log/filter.log
  tail -n 100 /var/log/filter.log | pfwatch parse
  pfwatch parse --format yaml filter.log`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runParseCommand(args)
	},
}

var (
	parseFormat string
	parseStrict bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "",
		"output format: json or yaml (overrides config)")
	parseCmd.Flags().BoolVar(&parseStrict, "strict", false,
		"abort on the first malformed line")
}

func runParseCommand(args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError("failed to load config", err)
	}

	format := cfg.Output.Format
	if parseFormat != "" {
		format = parseFormat
	}
	strict := cfg.Output.Strict || parseStrict

	em, err := newEmitter(os.Stdout, format)
	if err != nil {
		exitWithError("invalid output format", err)
	}

	var in *os.File
	src := "stdin"
	if len(args) == 1 {
		in, err = os.Open(args[0])
		if err != nil {
			exitWithError("failed to open input", err)
		}
		defer in.Close()
		src = args[0]
	} else {
		in = os.Stdin
	}

	var parsed, failed int
	err = source.ReadLines(in, func(line string) error {
		metrics.LinesTotal.WithLabelValues(src).Inc()
		rec, err := filterlog.Parse(line)
		if err != nil {
			failed++
			var perr *filterlog.ParseError
			if errors.As(err, &perr) {
				metrics.ParseErrorsTotal.WithLabelValues(perr.Stage.String()).Inc()
			}
			if strict {
				return err
			}
			log.L().WithError(err).Warn("skipping malformed line")
			return nil
		}
		parsed++
		metrics.RecordsTotal.WithLabelValues(string(rec.Filter.Action), string(rec.Proto.Name)).Inc()
		return em.emit(rec)
	})
	if err != nil {
		exitWithError("parse failed", err)
	}

	log.L().WithField("parsed", parsed).WithField("failed", failed).Info("done")
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d line(s) failed to parse\n", failed)
	}
}
