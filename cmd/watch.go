package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfwatch/pfwatch/internal/log"
	"github.com/pfwatch/pfwatch/internal/metrics"
	"github.com/pfwatch/pfwatch/internal/source"
	"github.com/pfwatch/pfwatch/pkg/filterlog"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Follow a filterlog file and stream records",
	Long: `Follow a filterlog file like tail -f, parsing new lines as they
are appended and printing structured records continuously.

Log rotation (truncation) is detected and handled. When metrics are
enabled in the configuration, a Prometheus endpoint is served while
watching. Stop with SIGINT or SIGTERM.

Examples:
  pfwatch watch /var/log/filter.log
  pfwatch -c pfwatch.yml watch`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWatchCommand(args)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchPollInterval, "poll-interval", 0,
		"file polling interval (overrides config)")
}

var watchPollInterval time.Duration

func runWatchCommand(args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError("failed to load config", err)
	}

	path := cfg.Input.Path
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		exitWithError("no input file: pass one as an argument or set input.path", nil)
	}

	interval := cfg.Input.PollInterval
	if watchPollInterval > 0 {
		interval = watchPollInterval
	}

	em, err := newEmitter(os.Stdout, cfg.Output.Format)
	if err != nil {
		exitWithError("invalid output format", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
		srv.Start()
		defer srv.Stop(context.Background())
	}

	src := source.FileSource{
		Path:         path,
		Follow:       true,
		PollInterval: interval,
	}

	log.L().WithField("path", path).Info("watching filterlog")

	err = src.Lines(ctx, func(line string) error {
		metrics.LinesTotal.WithLabelValues(path).Inc()
		rec, err := filterlog.Parse(line)
		if err != nil {
			var perr *filterlog.ParseError
			if errors.As(err, &perr) {
				metrics.ParseErrorsTotal.WithLabelValues(perr.Stage.String()).Inc()
			}
			if cfg.Output.Strict {
				return err
			}
			log.L().WithError(err).Warn("skipping malformed line")
			return nil
		}
		metrics.RecordsTotal.WithLabelValues(string(rec.Filter.Action), string(rec.Proto.Name)).Inc()
		return em.emit(rec)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		exitWithError("watch failed", err)
	}

	log.L().Info("watch stopped")
}
