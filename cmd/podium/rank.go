package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/podium/internal/adapters/report"
	service "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/config"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// rankOptions are the flags of the rank command.
type rankOptions struct {
	configPath  string
	metricsFile string
	outputDir   string
}

func newRankCmd() *cobra.Command {
	var opts rankOptions
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rate a season and write the ranking tables",
		Long: `Loads the configured tournaments, applies every round as one Glicko-2
rating period in season order and writes <prefix>full_rankings.csv,
<prefix>rankings.csv and <prefix>rankings.json to the output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runRank(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (YAML or JSON); defaults to $PODIUM_CONFIG")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "override output_dir from the config")
	return cmd
}

// runRank loads configuration, runs the season and writes the reports.
func runRank(ctx context.Context, stdout, stderr io.Writer, opts rankOptions) error {
	if err := logger.Init(logger.WithWriter(stderr)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = logger.Close() }()

	loadOpts := []config.LoadOption{}
	if opts.configPath != "" {
		loadOpts = append(loadOpts, config.WithFile(opts.configPath))
	}
	cfg, err := config.Load(ctx, loadOpts...)
	if err != nil {
		return err
	}
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}
	if opts.metricsFile != "" {
		cfg.MetricsFile = opts.metricsFile
	}

	if cfg.LogFile != "" {
		if err := logger.Init(logger.WithWriter(stderr), logger.WithFile(cfg.LogFile, 0, 0)); err != nil {
			return fmt.Errorf("initialize log file: %w", err)
		}
	}
	log := logger.Named("podium")
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svcOpts, err := service.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	svc := service.New(append(svcOpts, service.WithLogger(log.Named("service")))...)

	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	paths, err := report.NewWriter(cfg.OutputDir, report.WithPrefix(cfg.OutputPrefix)).Write(report.Document{
		RunID:       res.RunID,
		GeneratedAt: res.GeneratedAt,
		Rows:        res.Rows,
	})
	if err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn(ctx, "metrics textfile not written", logger.String("path", cfg.MetricsFile), logger.Error(err))
		}
	}

	_, err = fmt.Fprintf(stdout, "Ranked %d competitors from %d tournaments (%d rounds, %d matches)\nRankings saved to %s and %s\n",
		len(res.Rows), res.Stats.Tournaments, res.Stats.Rounds, res.Stats.Matches, paths.Summary, paths.Full)
	return err
}
