package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/sarchlab/motorclutch/batch"
	"github.com/sarchlab/motorclutch/datarecording"
	"github.com/sarchlab/motorclutch/monitoring"
	"github.com/spf13/cobra"
)

type runOptions struct {
	trials           int
	seed             int64
	firstIndex       int
	out              string
	format           string
	label            string
	haltOnDetachment bool
	logEvents        bool
	monitor          bool
	monitorPort      int
}

func newRunCommand() *cobra.Command {
	opts := runOptions{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a batch of trials and write one table per trial.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadFromFlags(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("halt-on-detachment") {
				cfg.Run.HaltOnDetachment = opts.haltOnDetachment
			}

			if opts.label != "" {
				cfg.Label = opts.label
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runBatch(ctx, cmd, cfg, opts)
		},
	}

	flags := runCmd.Flags()
	flags.IntVarP(&opts.trials, "trials", "n", 1, "number of trials")
	flags.Int64Var(&opts.seed, "seed", 0, "base seed, trial i uses seed+i")
	flags.IntVar(&opts.firstIndex, "first-index", 0, "index of the first trial")
	flags.StringVarP(&opts.out, "out", "o", envOr(EnvOut, "."),
		"output directory")
	flags.StringVar(&opts.format, "format", envOr(EnvFormat, "csv"),
		"output format, csv or sqlite")
	flags.StringVar(&opts.label, "label", "",
		"label in output names, defaults to the preset label")
	flags.BoolVar(&opts.haltOnDetachment, "halt-on-detachment", false,
		"stop a trial when every clutch detaches")
	flags.BoolVar(&opts.logEvents, "log-events", false,
		"log every simulation event")
	flags.BoolVar(&opts.monitor, "monitor", false,
		"serve the monitoring API while running")

	port, _ := strconv.Atoi(envOr(EnvMonitorPort, "0"))
	flags.IntVar(&opts.monitorPort, "monitor-port", port,
		"port of the monitoring API, 0 picks a free port")

	return runCmd
}

func runBatch(
	ctx context.Context,
	cmd *cobra.Command,
	cfg FileConfig,
	opts runOptions,
) error {
	newRecorder, err := recorderFactory(opts.format, opts.out, cfg.Label)
	if err != nil {
		return err
	}

	runner := &batch.Runner{
		Config:      cfg.Model,
		RunConfig:   cfg.Run,
		Trials:      opts.trials,
		BaseSeed:    opts.seed,
		FirstIndex:  opts.firstIndex,
		Label:       cfg.Label,
		NewRecorder: newRecorder,
		Logger:      log.New(cmd.ErrOrStderr(), "", log.LstdFlags),
		LogEvents:   opts.logEvents,
	}

	if opts.monitor {
		runner.Monitor = monitoring.NewMonitor().WithPortNumber(opts.monitorPort)

		if _, err := runner.Monitor.StartServer(); err != nil {
			return err
		}

		defer runner.Monitor.StopServer(context.Background())
	}

	summary, err := runner.Run(ctx)

	fmt.Fprintf(cmd.OutOrStdout(),
		"completed: %d, halted: %d, detachments: %d\n",
		summary.Completed, summary.Halted, summary.Detachments)

	return err
}

func recorderFactory(
	format, out, label string,
) (batch.RecorderFactory, error) {
	switch format {
	case "csv":
		return func(string) (datarecording.DataRecorder, error) {
			r, err := datarecording.NewCSVRecorder(out,
				datarecording.WithColumnPrefix(label))
			if err != nil {
				return nil, err
			}

			return r, nil
		}, nil
	case "sqlite":
		if err := os.MkdirAll(out, 0o755); err != nil {
			return nil, err
		}

		return func(name string) (datarecording.DataRecorder, error) {
			r, err := datarecording.NewSQLiteRecorder(filepath.Join(out, name))
			if err != nil {
				return nil, err
			}

			return r, nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
