// benchcollect runs a Google Benchmark binary repeatedly in CSV mode and keeps
// one output file per run, ready for benchdescribe.
//
// Usage:
//
//	benchcollect --bench ./bench [--repeats 3] [--out-dir runs] [--describe] [-- bench args...]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ciricc/go-bench-describe/internal/app"
	"github.com/ciricc/go-bench-describe/internal/collect"
	"github.com/ciricc/go-bench-describe/internal/config"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		opts       collect.Options
		describe   bool
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "benchcollect --bench <binary> [-- bench args...]",
		Short: "Run a benchmark binary several times and store its CSV output",
		Long: `benchcollect runs the benchmark sequentially --repeats times with
--benchmark_format=csv and writes run-1.csv ... run-N.csv plus a
collection.json manifest to --out-dir. Arguments after -- are passed to the
benchmark. With --describe the first three runs are described right away.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}
			if verbose {
				cfg.Log.Level = "debug"
			}
			log := app.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level)

			if describe && opts.Repeats < app.RunCount {
				return fmt.Errorf("--describe needs --repeats >= %d: %w", app.RunCount, app.ErrTooFewInputs)
			}

			opts.Args = args
			col, err := collect.New(log).Collect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if !describe {
				return nil
			}

			a, err := app.New(cfg, app.WithLogger(log))
			if err != nil {
				return err
			}
			return a.Run(cmd.Context(), cmd.OutOrStdout(), col.Paths())
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&opts.Bench, "bench", "", "path to the benchmark binary")
	fl.IntVar(&opts.Repeats, "repeats", app.RunCount, "number of measured runs")
	fl.StringVar(&opts.OutDir, "out-dir", "runs", "directory for run files and manifest")
	fl.StringVar(&opts.Filter, "filter", "", "value for --benchmark_filter")
	fl.BoolVar(&opts.Warmup, "warmup", false, "run once unmeasured before the measured runs")
	fl.BoolVar(&describe, "describe", false, "describe the runs after collecting them")
	fl.StringVarP(&configPath, "config", "c", "", "YAML config file used by --describe")
	fl.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	_ = cmd.MarkFlagRequired("bench")

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fatalf("error: %v", err)
	}
}

func fatalf(format string, a ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
