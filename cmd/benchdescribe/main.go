// benchdescribe joins three Google Benchmark CSV runs by benchmark name, keeps
// the fastest cpu_time per row and prints per-family value counts and min/max.
//
// Usage:
//
//	benchdescribe [flags] <run1.csv> <run2.csv> <run3.csv>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ciricc/go-bench-describe/internal/app"
	"github.com/ciricc/go-bench-describe/internal/config"
	"github.com/spf13/cobra"
)

type flags struct {
	configPath string
	prefix     string
	skipLines  int
	maxRows    int
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "benchdescribe <file1> <file2> <file3>",
		Short: "Describe the noise-reduced timings of three benchmark runs",
		Long: `benchdescribe reads three CSV files written by Google Benchmark
(--benchmark_format=csv), inner-joins them on the benchmark name, takes the
minimum cpu_time of each joined row and groups the results by benchmark family
(the part of the name before the first '/').

Only the first three files are used.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			a, err := app.New(cfg, app.WithLogger(app.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level)))
			if err != nil {
				return err
			}
			return a.Run(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	fl.StringVar(&f.prefix, "prefix", "", "locate the CSV header by scanning for a line with this prefix")
	fl.IntVar(&f.skipLines, "skip-lines", 0, "locate the CSV header by skipping this many lines")
	fl.IntVar(&f.maxRows, "max-rows", 0, "rows shown per view before truncating (0 keeps config value)")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	cmd.MarkFlagsMutuallyExclusive("prefix", "skip-lines")

	return cmd
}

// loadConfig layers flags over the config file over defaults.
func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}

	fl := cmd.Flags()
	if fl.Changed("prefix") {
		cfg.Locator.Strategy = config.StrategyScanPrefix
		cfg.Locator.Prefix = f.prefix
	}
	if fl.Changed("skip-lines") {
		cfg.Locator.Strategy = config.StrategySkipLines
		cfg.Locator.SkipLines = f.skipLines
	}
	if fl.Changed("max-rows") {
		cfg.Report.MaxRows = f.maxRows
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
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
