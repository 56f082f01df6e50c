package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ciricc/go-bench-describe/internal/config"
	"github.com/ciricc/go-bench-describe/internal/locator"
	"github.com/ciricc/go-bench-describe/internal/reduce"
	"github.com/ciricc/go-bench-describe/internal/table"
	"github.com/ciricc/go-bench-describe/pkg/benchreport"
	"golang.org/x/sync/errgroup"
)

// RunCount is how many benchmark runs are joined.
const RunCount = 3

var ErrTooFewInputs = errors.New("too few input files")

type Application struct {
	Config  config.Config
	log     *slog.Logger
	locator locator.Locator
}

type Opts struct {
	Logger  *slog.Logger
	Locator locator.Locator
}

type Opt func(opts *Opts)

func WithLogger(l *slog.Logger) Opt {
	return func(opts *Opts) { opts.Logger = l }
}

// WithLocator overrides the locator chosen by the config.
func WithLocator(l locator.Locator) Opt {
	return func(opts *Opts) { opts.Locator = l }
}

func New(cfg config.Config, opts ...Opt) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o Opts
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = NewLogger(os.Stderr, cfg.Log.Level)
	}
	if o.Locator == nil {
		l, err := locator.FromConfig(cfg)
		if err != nil {
			return nil, err
		}
		o.Locator = l
	}

	return &Application{
		Config:  cfg,
		log:     o.Logger,
		locator: o.Locator,
	}, nil
}

// NewLogger builds the text logger used by the commands.
func NewLogger(w io.Writer, level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// Run describes the first RunCount files and prints the report to w.
func (a *Application) Run(ctx context.Context, w io.Writer, paths []string) error {
	rep, err := a.Describe(ctx, paths)
	if err != nil {
		return err
	}
	return benchreport.Render(w, rep, a.Format())
}

func (a *Application) Format() benchreport.Format {
	f := benchreport.DefaultFormat()
	f.MaxRows = a.Config.Report.MaxRows
	return f
}

// Describe loads, joins and reduces the first RunCount files. Extra paths are
// ignored.
func (a *Application) Describe(ctx context.Context, paths []string) (benchreport.Report, error) {
	if len(paths) < RunCount {
		return benchreport.Report{}, fmt.Errorf("%w: need %d, got %d", ErrTooFewInputs, RunCount, len(paths))
	}
	if len(paths) > RunCount {
		a.log.DebugContext(ctx, "Ignoring extra inputs", "ignored", paths[RunCount:])
	}
	paths = paths[:RunCount]

	tables, err := a.LoadTables(ctx, paths)
	if err != nil {
		return benchreport.Report{}, err
	}

	key, value := a.Config.Columns.Key, a.Config.Columns.Value
	for i, t := range tables {
		for _, col := range []string{key, value} {
			if _, err := t.Index(col); err != nil {
				return benchreport.Report{}, fmt.Errorf("input %q: %w", paths[i], err)
			}
		}
	}

	joined, err := table.JoinAll(key, tables...)
	if err != nil {
		return benchreport.Report{}, err
	}
	a.log.DebugContext(ctx, "Joined runs", "rows", joined.Len(), "columns", joined.Columns)

	records, err := reduce.Records(joined, key, reduce.RunColumns(value))
	if err != nil {
		return benchreport.Report{}, err
	}

	rep := benchreport.Build(records)
	a.log.InfoContext(ctx, "Described benchmarks", "records", len(records), "families", len(rep.MinMax))
	return rep, nil
}

// LoadTables reads every path concurrently. The result keeps the order of
// paths.
func (a *Application) LoadTables(ctx context.Context, paths []string) ([]*table.Table, error) {
	tables := make([]*table.Table, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := a.loadTable(p)
			if err != nil {
				return err
			}
			a.log.DebugContext(ctx, "Loaded input", "path", p, "rows", t.Len())
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (a *Application) loadTable(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %q: %w", path, err)
	}
	defer f.Close()

	r, err := a.locator.Locate(f)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", path, err)
	}
	t, err := table.Read(r)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", path, err)
	}
	return t, nil
}
