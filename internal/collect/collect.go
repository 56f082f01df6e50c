// Package collect runs a Google Benchmark binary several times and stores each
// run's CSV output, preamble included, for later description.
package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ciricc/go-bench-describe/pkg/benchreport"
)

// ManifestName is the file Collect writes next to the run files.
const ManifestName = "collection.json"

var (
	ErrNoBenchmark = errors.New("no benchmark binary given")
	ErrBadRepeats  = errors.New("repeats must be positive")
)

type Options struct {
	Bench   string
	Args    []string
	Filter  string
	Repeats int
	Warmup  bool
	OutDir  string
}

type Collector struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Collector {
	return &Collector{log: log}
}

// Collect runs the benchmark o.Repeats times, one after another, writing
// run-<n>.csv files and a manifest into o.OutDir.
func (c *Collector) Collect(ctx context.Context, o Options) (benchreport.Collection, error) {
	if o.Bench == "" {
		return benchreport.Collection{}, ErrNoBenchmark
	}
	if o.Repeats <= 0 {
		return benchreport.Collection{}, fmt.Errorf("%w: %d", ErrBadRepeats, o.Repeats)
	}
	if err := os.MkdirAll(o.OutDir, 0o755); err != nil {
		return benchreport.Collection{}, err
	}

	args := benchArgs(o)
	log := c.log.With("bench", o.Bench)

	if o.Warmup {
		log.InfoContext(ctx, "Warmup run")
		if _, err := run(ctx, o.Bench, args, io.Discard); err != nil {
			return benchreport.Collection{}, fmt.Errorf("warmup failed: %w", err)
		}
	}

	col := benchreport.Collection{
		TimestampRFC3339: time.Now().Format(time.RFC3339),
		Bench:            o.Bench,
		Args:             args,
		CPUModel:         detectCPUModel(),
		CPUNumLogical:    runtime.NumCPU(),
		OS:               runtime.GOOS,
		Arch:             runtime.GOARCH,
	}
	for i := 1; i <= o.Repeats; i++ {
		path := filepath.Join(o.OutDir, fmt.Sprintf("run-%d.csv", i))
		rf, err := runToFile(ctx, o.Bench, args, path)
		if err != nil {
			return benchreport.Collection{}, fmt.Errorf("run %d failed: %w", i, err)
		}
		log.InfoContext(ctx, "Run finished", "run", i, "path", path, "wall_seconds", rf.WallSeconds)
		col.Runs = append(col.Runs, rf)
	}

	if err := writeManifest(filepath.Join(o.OutDir, ManifestName), col); err != nil {
		return benchreport.Collection{}, fmt.Errorf("write manifest: %w", err)
	}
	return col, nil
}

func benchArgs(o Options) []string {
	args := []string{"--benchmark_format=csv"}
	if o.Filter != "" {
		args = append(args, "--benchmark_filter="+o.Filter)
	}
	return append(args, o.Args...)
}

func runToFile(ctx context.Context, bench string, args []string, path string) (benchreport.RunFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return benchreport.RunFile{}, err
	}
	defer f.Close()

	wall, err := run(ctx, bench, args, f)
	if err != nil {
		return benchreport.RunFile{}, err
	}
	return benchreport.RunFile{Path: path, WallSeconds: wall.Seconds()}, f.Close()
}

// run executes the benchmark with stdout and stderr both sent to w, so the
// context preamble ends up in front of the CSV table.
func run(ctx context.Context, bench string, args []string, w io.Writer) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, bench, args...)
	cmd.Stdout = w
	cmd.Stderr = w

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func writeManifest(path string, col benchreport.Collection) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(col); err != nil {
		return err
	}
	return f.Close()
}

// ReadManifest loads a manifest written by Collect.
func ReadManifest(path string) (benchreport.Collection, error) {
	var col benchreport.Collection
	f, err := os.Open(path)
	if err != nil {
		return col, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&col); err != nil {
		return col, fmt.Errorf("decode manifest: %w", err)
	}
	return col, nil
}
