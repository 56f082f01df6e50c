package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ciricc/go-bench-describe/internal/config"
	"github.com/ciricc/go-bench-describe/internal/locator"
	"github.com/ciricc/go-bench-describe/internal/reduce"
	"github.com/ciricc/go-bench-describe/internal/table"
	"github.com/ciricc/go-bench-describe/pkg/benchreport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const preamble = `2026-10-17T10:00:00+00:00
Running ./bench
Run on (8 X 3400 MHz CPU s)
CPU Caches:
  L1 Data 32 KiB (x4)
  L2 Unified 256 KiB (x4)
  L3 Unified 8192 KiB (x1)
Load Average: 0.52, 0.58, 0.59
`

func writeRuns(t *testing.T, bodies ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(bodies))
	for i, b := range bodies {
		paths[i] = filepath.Join(dir, "run-"+string(rune('1'+i))+".csv")
		require.NoError(t, os.WriteFile(paths[i], []byte(b), 0o644))
	}
	return paths
}

func newApp(t *testing.T, cfg config.Config, opts ...Opt) *Application {
	t.Helper()
	opts = append([]Opt{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	a, err := New(cfg, opts...)
	require.NoError(t, err)
	return a
}

func TestDescribeRepeatedNames(t *testing.T) {
	// every iteration row shares the same name, so the join pairs all of them
	paths := writeRuns(t,
		"name,iter,cpu_time\nBM_X/1,0,100.4\nBM_X/1,1,99.7\n",
		"name,iter,cpu_time\nBM_X/1,0,101.0\nBM_X/1,1,98.5\n",
		"name,iter,cpu_time\nBM_X/1,0,100.1\nBM_X/1,1,99.9\n",
	)
	rep, err := newApp(t, config.Default()).Describe(context.Background(), paths)
	require.NoError(t, err)

	assert.Equal(t, []benchreport.ValueCount{
		{Name: "BM_X", NS: 98, Count: 4},
		{Name: "BM_X", NS: 99, Count: 3},
		{Name: "BM_X", NS: 100, Count: 1},
	}, rep.ValueCounts)
	assert.Equal(t, []benchreport.MinMax{{Name: "BM_X", Min: 98, Max: 100}}, rep.MinMax)
}

func TestDescribeBenchmarkOutput(t *testing.T) {
	header := "name,iterations,real_time,cpu_time,time_unit,bytes_per_second,items_per_second,label,error_occurred,error_message\n"
	run := func(a, b, c string) string {
		return preamble + header +
			`"umap_sdbm/0",1000,` + a + `,` + a + `,ns,,,,,` + "\n" +
			`"umap_sdbm/1",1000,` + b + `,` + b + `,ns,,,,,` + "\n" +
			`"ptable_sdbm/0",1000,` + c + `,` + c + `,ns,,,,,` + "\n"
	}
	paths := writeRuns(t,
		run("12.9", "13.2", "9.4"),
		run("12.1", "14.0", "9.9")+`"only_here/0",1,1,1,ns,,,,,`+"\n",
		run("12.5", "13.7", "9.1"),
		"not a benchmark file",
	)

	var buf bytes.Buffer
	require.NoError(t, newApp(t, config.Default()).Run(context.Background(), &buf, paths))

	out := buf.String()
	parts := strings.SplitN(out, "\n\n", 2)
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], "umap_sdbm")
	assert.Contains(t, parts[0], "ptable_sdbm")
	assert.NotContains(t, out, "only_here")

	rep, err := newApp(t, config.Default()).Describe(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, []benchreport.MinMax{
		{Name: "ptable_sdbm", Min: 9, Max: 9},
		{Name: "umap_sdbm", Min: 12, Max: 13},
	}, rep.MinMax)
}

func TestDescribeErroredRun(t *testing.T) {
	header := "name,iterations,real_time,cpu_time,time_unit,bytes_per_second,items_per_second,label,error_occurred,error_message\n"
	ok := header +
		`"f/1",10,5.6,5.5,ns,,,,,` + "\n" +
		`"f/2",10,6.5,6.4,ns,,,,,` + "\n"
	failed := header +
		`"f/1",10,5.8,5.7,ns,,,,,` + "\n" +
		`"f/2",,,,,,,,true,"boom"` + "\n"
	paths := writeRuns(t, ok, failed, ok)

	rep, err := newApp(t, config.Default()).Describe(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, []benchreport.MinMax{{Name: "f", Min: 5, Max: 6}}, rep.MinMax)
	assert.Equal(t, []benchreport.ValueCount{
		{Name: "f", NS: 5, Count: 1},
		{Name: "f", NS: 6, Count: 1},
	}, rep.ValueCounts)
}

func TestDescribeSkipLines(t *testing.T) {
	body := preamble + "name,iterations,cpu_time\nf/1,1,5.5\nf/2,1,6.5\n"
	paths := writeRuns(t, body, body, body)

	cfg := config.Default()
	cfg.Locator.Strategy = config.StrategySkipLines
	rep, err := newApp(t, cfg).Describe(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, []benchreport.MinMax{{Name: "f", Min: 5, Max: 6}}, rep.MinMax)
}

func TestDescribeWithLocatorOverride(t *testing.T) {
	body := "x\nname,cpu_time\nf/1,3\n"
	paths := writeRuns(t, body, body, body)

	a := newApp(t, config.Default(), WithLocator(locator.SkipLines{N: 1}))
	rep, err := a.Describe(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, []benchreport.MinMax{{Name: "f", Min: 3, Max: 3}}, rep.MinMax)
}

func TestDescribeErrors(t *testing.T) {
	good := "name,iter,cpu_time\nf/1,0,1\n"

	tests := []struct {
		name  string
		paths func(t *testing.T) []string
		is    error
	}{
		{
			name:  "too few inputs",
			paths: func(t *testing.T) []string { return writeRuns(t, good, good) },
			is:    ErrTooFewInputs,
		},
		{
			name: "missing cpu_time",
			paths: func(t *testing.T) []string {
				return writeRuns(t, good, "name,iter,real_time\nf/1,0,1\n", good)
			},
			is: table.ErrMissingColumn,
		},
		{
			name: "missing name",
			paths: func(t *testing.T) []string {
				return writeRuns(t, good, good, "benchmark,cpu_time\nf/1,1\n")
			},
			is: table.ErrMissingColumn,
		},
		{
			name: "name without slash",
			paths: func(t *testing.T) []string {
				b := "name,iter,cpu_time\nplain,0,1\n"
				return writeRuns(t, b, b, b)
			},
			is: reduce.ErrNoFamilySeparator,
		},
		{
			name: "bad cpu_time",
			paths: func(t *testing.T) []string {
				return writeRuns(t, good, good, "name,iter,cpu_time\nf/1,0,fast\n")
			},
			is: table.ErrBadValue,
		},
		{
			name: "missing file",
			paths: func(t *testing.T) []string {
				p := writeRuns(t, good, good)
				return append(p, filepath.Join(t.TempDir(), "absent.csv"))
			},
			is: os.ErrNotExist,
		},
		{
			name: "empty file",
			paths: func(t *testing.T) []string {
				return writeRuns(t, good, good, "")
			},
			is: table.ErrNoHeader,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newApp(t, config.Default()).Describe(context.Background(), tt.paths(t))
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestLoadTablesKeepsOrder(t *testing.T) {
	paths := writeRuns(t, "name,v\na/1,1\n", "name,v\nb/1,1\nb/2,2\n", "name,v\n")
	tables, err := newApp(t, config.Default()).LoadTables(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, 1, tables[0].Len())
	assert.Equal(t, 2, tables[1].Len())
	assert.Equal(t, 0, tables[2].Len())
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Locator.Strategy = "nope"
	_, err := New(cfg)
	assert.ErrorIs(t, err, config.ErrUnknownStrategy)
}

func TestFormatUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Report.MaxRows = 7
	assert.Equal(t, 7, newApp(t, cfg).Format().MaxRows)
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "debug")
	l.Debug("hello", "k", 1)
	assert.Contains(t, buf.String(), "hello")

	buf.Reset()
	l = NewLogger(&buf, "info")
	l.Debug("hidden")
	assert.Empty(t, buf.String())
}
