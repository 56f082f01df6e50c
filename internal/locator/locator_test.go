package locator

import (
	"io"
	"strings"
	"testing"

	"github.com/ciricc/go-bench-describe/internal/config"
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

const table = "name,iterations,real_time,cpu_time\numap_sdbm/0,1000,12.5,12.4\n"

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

func TestScanForPrefixFindsHeader(t *testing.T) {
	in := "# comment one\n# comment two\nname,iter,cpu_time\nBM_X/1,0,100.4\n"
	r := strings.NewReader(in)

	out, err := ScanForPrefix{Prefix: "name,iter"}.Locate(r)
	require.NoError(t, err)

	pos, err := r.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(len("# comment one\n# comment two\n")), pos)
	assert.Equal(t, "name,iter,cpu_time\nBM_X/1,0,100.4\n", readAll(t, out))
}

func TestScanForPrefixRewindsWithoutMatch(t *testing.T) {
	in := "a,b\n1,2\n"
	r := strings.NewReader(in)

	out, err := ScanForPrefix{Prefix: "name,iter"}.Locate(r)
	require.NoError(t, err)

	pos, err := r.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)
	assert.Equal(t, in, readAll(t, out))
}

func TestScanForPrefixLastLineWithoutNewline(t *testing.T) {
	r := strings.NewReader("junk\nname,iter")
	out, err := ScanForPrefix{Prefix: "name,iter"}.Locate(r)
	require.NoError(t, err)
	assert.Equal(t, "name,iter", readAll(t, out))
}

func TestScanForPrefixCountsBytes(t *testing.T) {
	// multi-byte runes in the preamble must not shift the offset
	r := strings.NewReader("Запуск ✓\n" + table)
	out, err := ScanForPrefix{Prefix: "name,iter"}.Locate(r)
	require.NoError(t, err)
	assert.Equal(t, table, readAll(t, out))
}

func TestSkipLines(t *testing.T) {
	out, err := SkipLines{N: 8}.Locate(strings.NewReader(preamble + table))
	require.NoError(t, err)
	assert.Equal(t, table, readAll(t, out))
}

func TestSkipLinesShortInput(t *testing.T) {
	out, err := SkipLines{N: 8}.Locate(strings.NewReader("one\ntwo\n"))
	require.NoError(t, err)
	assert.Empty(t, readAll(t, out))
}

func TestFromConfig(t *testing.T) {
	c := config.Default()
	l, err := FromConfig(c)
	require.NoError(t, err)
	assert.Equal(t, ScanForPrefix{Prefix: "name,iter"}, l)

	c.Locator.Strategy = config.StrategySkipLines
	l, err = FromConfig(c)
	require.NoError(t, err)
	assert.Equal(t, SkipLines{N: 8}, l)

	c.Locator.Strategy = "other"
	_, err = FromConfig(c)
	assert.ErrorIs(t, err, config.ErrUnknownStrategy)
}
