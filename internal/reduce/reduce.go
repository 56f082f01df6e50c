package reduce

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ciricc/go-bench-describe/internal/table"
	"github.com/ciricc/go-bench-describe/pkg/benchreport"
	"github.com/samber/lo"
)

var ErrNoFamilySeparator = errors.New("benchmark name has no '/'")

// RunColumns names the value columns of a table joined from three runs:
// the first two collide and carry join suffixes, the third keeps its name.
func RunColumns(value string) []string {
	return []string{value + table.LeftSuffix, value + table.RightSuffix, value}
}

// Family returns the part of name before the first '/'.
func Family(name string) (string, error) {
	i := strings.IndexByte(name, '/')
	if i < 0 {
		return "", fmt.Errorf("%w: %q", ErrNoFamilySeparator, name)
	}
	return name[:i], nil
}

// Min returns the smallest present value of cols for every row of t, or NaN
// when the row has no value at all. Taking the minimum over repeated runs
// drops scheduler and timer jitter.
func Min(t *table.Table, cols []string) ([]float64, error) {
	if len(cols) == 0 {
		return nil, errors.New("min: no columns")
	}
	series := make([][]float64, 0, len(cols))
	for _, c := range cols {
		vs, err := t.Floats(c)
		if err != nil {
			return nil, err
		}
		series = append(series, vs)
	}

	out := make([]float64, t.Len())
	for i := range out {
		present := lo.FilterMap(series, func(s []float64, _ int) (float64, bool) {
			return s[i], !math.IsNaN(s[i])
		})
		if len(present) == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = lo.Min(present)
	}
	return out, nil
}

// Records reduces a joined table to (family, floor(min)) pairs, one per row.
// Rows without any value are left out.
func Records(t *table.Table, key string, cols []string) ([]benchreport.Record, error) {
	names, err := t.Strings(key)
	if err != nil {
		return nil, err
	}
	mins, err := Min(t, cols)
	if err != nil {
		return nil, err
	}

	out := make([]benchreport.Record, 0, len(names))
	for i, name := range names {
		fam, err := Family(name)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if math.IsNaN(mins[i]) {
			continue
		}
		out = append(out, benchreport.Record{Name: fam, NS: int64(math.Floor(mins[i]))})
	}
	return out, nil
}
