// Package table holds a small in-memory, header-named CSV table and the inner
// join used to merge repeated benchmark runs.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrBadValue      = errors.New("bad value")
	ErrNoHeader      = errors.New("no header row")
)

// Suffixes applied to colliding non-key columns by Join.
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

type Table struct {
	Columns []string
	Rows    [][]string
}

// Read parses CSV with the first record as header. Records shorter than the
// header are padded with empty cells, longer ones are cut.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{Columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		t.Rows = append(t.Rows, fit(rec, len(header)))
	}
	return t, nil
}

func fit(rec []string, n int) []string {
	if len(rec) == n {
		return rec
	}
	if len(rec) > n {
		return rec[:n]
	}
	return append(rec, make([]string, n-len(rec))...)
}

func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of col.
func (t *Table) Index(col string) (int, error) {
	i := lo.IndexOf(t.Columns, col)
	if i < 0 {
		return -1, fmt.Errorf("%w %q (have %v)", ErrMissingColumn, col, t.Columns)
	}
	return i, nil
}

func (t *Table) Strings(col string) ([]string, error) {
	i, err := t.Index(col)
	if err != nil {
		return nil, err
	}
	return lo.Map(t.Rows, func(row []string, _ int) string { return row[i] }), nil
}

// Floats parses col as numbers. Blank cells, which the benchmark library
// writes for runs that errored, come back as NaN. Cells that parse to a
// non-finite value are rejected.
func (t *Table) Floats(col string) ([]float64, error) {
	i, err := t.Index(col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(t.Rows))
	for n, row := range t.Rows {
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			out[n] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("%w: row %d column %q: %q", ErrBadValue, n+1, col, row[i])
		}
		out[n] = v
	}
	return out, nil
}

// Join inner-joins left and right on key. Non-key columns present on both
// sides get LeftSuffix and RightSuffix. A key repeated on both sides yields
// every pairing of its rows. Rows follow left order, then right order.
func Join(left, right *Table, key string) (*Table, error) {
	li, err := left.Index(key)
	if err != nil {
		return nil, fmt.Errorf("join left: %w", err)
	}
	ri, err := right.Index(key)
	if err != nil {
		return nil, fmt.Errorf("join right: %w", err)
	}

	leftOther := lo.Without(left.Columns, key)
	rightOther := lo.Without(right.Columns, key)
	shared := lo.Intersect(leftOther, rightOther)

	cols := make([]string, 0, len(left.Columns)+len(rightOther))
	for _, c := range left.Columns {
		if c != key && lo.Contains(shared, c) {
			c += LeftSuffix
		}
		cols = append(cols, c)
	}
	keep := make([]int, 0, len(rightOther))
	for i, c := range right.Columns {
		if i == ri {
			continue
		}
		if lo.Contains(shared, c) {
			c += RightSuffix
		}
		cols = append(cols, c)
		keep = append(keep, i)
	}

	byKey := lo.GroupBy(lo.Range(len(right.Rows)), func(i int) string {
		return right.Rows[i][ri]
	})

	out := &Table{Columns: cols}
	for _, lrow := range left.Rows {
		for _, j := range byKey[lrow[li]] {
			row := make([]string, 0, len(cols))
			row = append(row, lrow...)
			for _, k := range keep {
				row = append(row, right.Rows[j][k])
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// JoinAll folds Join over tables from the left.
func JoinAll(key string, tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, errors.New("join: no tables")
	}
	acc := tables[0]
	for _, t := range tables[1:] {
		var err error
		if acc, err = Join(acc, t, key); err != nil {
			return nil, err
		}
	}
	return acc, nil
}
