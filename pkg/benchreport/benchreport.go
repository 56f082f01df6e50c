package benchreport

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// Record is one joined benchmark row after noise reduction: the benchmark
// family and its minimum cpu time across runs, floored to whole units.
type Record struct {
	Name string `json:"name"`
	NS   int64  `json:"ns"`
}

// ValueCount is how many records of a family share the same NS.
type ValueCount struct {
	Name  string `json:"name"`
	NS    int64  `json:"ns"`
	Count int    `json:"count"`
}

type MinMax struct {
	Name string `json:"name"`
	Min  int64  `json:"min"`
	Max  int64  `json:"max"`
}

type Report struct {
	ValueCounts []ValueCount `json:"value_counts"`
	MinMax      []MinMax     `json:"min_max"`
}

// Build groups records by name. Names come out sorted; inside a name value
// counts are ordered by count descending, then NS ascending.
func Build(records []Record) Report {
	groups := lo.GroupBy(records, func(r Record) string { return r.Name })
	names := lo.Keys(groups)
	slices.Sort(names)

	var rep Report
	for _, name := range names {
		ns := lo.Map(groups[name], func(r Record, _ int) int64 { return r.NS })

		counts := lo.MapToSlice(lo.CountValues(ns), func(v int64, n int) ValueCount {
			return ValueCount{Name: name, NS: v, Count: n}
		})
		slices.SortFunc(counts, func(a, b ValueCount) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return cmp.Compare(a.NS, b.NS)
		})
		rep.ValueCounts = append(rep.ValueCounts, counts...)

		rep.MinMax = append(rep.MinMax, MinMax{Name: name, Min: lo.Min(ns), Max: lo.Max(ns)})
	}
	return rep
}
