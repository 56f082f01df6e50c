package benchreport

import "github.com/samber/lo"

type RunFile struct {
	Path        string  `json:"path"`
	WallSeconds float64 `json:"wall_seconds"`
}

// Collection describes a set of benchmark runs captured on one machine.
type Collection struct {
	TimestampRFC3339 string    `json:"timestamp_rfc3339"`
	Bench            string    `json:"bench"`
	Args             []string  `json:"args"`
	CPUModel         string    `json:"cpu_model"`
	CPUNumLogical    int       `json:"cpu_num_logical"`
	OS               string    `json:"os"`
	Arch             string    `json:"arch"`
	Runs             []RunFile `json:"runs"`
}

func (c Collection) Paths() []string {
	return lo.Map(c.Runs, func(r RunFile, _ int) string { return r.Path })
}
