// Parsers for the console output of HPL (the High-Performance Linpack benchmark).
//
// There are two dialects.  The CPU dialect is the output of the reference netlib HPL: a table row
// per timed variant, each followed by its own block of start/end times and a residual check.  The
// accelerator dialect is the output of NVIDIA's HPL build: table rows carry an extra parenthesized
// per-GPU rate, there is one timing and residual block for the whole log, and there are sections
// describing the devices and the memory use.
//
// Both dialects end with the same test summary.  The parsers never fail; whatever is not recognized
// is left out or null.

package hplout

type Dialect string

const (
	DialectCPU         Dialect = "cpu"
	DialectAccelerator Dialect = "accelerator"
)

// MT: Constant after initialization; immutable
var dialects = map[string]Dialect{
	string(DialectCPU):         DialectCPU,
	string(DialectAccelerator): DialectAccelerator,
}

func ParseDialect(s string) (Dialect, bool) {
	d, ok := dialects[s]
	return d, ok
}

// One row of the results table.  CPU rows carry their own residual check (the fields are always
// present in the JSON, possibly null).  Accelerator rows instead carry GflopsPerGpu.

type TimedRun struct {
	Tv           string   `json:"tv"`
	N            int      `json:"N"`
	NB           int      `json:"NB"`
	P            int      `json:"P"`
	Q            int      `json:"Q"`
	TimeSec      float64  `json:"timeSec"`
	Gflops       float64  `json:"gflops"`
	GflopsPerGpu *float64 `json:"gflopsPerGpu,omitempty"`
	*ResidualCheck
}

type ResidualCheck struct {
	StartTime      *string  `json:"startTime"`
	EndTime        *string  `json:"endTime"`
	Residual       *float64 `json:"residual"`
	ResidualPassed *bool    `json:"residualPassed"`
}

// The parsed log.  AcceleratorExtras is nil for the CPU dialect, and its fields are inlined in the
// JSON otherwise.

type Result struct {
	Dialect Dialect     `json:"dialect"`
	Runs    []TimedRun  `json:"runs"`
	Summary TestSummary `json:"summary"`
	*AcceleratorExtras
}

type AcceleratorExtras struct {
	DeviceInfo DeviceInfo `json:"deviceInfo"`
	MemInfo    MemInfo    `json:"memInfo"`
	Traces     []string   `json:"traces"`
	ResidualCheck
}

type DeviceInfo struct {
	PeakClockMHz *int `json:"peakClockMHz,omitempty"`
	SmVersion    *int `json:"smVersion,omitempty"`
	NumSms       *int `json:"numSms,omitempty"`
}

// Memory use by category (System, HPL buffers, Used, Total), for the devices and the host.

type MemInfo struct {
	Device map[string]MemStat `json:"DEVICE"`
	Host   map[string]MemStat `json:"HOST"`
}

type MemStat struct {
	MinGiB float64 `json:"minGiB"`
	MaxGiB float64 `json:"maxGiB"`
	AvgGiB float64 `json:"avgGiB"`
}

// Parse the log in the given dialect.
func Parse(dialect Dialect, raw string) *Result {
	if dialect == DialectAccelerator {
		return ParseAccelerator(raw)
	}
	return ParseCPU(raw)
}
