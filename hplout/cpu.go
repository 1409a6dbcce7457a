package hplout

import (
	"regexp"
	"strconv"
	"strings"

	"hplcollect/textscan"
)

// MT: Constant after initialization; immutable
var (
	cpuRowRe    = regexp.MustCompile(rowPattern)
	startTimeRe = regexp.MustCompile(`HPL_pdgesv\(\)\s+start time\s+(.+)`)
	endTimeRe   = regexp.MustCompile(`HPL_pdgesv\(\)\s+end time\s+(.+)`)
	residualRe  = regexp.MustCompile(`\|\|Ax-b\|\|_oo.*=\s*([0-9.eE+\-]+).*?(PASSED|FAILED)`)
)

// Variant label (two capitals first), N, NB, P, Q, time, Gflops.
const rowPattern = `^\s*([A-Z]{2}[^\s]*)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+([0-9.]+)\s+([0-9.eE+\-]+)`

// A table row opens a record; the time stamps and residual check that follow it attach to the open
// record until the next row.
func ParseCPU(raw string) *Result {
	runs := make([]TimedRun, 0)
	var cur *TimedRun
	for _, l := range textscan.Lines(raw) {
		if m := cpuRowRe.FindStringSubmatch(l); m != nil {
			if r, ok := newRun(m); ok {
				if cur != nil {
					runs = append(runs, *cur)
				}
				r.ResidualCheck = new(ResidualCheck)
				cur = &r
				continue
			}
		}
		if cur != nil {
			cur.ResidualCheck.scan(l)
		}
	}
	if cur != nil {
		runs = append(runs, *cur)
	}
	return &Result{
		Dialect: DialectCPU,
		Runs:    runs,
		Summary: ParseSummary(raw),
	}
}

// Update the check from one line.  A line can in principle carry more than one marker.
func (c *ResidualCheck) scan(l string) {
	if m := startTimeRe.FindStringSubmatch(l); m != nil {
		c.StartTime = trimmed(m[1])
	}
	if m := endTimeRe.FindStringSubmatch(l); m != nil {
		c.EndTime = trimmed(m[1])
	}
	if m := residualRe.FindStringSubmatch(l); m != nil {
		c.setResidual(m)
	}
}

// A residual that does not parse is null, but the verdict is still recorded.
func (c *ResidualCheck) setResidual(m []string) {
	c.Residual = nil
	if f, ok := textscan.ParseFinite(m[1]); ok {
		c.Residual = &f
	}
	passed := m[2] == "PASSED"
	c.ResidualPassed = &passed
}

// m is a row match: label, five integers-or-decimals, throughput.  Rows with unparseable numbers are
// not rows.
func newRun(m []string) (TimedRun, bool) {
	var ints [4]int
	for i := range ints {
		n, err := strconv.Atoi(m[i+2])
		if err != nil {
			return TimedRun{}, false
		}
		ints[i] = n
	}
	timeSec, ok := textscan.ParseFinite(m[6])
	if !ok {
		return TimedRun{}, false
	}
	gflops, ok := textscan.ParseFinite(m[7])
	if !ok {
		return TimedRun{}, false
	}
	return TimedRun{
		Tv:      m[1],
		N:       ints[0],
		NB:      ints[1],
		P:       ints[2],
		Q:       ints[3],
		TimeSec: timeSec,
		Gflops:  gflops,
	}, true
}

func trimmed(s string) *string {
	t := strings.TrimSpace(s)
	return &t
}
