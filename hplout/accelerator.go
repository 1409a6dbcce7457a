package hplout

import (
	"regexp"
	"strconv"
	"strings"

	"hplcollect/textscan"
)

type section int

const (
	noSection section = iota
	deviceInfoSection
	memInfoSection
	memDeviceSection
	memHostSection
)

// MT: Constant after initialization; immutable
var (
	acceleratorRowRe = regexp.MustCompile(rowPattern + `\s+\(\s*([0-9.eE+\-]+)\s*\)`)
	memDeviceRe      = regexp.MustCompile(`^DEVICE\s*$`)
	memHostRe        = regexp.MustCompile(`^HOST\s*$`)
	peakClockRe      = regexp.MustCompile(`(?i)Peak clock frequency:\s+(\d+)\s*MHz`)
	smVersionRe      = regexp.MustCompile(`(?i)SM version\s*:\s*(\d+)`)
	numSmsRe         = regexp.MustCompile(`(?i)Number of SMs\s*:\s*(\d+)`)
	memStatRe        = regexp.MustCompile(
		`^\s*(System|HPL buffers|Used|Total)\s*=\s*([0-9.]+)\s*GiB\s*\(MIN\)\s*([0-9.]+)\s*GiB\s*\(MAX\)` +
			`\s*([0-9.]+)\s*GiB\s*\(AVG\)`)
)

const (
	deviceInfoMarker = "--- DEVICE INFO ---"
	memInfoMarker    = "--- MEMORY INFO ---"
	traceTag         = "[HPL TRACE]"
)

// Table rows are independent.  Section markers switch the line interpretation for device and
// memory data; trace lines are kept whatever the section.  The timing and residual check are taken
// from the whole text: the last start and end times win, the first residual check wins.
func ParseAccelerator(raw string) *Result {
	runs := make([]TimedRun, 0)
	extras := &AcceleratorExtras{
		MemInfo: MemInfo{
			Device: make(map[string]MemStat),
			Host:   make(map[string]MemStat),
		},
		Traces: make([]string, 0),
	}
	sect := noSection
	for _, l := range textscan.Lines(raw) {
		if m := acceleratorRowRe.FindStringSubmatch(l); m != nil {
			if r, ok := newRun(m); ok {
				if perGpu, ok := textscan.ParseFinite(m[8]); ok {
					r.GflopsPerGpu = &perGpu
				}
				runs = append(runs, r)
				continue
			}
		}
		switch {
		case strings.Contains(l, deviceInfoMarker):
			sect = deviceInfoSection
			continue
		case strings.Contains(l, memInfoMarker):
			sect = memInfoSection
			continue
		case memDeviceRe.MatchString(l):
			sect = memDeviceSection
			continue
		case memHostRe.MatchString(l):
			sect = memHostSection
			continue
		case strings.HasPrefix(l, traceTag):
			extras.Traces = append(extras.Traces, strings.TrimSpace(l))
			continue
		}
		switch sect {
		case deviceInfoSection:
			extras.DeviceInfo.scan(l)
		case memDeviceSection:
			scanMemStat(extras.MemInfo.Device, l)
		case memHostSection:
			scanMemStat(extras.MemInfo.Host, l)
		}
	}

	if m := startTimeRe.FindAllStringSubmatch(raw, -1); m != nil {
		extras.StartTime = trimmed(m[len(m)-1][1])
	}
	if m := endTimeRe.FindAllStringSubmatch(raw, -1); m != nil {
		extras.EndTime = trimmed(m[len(m)-1][1])
	}
	if m := residualRe.FindStringSubmatch(raw); m != nil {
		extras.setResidual(m)
	}

	return &Result{
		Dialect:           DialectAccelerator,
		Runs:              runs,
		Summary:           ParseSummary(raw),
		AcceleratorExtras: extras,
	}
}

func (d *DeviceInfo) scan(l string) {
	setInt(&d.PeakClockMHz, peakClockRe, l)
	setInt(&d.SmVersion, smVersionRe, l)
	setInt(&d.NumSms, numSmsRe, l)
}

func setInt(slot **int, re *regexp.Regexp, l string) {
	if m := re.FindStringSubmatch(l); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			*slot = &n
		}
	}
}

func scanMemStat(into map[string]MemStat, l string) {
	m := memStatRe.FindStringSubmatch(l)
	if m == nil {
		return
	}
	var v [3]float64
	for i := range v {
		f, ok := textscan.ParseFinite(m[i+2])
		if !ok {
			return
		}
		v[i] = f
	}
	into[m[1]] = MemStat{MinGiB: v[0], MaxGiB: v[1], AvgGiB: v[2]}
}
