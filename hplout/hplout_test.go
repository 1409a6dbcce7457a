package hplout

import (
	"encoding/json"
	"os"
	"slices"
	"strings"
	"testing"
)

func readTestData(t *testing.T, name string) string {
	t.Helper()
	bs, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatal(err)
	}
	return string(bs)
}

func TestParseCPU(t *testing.T) {
	r := ParseCPU(readTestData(t, "cpu.out"))
	if r.Dialect != DialectCPU || r.AcceleratorExtras != nil {
		t.Fatal("Dialect")
	}
	if len(r.Runs) != 2 {
		t.Fatal("Runs", len(r.Runs))
	}
	x := r.Runs[0]
	if x.Tv != "WR00C2R4" || x.N != 10000 || x.NB != 200 || x.P != 2 || x.Q != 2 ||
		x.TimeSec != 12.34 || x.Gflops != 543.21 {
		t.Fatalf("Row %+v", x)
	}
	if x.GflopsPerGpu != nil || x.ResidualCheck == nil {
		t.Fatal("Row shape")
	}
	if *x.Residual != 1.234e-12 || !*x.ResidualPassed {
		t.Fatal("Residual", *x.Residual, *x.ResidualPassed)
	}
	if *x.StartTime != "Fri Mar  7 10:00:01 2025" || *x.EndTime != "Fri Mar  7 10:00:13 2025" {
		t.Fatal("Times", *x.StartTime, *x.EndTime)
	}
	y := r.Runs[1]
	if y.Tv != "WR00L2L2" || *y.Residual != 35 || *y.ResidualPassed {
		t.Fatalf("Second row %+v", y)
	}
	if *y.StartTime != "Fri Mar  7 10:00:20 2025" {
		t.Fatal("Times attach to the open row", *y.StartTime)
	}
	s := r.Summary
	if !s.Present() || *s.TestsTotal != 2 || *s.TestsPassed != 1 || *s.TestsFailed != 1 ||
		*s.TestsSkipped != 0 {
		t.Fatal("Summary")
	}
}

func TestCPUSingleRow(t *testing.T) {
	r := ParseCPU(strings.Join([]string{
		"WR00C2R4      10000    200     2     2              12.34              5.4321e+02",
		"",
		"||Ax-b||_oo/(eps*... = 1.234e-12 ...... PASSED",
	}, "\n"))
	if len(r.Runs) != 1 {
		t.Fatal(r.Runs)
	}
	x := r.Runs[0]
	if x.N != 10000 || x.NB != 200 || x.P != 2 || x.Q != 2 || x.TimeSec != 12.34 ||
		x.Gflops != 543.21 || *x.Residual != 1.234e-12 || !*x.ResidualPassed {
		t.Fatalf("%+v", x)
	}
	if x.StartTime != nil || x.EndTime != nil {
		t.Fatal("Times should be null")
	}
}

func TestCPUEdges(t *testing.T) {
	// Residual lines before any row belong to nobody.
	r := ParseCPU("||Ax-b||_oo = 1.0 PASSED\nwr00 1 2 3 4 5.0 6.0\nW 1 2 3 4 5.0 6.0\n")
	if len(r.Runs) != 0 {
		t.Fatal(r.Runs)
	}
	// Unparseable numbers disqualify a row.
	r = ParseCPU("WR11 1 2 3 4 1.2.3 6.0\n")
	if len(r.Runs) != 0 {
		t.Fatal(r.Runs)
	}
	r = ParseCPU("")
	if r.Runs == nil || r.Summary.Present() {
		t.Fatal("Empty log")
	}
}

func TestSummaryAllOrNothing(t *testing.T) {
	s := ParseSummary("Finished 4 tests\n3 tests completed and passed\n1 tests completed and failed\n")
	if s.TestsTotal != nil || s.TestsPassed != nil || s.TestsFailed != nil || s.TestsSkipped != nil {
		t.Fatal("Partial summary")
	}
	s = ParseSummary("FINISHED 4 TESTS\n4 TESTS COMPLETED AND PASSED\n0 tests completed and failed\n0 tests skipped")
	if !s.Present() || *s.TestsPassed != 4 {
		t.Fatal("Case-insensitive summary")
	}
}

func TestSummaryWithoutRows(t *testing.T) {
	r := ParseCPU("Finished 0 tests\n0 tests completed and passed\n0 tests completed and failed\n3 tests skipped\n")
	if len(r.Runs) != 0 || !r.Summary.Present() || *r.Summary.TestsSkipped != 3 {
		t.Fatal("Summary is independent of rows")
	}
}

func TestParseAccelerator(t *testing.T) {
	r := ParseAccelerator(readTestData(t, "nvidia.out"))
	if r.Dialect != DialectAccelerator || r.AcceleratorExtras == nil {
		t.Fatal("Dialect")
	}
	if len(r.Runs) != 2 {
		t.Fatal("Runs", len(r.Runs))
	}
	x := r.Runs[0]
	if x.Tv != "WC0" || x.N != 57344 || x.NB != 576 || x.TimeSec != 4.51 || x.Gflops != 27800 ||
		*x.GflopsPerGpu != 27800 || x.ResidualCheck != nil {
		t.Fatalf("Row %+v", x)
	}

	d := r.DeviceInfo
	if *d.PeakClockMHz != 1980 || *d.SmVersion != 90 || *d.NumSms != 132 {
		t.Fatal("DeviceInfo")
	}
	if len(r.MemInfo.Device) != 4 || len(r.MemInfo.Host) != 1 {
		t.Fatal("MemInfo", r.MemInfo)
	}
	if u := r.MemInfo.Device["Used"]; u != (MemStat{10.50, 12.75, 11.60}) {
		t.Fatal("Device Used", u)
	}
	if u := r.MemInfo.Device["HPL buffers"]; u.AvgGiB != 60 {
		t.Fatal("HPL buffers", u)
	}
	if u := r.MemInfo.Host["Used"]; u != (MemStat{20, 22, 21}) {
		t.Fatal("Host Used", u)
	}

	if !slices.Equal(r.Traces, []string{"[HPL TRACE] cuda_nvshmem_init: 0.53 s", "[HPL TRACE] done"}) {
		t.Fatal("Traces", r.Traces)
	}

	// Last times win, first residual wins.
	if *r.StartTime != "Fri Mar  7 11:00:10 2025" || *r.EndTime != "Fri Mar  7 11:00:14 2025" {
		t.Fatal("Times", *r.StartTime, *r.EndTime)
	}
	if *r.Residual != 2.5e-3 || !*r.ResidualPassed {
		t.Fatal("Residual", *r.Residual)
	}
	if !r.Summary.Present() || *r.Summary.TestsTotal != 2 {
		t.Fatal("Summary")
	}
}

func TestAcceleratorMemorySection(t *testing.T) {
	r := ParseAccelerator("DEVICE\nUsed     = 10.50 GiB (MIN) 12.75 GiB (MAX) 11.60 GiB (AVG)\n")
	if u := r.MemInfo.Device["Used"]; u != (MemStat{MinGiB: 10.50, MaxGiB: 12.75, AvgGiB: 11.60}) {
		t.Fatal(u)
	}
	// Memory lines outside a memory section are ignored.
	r = ParseAccelerator("Used     = 10.50 GiB (MIN) 12.75 GiB (MAX) 11.60 GiB (AVG)\n")
	if len(r.MemInfo.Device) != 0 || len(r.MemInfo.Host) != 0 {
		t.Fatal(r.MemInfo)
	}
	// A CPU-style row is not an accelerator row.
	r = ParseAccelerator("WR00C2R4      10000    200     2     2              12.34              5.4321e+02\n")
	if len(r.Runs) != 0 {
		t.Fatal(r.Runs)
	}
}

func TestResultJSON(t *testing.T) {
	bs, err := json.Marshal(ParseAccelerator(""))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(bs, &m); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"dialect", "runs", "summary", "deviceInfo", "memInfo", "traces",
		"startTime", "endTime", "residual", "residualPassed"} {
		if _, found := m[k]; !found {
			t.Fatal("Missing", k)
		}
	}
	if m["startTime"] != nil || m["dialect"] != "accelerator" {
		t.Fatal(m)
	}

	bs, err = json.Marshal(ParseCPU("WR00C2R4 1 2 3 4 5.0 6.0\n"))
	if err != nil {
		t.Fatal(err)
	}
	s := string(bs)
	if strings.Contains(s, "deviceInfo") || strings.Contains(s, "gflopsPerGpu") ||
		!strings.Contains(s, `"residualPassed":null`) {
		t.Fatal(s)
	}
}

func TestBestOf(t *testing.T) {
	if BestOf(nil) != nil || ComputeStats(nil) != nil {
		t.Fatal("Empty")
	}
	runs := []TimedRun{
		{N: 1, Gflops: 10},
		{N: 2, Gflops: 25, NB: 7, TimeSec: 3},
		{N: 3, Gflops: 25},
		{N: 4, Gflops: 5},
	}
	b := BestOf(runs)
	if b.N != 2 || b.Gflops != 25 || b.NB != 7 || b.TimeSec != 3 {
		t.Fatal("Ties go to the first", b)
	}
	s := ComputeStats(runs)
	if s.Count != 4 || s.MinGflops != 5 || s.MaxGflops != 25 || s.MeanGflops != 16.25 ||
		s.MedianGflops != 17.5 {
		t.Fatalf("%+v", s)
	}
	if s.StddevGflops < 8.9 || s.StddevGflops > 9.0 {
		t.Fatal("Stddev", s.StddevGflops)
	}
}
