package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"hplcollect/collect"
	"hplcollect/record"
	"hplcollect/utils/filesys"
)

type recordingSink struct {
	runs  []*record.RunRecord
	index *record.Index
	fail  error
}

func (s *recordingSink) PutRun(_ context.Context, r *record.RunRecord) error {
	if s.fail != nil {
		return s.fail
	}
	s.runs = append(s.runs, r)
	return nil
}

func (s *recordingSink) PutIndex(_ context.Context, index *record.Index) error {
	s.index = index
	return nil
}

func publish(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	out := t.TempDir()
	err := filesys.PopulateTestData(src,
		filesys.TestFile{Dir: "HPL/b/2", Name: "HPL.dat", Data: []byte("t\nc\n1 # of problems sizes (N)\n2000 Ns\n")},
		filesys.TestFile{Dir: "HPL/a/1", Name: "hpl.out", Data: []byte(
			"WR00C2R4      10000    200     2     2              12.34              5.4321e+02\n")},
	)
	if err != nil {
		t.Fatal(err)
	}
	suites, _ := collect.ParseSuites("HPL=cpu")
	c, err := collect.NewCollector(collect.Config{
		SourceDir: src,
		OutputDir: out,
		Suites:    suites,
		Now:       func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestExport(t *testing.T) {
	out := publish(t)
	sink := new(recordingSink)
	n, err := Export(context.Background(), out, sink)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || len(sink.runs) != 2 || sink.index == nil {
		t.Fatal(n, sink.runs)
	}
	if sink.runs[0].ID != "HPL/a/1" || sink.runs[0].Best == nil || sink.runs[0].Best.Gflops != 543.21 {
		t.Fatalf("%+v", sink.runs[0])
	}
	if sink.runs[1].Dat == nil || sink.runs[1].Dat.Parsed.Ns[0] != 2000 {
		t.Fatalf("%+v", sink.runs[1].Dat)
	}
	if sink.index.GeneratedAt != "2025-01-02T03:04:05.000Z" {
		t.Fatal(sink.index.GeneratedAt)
	}
}

func TestExportFailures(t *testing.T) {
	if _, err := Export(context.Background(), t.TempDir(), new(recordingSink)); err == nil {
		t.Fatal("Missing index accepted")
	}

	out := publish(t)
	boom := errors.New("boom")
	n, err := Export(context.Background(), out, &recordingSink{fail: boom})
	if !errors.Is(err, boom) || n != 0 {
		t.Fatal(n, err)
	}
}

func TestExportCancelled(t *testing.T) {
	out := publish(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := new(recordingSink)
	n, err := Export(ctx, out, sink)
	if !errors.Is(err, context.Canceled) || n != 0 || sink.index != nil {
		t.Fatal(n, err)
	}
}

func TestExportValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := new(ExportCommand).Validate(); err == nil {
		t.Fatal("Missing -database-uri accepted")
	}
}
