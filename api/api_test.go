package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"

	"hplcollect/collect"
	"hplcollect/record"
	"hplcollect/utils/filesys"
)

const testOut = "WR00C2R4      10000    200     2     2              12.34              5.4321e+02\n"

func publish(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	err := filesys.PopulateTestData(src,
		filesys.TestFile{Dir: "HPL/g/r", Name: "hpl.out", Data: []byte(testOut)},
		filesys.TestFile{Dir: "HPL/g/r", Name: "job.sh", Data: []byte("#SBATCH --nodes=1\n")},
	)
	if err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()
	suites, err := collect.ParseSuites("HPL=cpu")
	if err != nil {
		t.Fatal(err)
	}
	c, err := collect.NewCollector(collect.Config{SourceDir: src, OutputDir: out, Suites: suites})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestIndexAndRun(t *testing.T) {
	_, api := humatest.New(t)
	Register(api, publish(t))

	resp := api.Get("/index")
	if resp.Code != http.StatusOK {
		t.Fatal(resp.Code, resp.Body.String())
	}
	var index record.Index
	if err := json.Unmarshal(resp.Body.Bytes(), &index); err != nil {
		t.Fatal(err)
	}
	if len(index.Runs) != 1 || index.Runs[0].ID != "HPL/g/r" || index.Runs[0].Best.Gflops != 543.21 {
		t.Fatal(index)
	}

	resp = api.Get("/runs/HPL/g/r")
	if resp.Code != http.StatusOK {
		t.Fatal(resp.Code, resp.Body.String())
	}
	var r record.RunRecord
	if err := json.Unmarshal(resp.Body.Bytes(), &r); err != nil {
		t.Fatal(err)
	}
	if r.Out == nil || len(r.Out.Runs) != 1 || r.Job == nil || r.Dat != nil {
		t.Fatalf("%+v", r)
	}

	resp = api.Get("/raw/HPL/g/r/job.sh")
	if resp.Code != http.StatusOK || resp.Body.String() != "#SBATCH --nodes=1\n" {
		t.Fatal(resp.Code, resp.Body.String())
	}

	for _, missing := range []string{"/runs/HPL/g/nope", "/runs/HPL_NVIDIA/g/r", "/raw/HPL/g/r/HPL.dat"} {
		if resp := api.Get(missing); resp.Code != http.StatusNotFound {
			t.Fatal(missing, resp.Code)
		}
	}
}

func TestNoIndex(t *testing.T) {
	_, api := humatest.New(t)
	Register(api, t.TempDir())
	if resp := api.Get("/index"); resp.Code != http.StatusNotFound {
		t.Fatal(resp.Code)
	}
}

func TestBadPaths(t *testing.T) {
	h := NewHandler(publish(t))
	for _, p := range []string{"/runs/HPL/a%5Cb/r", "/runs/HPL/a%2Fb/r", "/raw/HPL/g/r/x%5Cy"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", p, nil))
		if w.Code != http.StatusBadRequest {
			t.Fatal(p, w.Code)
		}
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/runs/HPL/g/r", nil))
	if w.Code != http.StatusOK {
		t.Fatal(w.Code)
	}
}

func TestResponsesDescribed(t *testing.T) {
	_, api := humatest.New(t)
	Register(api, publish(t))
	for _, p := range []string{"/index", "/runs/HPL/g/r"} {
		resp := api.Get(p)
		var body map[string]any
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatal(p, err)
		}
		if _, found := body["$schema"]; !found {
			t.Fatal(p, "No schema link")
		}
		if p == "/runs/HPL/g/r" && (body["id"] != "HPL/g/r" || body["suite"] != "HPL") {
			t.Fatal(body)
		}
	}
}
