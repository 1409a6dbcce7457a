package parse

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func perform(t *testing.T, pc *ParseCommand, stdin string) map[string]any {
	t.Helper()
	if err := pc.Validate(); err != nil {
		t.Fatal(err)
	}
	var stdout strings.Builder
	if err := pc.Perform(context.Background(), strings.NewReader(stdin), &stdout, os.Stderr); err != nil {
		t.Fatal(err)
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(stdout.String()), &result); err != nil {
		t.Fatal(err)
	}
	return result
}

func TestParseDatFile(t *testing.T) {
	pc := &ParseCommand{Kind: "dat"}
	pc.SetRestArguments([]string{"../../hpldat/testdata/HPL.dat"})
	result := perform(t, pc, "")
	ns, ok := result["Ns"].([]any)
	if !ok || len(ns) != 2 || ns[1] != float64(20000) {
		t.Fatal(result["Ns"])
	}
}

func TestParseSbatch(t *testing.T) {
	pc := &ParseCommand{Kind: "sbatch"}
	result := perform(t, pc, "#SBATCH --nodes=4\n#SBATCH --tres-per-task=cpu=8\n")
	sb := result["sbatch"].(map[string]any)
	if sb["nodes"] != float64(4) {
		t.Fatal(sb)
	}
	if rs := result["resources"].([]any); len(rs) != 1 {
		t.Fatal(rs)
	}
}

func TestParseLog(t *testing.T) {
	pc := &ParseCommand{Kind: "accelerator"}
	result := perform(t, pc, "WC0 57344 576 1 1 4.51 2.78e+04 ( 2.78e+04)\n")
	if result["dialect"] != "accelerator" || len(result["runs"].([]any)) != 1 {
		t.Fatal(result)
	}
}

func TestParseValidate(t *testing.T) {
	if err := (&ParseCommand{Kind: "xml"}).Validate(); err == nil {
		t.Fatal("Bad kind accepted")
	}
	pc := &ParseCommand{Kind: "cpu"}
	pc.SetRestArguments([]string{"a", "b"})
	if err := pc.Validate(); err == nil {
		t.Fatal("Two files accepted")
	}
}
