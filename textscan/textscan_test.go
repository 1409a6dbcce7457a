package textscan

import (
	"slices"
	"testing"
)

func TestLines(t *testing.T) {
	ls := Lines("a\r\nb\nc\n")
	if !slices.Equal(ls, []string{"a", "b", "c", ""}) {
		t.Fatalf("%q", ls)
	}
}

func TestTokens(t *testing.T) {
	if s := FirstToken("   HPL.out      output file name (if any)"); s != "HPL.out" {
		t.Fatal(s)
	}
	if s := FirstToken(" \t "); s != "" {
		t.Fatal(s)
	}
	if n, ok := IntToken("16.9  threshold"); !ok || n != 16 {
		t.Fatal(n, ok)
	}
	if n, ok := IntToken("-2.5 x"); !ok || n != -2 {
		t.Fatal(n, ok)
	}
	if _, ok := IntToken("HPL.out output file name"); ok {
		t.Fatal("Non-numeric token parsed")
	}
	if _, ok := IntToken("Inf x"); ok {
		t.Fatal("Infinity parsed")
	}
	if f, ok := FloatToken("1e3 x"); !ok || f != 1000 {
		t.Fatal(f, ok)
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		line   string
		expect []float64
	}{
		{"10000 20000     Ns", []float64{10000, 20000}},
		{"2            PFACTs (0=left, 1=Crout, 2=Right)", []float64{2, 0, 1, 2}},
		{"x = -1.5e-3, +.25 and 7E2", []float64{-1.5e-3, .25, 700}},
		{"no numbers here", []float64{}},
	}
	for _, c := range cases {
		got := Numbers(c.line)
		if got == nil || !slices.Equal(got, c.expect) {
			t.Fatalf("%q: got %v", c.line, got)
		}
	}
}
