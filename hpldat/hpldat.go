// Parser for HPL.dat, the input file of the High-Performance Linpack benchmark.
//
// The format is line oriented.  The first two lines are free text (title and comment).  Each
// following line has one or more values first and a descriptive phrase after them, eg
//
//	HPL.out      output file name (if any)
//	1            # of problems sizes (N)
//	10000 20000  Ns
//
// Lists always follow their count line.  We match on the descriptive phrases, not on line
// positions, since hand-edited files often drop or reorder lines.  Each setting is taken from the
// first line that matches it; later lines for a setting that is already set are never used.
// Malformed values simply leave the setting unset.

package hpldat

import (
	"strings"

	"hplcollect/textscan"
)

// Scalars are nil when not found.  Lists are never nil.

type Settings struct {
	Header               []string  `json:"header"`
	OutputFilename       *string   `json:"outputFilename"`
	DeviceOut            *int      `json:"deviceOut"`
	NumProblemSizes      *int      `json:"numProblemSizes"`
	Ns                   []float64 `json:"Ns"`
	NumNBs               *int      `json:"numNBs"`
	NBs                  []float64 `json:"NBs"`
	Pmap                 *int      `json:"pmap"`
	NumGrids             *int      `json:"numGrids"`
	Ps                   []float64 `json:"Ps"`
	Qs                   []float64 `json:"Qs"`
	Threshold            *float64  `json:"threshold"`
	NumPFACT             *int      `json:"numPFACT"`
	PFACTs               []float64 `json:"PFACTs"`
	NumNBMIN             *int      `json:"numNBMIN"`
	NBMINs               []float64 `json:"NBMINs"`
	NumPanelsInRecursion *int      `json:"numPanelsInRecursion"`
	NDIVs                []float64 `json:"NDIVs"`
	NumRFACT             *int      `json:"numRFACT"`
	RFACTs               []float64 `json:"RFACTs"`
	NumBCAST             *int      `json:"numBCAST"`
	BCASTs               []float64 `json:"BCASTs"`
	NumDEPTH             *int      `json:"numDEPTH"`
	DEPTHs               []float64 `json:"DEPTHs"`
	SwapMode             *int      `json:"swapMode"`
	SwapThreshold        *int      `json:"swapThreshold"`
	L1                   *int      `json:"L1"`
	U                    *int      `json:"U"`
	Equilibration        *int      `json:"equilibration"`
	MemoryAlignment      *int      `json:"memoryAlignment"`
}

func newSettings() *Settings {
	return &Settings{
		Header: []string{},
		Ns:     []float64{},
		NBs:    []float64{},
		Ps:     []float64{},
		Qs:     []float64{},
		PFACTs: []float64{},
		NBMINs: []float64{},
		NDIVs:  []float64{},
		RFACTs: []float64{},
		BCASTs: []float64{},
		DEPTHs: []float64{},
	}
}

// Number of leading lines that may hold the free-text header.
const headerLines = 2

// Parse never fails; whatever could not be recognized is left at its default.
func Parse(raw string) *Settings {
	s := newSettings()
	lines := textscan.Lines(raw)
	for i, line := range lines {
		l := strings.TrimSpace(line)
		if l == "" {
			continue
		}
		if i < headerLines {
			s.Header = append(s.Header, l)
			continue
		}
		for _, f := range fields {
			if f.claim(s, l) {
				break
			}
		}
	}
	return s
}
