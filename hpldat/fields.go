package hpldat

import (
	"regexp"
	"strings"

	"hplcollect/textscan"
)

// A field claims a line if it is still eligible (normally: unset) and the line carries its trigger
// phrase.  Extraction happens even if the value turns out to be malformed, the line is consumed
// either way.

type field struct {
	name     string
	eligible func(s *Settings) bool
	matches  func(l string) bool
	extract  func(s *Settings, l string)
}

func (f *field) claim(s *Settings, l string) bool {
	if !f.eligible(s) || !f.matches(l) {
		return false
	}
	f.extract(s, l)
	return true
}

// The order matters: it is the precedence among fields whose phrases overlap.  In particular Ps is
// tested before Qs, and the count lines are tested before their lists.
//
// MT: Constant after initialization; immutable
var fields = []field{
	{
		"outputFilename",
		func(s *Settings) bool { return s.OutputFilename == nil },
		contains("output file name"),
		func(s *Settings, l string) {
			t := textscan.FirstToken(l)
			s.OutputFilename = &t
		},
	},
	intField("deviceOut", func(s *Settings) **int { return &s.DeviceOut }, contains("device out")),
	intField("numProblemSizes", func(s *Settings) **int { return &s.NumProblemSizes },
		pattern(`# of problems? sizes`)),
	listField("Ns", func(s *Settings) (*int, *[]float64) { return s.NumProblemSizes, &s.Ns },
		pattern(`\bNs\b`)),
	intField("numNBs", func(s *Settings) **int { return &s.NumNBs }, contains("# of NBs")),
	listField("NBs", func(s *Settings) (*int, *[]float64) { return s.NumNBs, &s.NBs },
		pattern(`\bNBs\b`)),
	intField("pmap", func(s *Settings) **int { return &s.Pmap }, pattern(`(?i)PMAP.*process mapping`)),
	intField("numGrids", func(s *Settings) **int { return &s.NumGrids },
		contains("# of process grids")),
	listField("Ps", func(s *Settings) (*int, *[]float64) { return s.NumGrids, &s.Ps },
		both(gridValues, pattern(`\bPs\b`))),
	listField("Qs", func(s *Settings) (*int, *[]float64) { return s.NumGrids, &s.Qs },
		both(gridValues, pattern(`\bQs\b`))),
	{
		"threshold",
		func(s *Settings) bool { return s.Threshold == nil },
		func(l string) bool { return thresholdRe.MatchString(l) && !swapThresholdRe.MatchString(l) },
		func(s *Settings, l string) {
			if f, ok := textscan.FloatToken(l); ok {
				s.Threshold = &f
			}
		},
	},
	intField("numPFACT", func(s *Settings) **int { return &s.NumPFACT },
		pattern(`(?i)# of panel fact`)),
	listField("PFACTs", func(s *Settings) (*int, *[]float64) { return s.NumPFACT, &s.PFACTs },
		pattern(`(?i)PFACTs`)),
	intField("numNBMIN", func(s *Settings) **int { return &s.NumNBMIN },
		pattern(`(?i)# of recursive stopping criterium`)),
	listField("NBMINs", func(s *Settings) (*int, *[]float64) { return s.NumNBMIN, &s.NBMINs },
		pattern(`(?i)NBMINs`)),
	intField("numPanelsInRecursion", func(s *Settings) **int { return &s.NumPanelsInRecursion },
		pattern(`(?i)# of panels in recursion`)),
	{
		// NDIVs has a count line but the list is accepted without it.
		"NDIVs",
		func(s *Settings) bool { return len(s.NDIVs) == 0 },
		pattern(`(?i)\bNDIVs\b`),
		func(s *Settings, l string) { s.NDIVs = textscan.Numbers(l) },
	},
	intField("numRFACT", func(s *Settings) **int { return &s.NumRFACT },
		pattern(`(?i)# of recursive panel fact`)),
	listField("RFACTs", func(s *Settings) (*int, *[]float64) { return s.NumRFACT, &s.RFACTs },
		pattern(`(?i)RFACTs`)),
	intField("numBCAST", func(s *Settings) **int { return &s.NumBCAST },
		pattern(`(?i)# of broadcast`)),
	listField("BCASTs", func(s *Settings) (*int, *[]float64) { return s.NumBCAST, &s.BCASTs },
		pattern(`(?i)BCASTs`)),
	intField("numDEPTH", func(s *Settings) **int { return &s.NumDEPTH },
		pattern(`(?i)# of lookahead depth`)),
	listField("DEPTHs", func(s *Settings) (*int, *[]float64) { return s.NumDEPTH, &s.DEPTHs },
		pattern(`(?i)DEPTHs`)),
	intField("swapMode", func(s *Settings) **int { return &s.SwapMode }, pattern(`\bSWAP\b`)),
	intField("swapThreshold", func(s *Settings) **int { return &s.SwapThreshold },
		swapThresholdRe.MatchString),
	intField("L1", func(s *Settings) **int { return &s.L1 }, pattern(`(?i)L1 .*form`)),
	intField("U", func(s *Settings) **int { return &s.U }, pattern(`(?i)\bU\s+.*form`)),
	intField("equilibration", func(s *Settings) **int { return &s.Equilibration },
		pattern(`(?i)Equilibration`)),
	intField("memoryAlignment", func(s *Settings) **int { return &s.MemoryAlignment },
		pattern(`(?i)memory alignment`)),
}

// MT: Constant after initialization; immutable
var (
	thresholdRe     = regexp.MustCompile(`(?i)threshold`)
	swapThresholdRe = regexp.MustCompile(`(?i)swapping threshold`)
	gridValuesRe    = regexp.MustCompile(`^\d+([ \t]+\d+)*`)
	gridValues      = gridValuesRe.MatchString
)

// An int setting taken from the first token.  The setting stays eligible until a value parses.
func intField(name string, slot func(*Settings) **int, matches func(string) bool) field {
	return field{
		name,
		func(s *Settings) bool { return *slot(s) == nil },
		matches,
		func(s *Settings, l string) {
			if n, ok := textscan.IntToken(l); ok {
				*slot(s) = &n
			}
		},
	}
}

// A list setting taken from all the numbers on the line, eligible once its count is known and
// nonzero and while the list is empty.
func listField(name string, slot func(*Settings) (*int, *[]float64), matches func(string) bool) field {
	return field{
		name,
		func(s *Settings) bool {
			count, list := slot(s)
			return count != nil && *count != 0 && len(*list) == 0
		},
		matches,
		func(s *Settings, l string) {
			_, list := slot(s)
			*list = textscan.Numbers(l)
		},
	}
}

func contains(phrase string) func(string) bool {
	return func(l string) bool { return strings.Contains(l, phrase) }
}

func pattern(re string) func(string) bool {
	return regexp.MustCompile(re).MatchString
}

func both(a, b func(string) bool) func(string) bool {
	return func(l string) bool { return a(l) && b(l) }
}
