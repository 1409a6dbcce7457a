// Parser for the #SBATCH directives of a Slurm job script.
//
// Every line of the form `#SBATCH --key[=value]` sets a directive.  Unlike HPL.dat a later line
// overrides an earlier one for the same key, the same way sbatch itself treats repeated options.
// The directives that count nodes, tasks and cpus are numeric; the rest keep their trimmed text, or
// `true` if there is no value.
//
// Only the `--key=value` form is recognized.  `--key value` is recorded as a bare flag, since the
// regular expression stops at whitespace.

package sbatch

import (
	"math"
	"regexp"
	"strings"

	"hplcollect/textscan"
)

type Directives map[string]any

// MT: Constant after initialization; immutable
var (
	directiveRe = regexp.MustCompile(`^#SBATCH\s+--([^=\s]+)(?:=(.+))?`)
	numericKeys = map[string]bool{
		"nodes":           true,
		"ntasks":          true,
		"ntasks-per-node": true,
		"cpus-per-task":   true,
	}
)

// Parse never fails.  The result is never nil.
func Parse(raw string) Directives {
	d := make(Directives)
	for _, l := range textscan.Lines(raw) {
		m := directiveRe.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		key := strings.TrimSpace(m[1])
		val := strings.TrimSpace(m[2])
		switch {
		case numericKeys[key]:
			d[key] = number(val)
		case val == "":
			d[key] = true
		default:
			d[key] = val
		}
	}
	return d
}

// A numeric directive is an int when integral and in range, a float otherwise, and nil if it is not
// a number.
func number(val string) any {
	f, ok := textscan.ParseFinite(val)
	if !ok {
		return nil
	}
	// float64(math.MaxInt) is 2^63, which is not an int.
	if f == math.Trunc(f) && f >= math.MinInt && f < math.MaxInt {
		return int(f)
	}
	return f
}

// Returns the directive as an int if it is one.
func (d Directives) Int(key string) (int, bool) {
	n, ok := d[key].(int)
	return n, ok
}
