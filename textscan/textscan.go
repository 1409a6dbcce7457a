// Small scanning primitives shared by the format parsers.  None of these fail: a token that does
// not parse is reported with ok=false and the caller leaves its field unset.

package textscan

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MT: Constant after initialization; immutable
var (
	lineBreak = regexp.MustCompile(`\r?\n`)
	numberRe  = regexp.MustCompile(`[-+]?\d*\.?\d+(?:[eE][-+]?\d+)?`)
)

// Split raw text into lines on LF or CRLF.  A trailing newline yields a final empty line, which all
// the parsers skip anyway.
func Lines(raw string) []string {
	return lineBreak.Split(raw, -1)
}

// The first whitespace-delimited token of the line, or "" for a blank line.
func FirstToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// The first token as a finite number.
func FloatToken(line string) (float64, bool) {
	return ParseFinite(FirstToken(line))
}

// The first token as a finite number truncated toward zero.
func IntToken(line string) (int, bool) {
	f, ok := FloatToken(line)
	if !ok || f > math.MaxInt || f < math.MinInt {
		return 0, false
	}
	return int(f), true
}

// Parse s as a decimal number, rejecting infinities and NaN.
func ParseFinite(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Every numeric literal on the line, in order: integers, decimals, and scientific notation.  The
// result is never nil.
func Numbers(line string) []float64 {
	result := make([]float64, 0)
	for _, s := range numberRe.FindAllString(line, -1) {
		if f, ok := ParseFinite(s); ok {
			result = append(result, f)
		}
	}
	return result
}
