package hplout

import (
	"regexp"
	"strconv"
)

// The closing summary of a test session.  Either all four counts are set or none are.

type TestSummary struct {
	TestsTotal   *int `json:"testsTotal"`
	TestsPassed  *int `json:"testsPassed"`
	TestsFailed  *int `json:"testsFailed"`
	TestsSkipped *int `json:"testsSkipped"`
}

// MT: Constant after initialization; immutable
var summaryRe = regexp.MustCompile(
	`(?i)Finished\s+(\d+)\s+tests[\s\S]*?(\d+)\s+tests completed and passed` +
		`[\s\S]*?(\d+)\s+tests completed and failed[\s\S]*?(\d+)\s+tests skipped`)

// The first summary in the text, independent of any table rows.
func ParseSummary(raw string) TestSummary {
	m := summaryRe.FindStringSubmatch(raw)
	if m == nil {
		return TestSummary{}
	}
	var counts [4]int
	for i := range counts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return TestSummary{}
		}
		counts[i] = n
	}
	return TestSummary{&counts[0], &counts[1], &counts[2], &counts[3]}
}

// True if the summary was found.
func (s TestSummary) Present() bool {
	return s.TestsTotal != nil
}
