package collect

import (
	"errors"
	"fmt"
	"strings"

	"hplcollect/hplout"
	"hplcollect/record"
)

var (
	ErrNoSuites       = errors.New("No suites")
	ErrBadSuite       = errors.New("Bad suite definition")
	ErrDuplicateSuite = errors.New("Duplicate suite")
)

// A suite is a top-level directory of the source tree.  Its name selects the log dialect; the logs
// are never sniffed.

type Suite struct {
	Name    string
	Dialect hplout.Dialect
}

// Parse a comma-separated list of NAME=dialect pairs, eg "HPL=cpu,HPL_NVIDIA=accelerator".  The
// order is preserved.
func ParseSuites(s string) ([]Suite, error) {
	var suites []Suite
	seen := make(map[string]bool)
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, dialect, found := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !found || !record.ValidComponent(name) {
			return nil, fmt.Errorf("%w: %q", ErrBadSuite, item)
		}
		d, ok := hplout.ParseDialect(strings.TrimSpace(dialect))
		if !ok {
			return nil, fmt.Errorf("%w: unknown dialect in %q", ErrBadSuite, item)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSuite, name)
		}
		seen[name] = true
		suites = append(suites, Suite{name, d})
	}
	if len(suites) == 0 {
		return nil, ErrNoSuites
	}
	return suites, nil
}
