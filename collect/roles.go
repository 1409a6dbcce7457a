package collect

import (
	"regexp"
)

// The role a file plays in a run directory.

type Role string

const (
	RoleDat    Role = "dat"
	RoleScript Role = "script"
	RoleOut    Role = "out"
	RoleErr    Role = "err"
	RoleSink   Role = "sink"
)

// For each role, patterns in order of preference; the first file (in name order) matching the
// earliest pattern is chosen.
//
// MT: Constant after initialization; immutable
var rolePatterns = []struct {
	role     Role
	patterns []*regexp.Regexp
}{
	{RoleDat, []*regexp.Regexp{regexp.MustCompile(`(?i)^HPL\.dat$`), regexp.MustCompile(`(?i)^HPT\.dat$`)}},
	{RoleScript, []*regexp.Regexp{regexp.MustCompile(`(?i)\.sh$`)}},
	{RoleOut, []*regexp.Regexp{regexp.MustCompile(`(?i)\.out$`), regexp.MustCompile(`(?i)out`)}},
	{RoleErr, []*regexp.Regexp{regexp.MustCompile(`(?i)\.err$`), regexp.MustCompile(`(?i)err`)}},
}

// The files chosen for each role, absent roles are missing from the map.  A file can in principle
// serve more than one role, eg "output.err" is both the log by the fallback rule and the error
// stream.
func assignRoles(files []string) map[Role]string {
	roles := make(map[Role]string)
	for _, rp := range rolePatterns {
	patterns:
		for _, re := range rp.patterns {
			for _, f := range files {
				if re.MatchString(f) {
					roles[rp.role] = f
					break patterns
				}
			}
		}
	}
	return roles
}
