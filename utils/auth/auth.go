// Password files for HTTP basic authentication.

package auth

import (
	"fmt"
	"os"
	"strings"
)

type Authenticator struct {
	identities map[string]string
}

// Read a file with lines of username:password pairs and return an object that will check a
// username/password pair.  Lines can be blank.  User names must be unique.
func ReadPasswords(filename string) (*Authenticator, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string)
	for i, l := range strings.Split(string(bs), "\n") {
		s := strings.TrimSpace(l)
		if s == "" {
			continue
		}
		user, pass, found := strings.Cut(s, ":")
		if !found || user == "" || strings.Contains(pass, ":") {
			return nil, fmt.Errorf("Password file has the wrong format (line %d)", i+1)
		}
		if _, dup := m[user]; dup {
			return nil, fmt.Errorf("Password file has duplicated user name (line %d)", i+1)
		}
		m[user] = pass
	}
	return &Authenticator{identities: m}, nil
}

func (a *Authenticator) Authenticate(user, pass string) bool {
	probe, found := a.identities[user]
	return found && probe == pass
}
