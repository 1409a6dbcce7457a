package httpsrv

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"hplcollect/utils/auth"
	"hplcollect/utils/status"
)

func TestRequireAuth(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "passwords")
	if err := os.WriteFile(fn, []byte("hpl:linpack\n"), 0600); err != nil {
		t.Fatal(err)
	}
	a, err := auth.ReadPasswords(fn)
	if err != nil {
		t.Fatal(err)
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	log := status.NewStandardLogger(io.Discard)

	cases := []struct {
		authenticator *auth.Authenticator
		user, pass    string
		creds         bool
		status        int
	}{
		{a, "hpl", "linpack", true, 200},
		{a, "hpl", "wrong", true, 401},
		{a, "", "", false, 401},
		{nil, "", "", false, 200},
		{nil, "hpl", "linpack", true, 401},
	}
	for i, c := range cases {
		h := RequireAuth(log, ok, c.authenticator, "HPL results")
		r := httptest.NewRequest("GET", "/index", nil)
		if c.creds {
			r.SetBasicAuth(c.user, c.pass)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != c.status {
			t.Fatal(i, w.Code)
		}
		if w.Code == 401 && c.authenticator != nil && w.Header().Get("WWW-Authenticate") == "" {
			t.Fatal(i, "No challenge")
		}
	}
}
