// HTTP authentication logic.

package httpsrv

import (
	"fmt"
	"net/http"

	"hplcollect/utils/auth"
	"hplcollect/utils/status"
)

// Wrap handler with HTTP basic authentication for the given realm.  With a nil authenticator the
// request must carry no credentials at all.  Failures get a 401 response and are logged.
//
// The realm name probably should not contain a `"` character.
func RequireAuth(
	log status.Logger,
	handler http.Handler,
	authenticator *auth.Authenticator,
	realm string,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		passed := !ok && authenticator == nil ||
			ok && authenticator != nil && authenticator.Authenticate(user, pass)
		if !passed {
			if authenticator != nil {
				w.Header().Add("WWW-Authenticate", "Basic realm=\""+realm+"\", charset=\"utf-8\"")
			}
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintf(w, "Unauthorized")
			log.Warningf("Authorization failed for %s", r.URL.Path)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
