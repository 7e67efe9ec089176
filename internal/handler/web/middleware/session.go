package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/usermanager/internal/domain/session"
)

// IdentityReader resolves the signed-in admin of a request.
type IdentityReader interface {
	Identity(r *http.Request) (session.Identity, bool)
}

// SessionRequired sends requests without a valid session back to the login
// page and stores the identity in the context of the others.
func SessionRequired(sessions IdentityReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			id, ok := sessions.Identity(r)
			if !ok {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/")
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithIdentity(r.Context(), id)))
		}
		return http.HandlerFunc(hfn)
	}
}
