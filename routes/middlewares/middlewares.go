package middlewares

import (
	"net/http"

	"github.com/mbolis/surwhen/httpx"
	"github.com/mbolis/surwhen/log"
)

// AdminToken guards the admin API with a shared secret, accepted either as
// the `token` query parameter or the X-Admin-Token header. Exact string
// equality, nothing more.
func AdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.URL.Query().Get("token")
			if got == "" {
				got = r.Header.Get("X-Admin-Token")
			}
			if token == "" || got != token {
				httpx.LogStatus(w, r, http.StatusUnauthorized, log.DebugLevel, "admin.token", "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
