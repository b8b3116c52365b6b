package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Bahjat/project-tasks-web/internal/platform/errs"
	"github.com/Bahjat/project-tasks-web/internal/platform/requestid"
)

// Recover turns a panicking handler into a redirect to the server error page.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					logger.Error("handler panic",
						"panic", v,
						"path", r.URL.Path,
						"request_id", requestid.FromContext(r.Context()),
					)
					http.Redirect(w, r, errs.RouteServerError, http.StatusSeeOther)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies middleware so that the first one listed is the outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
