package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Bahjat/project-tasks-web/internal/platform/requestid"
)

// RequestID assigns a request ID to each request and echoes it back in the
// response. An incoming X-Request-ID header is reused; otherwise a new UUID
// v4 is generated. The ID travels on to the remote API with every call made
// while serving the request.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestid.Header)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestid.Header, id)
		ctx := requestid.NewContext(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
