package errs

import "net/http"

// Full-page error routes.
const (
	RouteForbidden   = "/403"
	RouteNotFound    = "/404"
	RouteServerError = "/500"
)

// ErrorPage decides whether c should replace the current screen with a
// dedicated error page. It reports false when the error must be shown inline:
// validation errors, statusless errors and every status not listed below.
func ErrorPage(c *Classified) (string, bool) {
	if c == nil || c.Kind != Generic || c.Status == 0 {
		return "", false
	}

	switch c.Status {
	case http.StatusForbidden:
		return RouteForbidden, true
	case http.StatusNotFound:
		return RouteNotFound, true
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return RouteServerError, true
	default:
		return "", false
	}
}
