package web

import "net/http"

type errorView struct {
	Code    int
	Heading string
	Message string
}

var errorViews = map[int]errorView{
	http.StatusForbidden: {
		Code:    http.StatusForbidden,
		Heading: "Access Forbidden",
		Message: "You don't have permission to access this resource. Please contact your administrator if you believe this is an error.",
	},
	http.StatusNotFound: {
		Code:    http.StatusNotFound,
		Heading: "Page Not Found",
		Message: "The page you are looking for doesn't exist or has been moved.",
	},
	http.StatusInternalServerError: {
		Code:    http.StatusInternalServerError,
		Heading: "Server Error",
		Message: "Something went wrong on our end. Please try again later or contact support if the problem persists.",
	},
}

// errorPage serves the dedicated page for status with that status code.
func (h *Handler) errorPage(status int) http.HandlerFunc {
	ev := errorViews[status]
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, status, pageError, ev.Heading, ev)
	}
}
