package errs

import (
	"net/http"
	"testing"
)

func TestErrorPage(t *testing.T) {
	tests := []struct {
		name     string
		err      *Classified
		wantPath string
		wantOK   bool
	}{
		{"forbidden", NewGeneric(http.StatusForbidden, "x"), RouteForbidden, true},
		{"not found", NewGeneric(http.StatusNotFound, "x"), RouteNotFound, true},
		{"internal", NewGeneric(http.StatusInternalServerError, "x"), RouteServerError, true},
		{"bad gateway", NewGeneric(http.StatusBadGateway, "x"), RouteServerError, true},
		{"unavailable", NewGeneric(http.StatusServiceUnavailable, "x"), RouteServerError, true},
		{"bad request", NewGeneric(http.StatusBadRequest, "x"), "", false},
		{"unauthorized", NewGeneric(http.StatusUnauthorized, "x"), "", false},
		{"conflict", NewGeneric(http.StatusConflict, "x"), "", false},
		{"gateway timeout", NewGeneric(http.StatusGatewayTimeout, "x"), "", false},
		{"absent status", NewGeneric(0, "x"), "", false},
		{"validation", NewValidation(FieldMessage{Field: "title", Message: "required"}), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := ErrorPage(tt.err)
			if ok != tt.wantOK || path != tt.wantPath {
				t.Errorf("ErrorPage() = (%q, %v), want (%q, %v)", path, ok, tt.wantPath, tt.wantOK)
			}
		})
	}
}

func TestErrorPage_DeleteMissingProject(t *testing.T) {
	err := &ResponseFailure{
		Method: http.MethodDelete,
		Path:   "/projects/999",
		Status: http.StatusNotFound,
		Body:   []byte(`{"timestamp":"2024-05-01T12:00:00","status":404,"error":"Not Found","message":"Project not found with id 999"}`),
	}

	path, ok := ErrorPage(Classify(err))

	if !ok || path != RouteNotFound {
		t.Errorf("ErrorPage() = (%q, %v), want (%q, true)", path, ok, RouteNotFound)
	}
}
