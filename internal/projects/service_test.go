package projects

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/Bahjat/project-tasks-web/internal/apiclient"
	"github.com/Bahjat/project-tasks-web/internal/model"
	"github.com/Bahjat/project-tasks-web/internal/platform/errs"
)

// mockAPI implements apiclient.Doer for testing.
type mockAPI struct {
	calls    []apiclient.Request
	response string
	err      error
}

func (m *mockAPI) Do(_ context.Context, req apiclient.Request, out any) error {
	m.calls = append(m.calls, req)
	if m.err != nil {
		return m.err
	}
	if out != nil && m.response != "" {
		return json.Unmarshal([]byte(m.response), out)
	}
	return nil
}

func (m *mockAPI) last(t *testing.T) apiclient.Request {
	t.Helper()
	if len(m.calls) == 0 {
		t.Fatal("no API call made")
	}
	return m.calls[len(m.calls)-1]
}

func newTestService(api *mockAPI) *Service {
	return NewService(api, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestList(t *testing.T) {
	api := &mockAPI{response: `{"content":[{"id":1,"title":"Alpha"},{"id":2,"title":"Beta"}],"page":1,"size":6,"totalElements":8,"totalPages":2,"last":true}`}

	page, err := newTestService(api).List(context.Background(), 1, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := api.last(t)
	if req.Method != http.MethodGet || req.Path != "/projects" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	if req.Query.Get("page") != "1" || req.Query.Get("size") != "6" {
		t.Errorf("query = %v", req.Query)
	}
	if len(page.Content) != 2 || page.TotalPages != 2 || !page.Last {
		t.Errorf("page = %+v", page)
	}
}

func TestGet(t *testing.T) {
	api := &mockAPI{response: `{"id":5,"title":"Docs","totalTasks":2,"completedTasks":1,"progressPercentage":50}`}

	p, err := newTestService(api).Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req := api.last(t); req.Method != http.MethodGet || req.Path != "/projects/5" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	if p.Title != "Docs" || p.ProgressPercentage != 50 {
		t.Errorf("project = %+v", p)
	}
}

func TestCreateAndUpdate(t *testing.T) {
	api := &mockAPI{response: `{"id":9,"title":"Launch"}`}
	svc := newTestService(api)
	in := model.ProjectInput{Title: "Launch", Description: "Q3"}

	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if req := api.last(t); req.Method != http.MethodPost || req.Path != "/projects" || req.Body != in {
		t.Errorf("create request = %+v", req)
	}

	if _, err := svc.Update(context.Background(), 9, in); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if req := api.last(t); req.Method != http.MethodPut || req.Path != "/projects/9" || req.Body != in {
		t.Errorf("update request = %+v", req)
	}
}

func TestDelete(t *testing.T) {
	api := &mockAPI{}

	if err := newTestService(api).Delete(context.Background(), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req := api.last(t); req.Method != http.MethodDelete || req.Path != "/projects/4" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
}

func TestDelete_MissingProjectRoutesToNotFound(t *testing.T) {
	api := &mockAPI{err: &errs.ResponseFailure{
		Method: http.MethodDelete,
		Path:   "/projects/404",
		Status: http.StatusNotFound,
		Body:   []byte(`{"status":404,"error":"Not Found","message":"Project not found"}`),
	}}

	err := newTestService(api).Delete(context.Background(), 404)

	var rf *errs.ResponseFailure
	if !errors.As(err, &rf) {
		t.Fatalf("transport failure lost in wrapping: %v", err)
	}
	classified := errs.Classify(err)
	if !classified.HasStatus(http.StatusNotFound) {
		t.Errorf("classified = %+v", classified)
	}
	if path, ok := errs.ErrorPage(classified); !ok || path != errs.RouteNotFound {
		t.Errorf("ErrorPage() = (%q, %v)", path, ok)
	}
}

func TestGet_PropagatesNetworkFailure(t *testing.T) {
	api := &mockAPI{err: &errs.NetworkFailure{Method: http.MethodGet, Path: "/projects/1"}}

	_, err := newTestService(api).Get(context.Background(), 1)

	var nf *errs.NetworkFailure
	if !errors.As(err, &nf) {
		t.Fatalf("expected *errs.NetworkFailure, got %v", err)
	}
}
