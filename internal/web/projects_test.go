package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"golang.org/x/net/html"

	"github.com/Bahjat/project-tasks-web/internal/model"
	"github.com/Bahjat/project-tasks-web/internal/session"
)

const twoProjects = `{"content":[
	{"id":1,"title":"Website","description":"Relaunch","totalTasks":4,"completedTasks":1,"progressPercentage":25},
	{"id":2,"title":"Mobile app","totalTasks":0,"completedTasks":0,"progressPercentage":0}
],"page":1,"size":6,"totalElements":14,"totalPages":3,"last":false}`

func TestProjects_List(t *testing.T) {
	app := newTestApp(t)
	app.api.HandleFunc("GET /api/projects", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Query().Get("page") != "1" || r.URL.Query().Get("size") != "6" {
			t.Errorf("query = %v", r.URL.Query())
		}
		_, _ = io.WriteString(w, twoProjects)
	})
	_, cookie := app.signIn(t)

	rec := app.get("/projects?page=1", cookie)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	doc := parsePage(t, rec)
	cards := findAll(doc, hasClass("project"))
	if len(cards) != 2 {
		t.Fatalf("project cards = %d, want 2", len(cards))
	}
	if !strings.Contains(text(cards[0]), "Website") || !strings.Contains(text(cards[0]), "(25%)") {
		t.Errorf("first card = %q", text(cards[0]))
	}
	if prev := find(doc, func(n *html.Node) bool { return attr(n, "rel") == "prev" }); attr(prev, "href") != "/projects" {
		t.Errorf("prev link = %q", attr(prev, "href"))
	}
	if next := find(doc, func(n *html.Node) bool { return attr(n, "rel") == "next" }); attr(next, "href") != "/projects?page=2" {
		t.Errorf("next link = %q", attr(next, "href"))
	}
}

func TestProjects_LoadFailure(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		redirect string
	}{
		{"server error", http.StatusInternalServerError, `{"status":500,"error":"Internal Server Error","message":"boom"}`, "/500"},
		{"bad gateway without body", http.StatusBadGateway, ``, "/500"},
		{"forbidden", http.StatusForbidden, `{"status":403,"error":"Forbidden","message":"nope"}`, "/403"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.apiJSON("GET /api/projects", tt.status, tt.body)
			_, cookie := app.signIn(t)

			assertRedirect(t, app.get("/projects", cookie), tt.redirect)
		})
	}
}

func TestProjects_LoadFailureInline(t *testing.T) {
	app := newTestApp(t)
	app.apiJSON("GET /api/projects", http.StatusConflict, `{"status":409,"error":"Data Conflict","message":"Try again"}`)
	_, cookie := app.signIn(t)

	rec := app.get("/projects", cookie)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d", rec.Code)
	}
	if got := text(find(parsePage(t, rec), byID("load-error"))); got != "Try again" {
		t.Errorf("banner = %q", got)
	}
}

func TestCreateProject_Success(t *testing.T) {
	app := newTestApp(t)
	app.api.HandleFunc("POST /api/projects", func(w http.ResponseWriter, r *http.Request) {
		var in model.ProjectInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode: %v", err)
		}
		if in.Title != "Launch" || in.Description != "Q3" {
			t.Errorf("body = %+v", in)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":3,"title":"Launch"}`)
	})
	sess, cookie := app.signIn(t)

	rec := app.post("/projects", url.Values{"title": {" Launch "}, "description": {"Q3"}}, cookie)

	assertRedirect(t, rec, "/projects")
	stored, err := app.store.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Flash == nil || stored.Flash.Kind != session.ToastSuccess || stored.Flash.Message != "Project created successfully!" {
		t.Errorf("flash = %+v", stored.Flash)
	}
}

func TestCreateProject_ValidationKeepsForm(t *testing.T) {
	app := newTestApp(t)
	app.apiJSON("POST /api/projects", http.StatusBadRequest, `{"title":"Title is required"}`)
	app.apiJSON("GET /api/projects", http.StatusOK, twoProjects)
	_, cookie := app.signIn(t)

	rec := app.post("/projects", url.Values{"title": {""}, "description": {"draft notes"}}, cookie)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", rec.Code)
	}
	doc := parsePage(t, rec)
	if got := text(find(doc, byID("create-error"))); got != "Title: Title is required" {
		t.Errorf("create error = %q", got)
	}
	form := find(doc, byID("create-project"))
	if got := text(find(form, func(n *html.Node) bool { return n.Data == "textarea" })); got != "draft notes" {
		t.Errorf("description not kept: %q", got)
	}
	if len(findAll(doc, hasClass("project"))) != 2 {
		t.Error("project list not rendered under the form")
	}
}

func TestUpdateProject_ValidationOpensEditForm(t *testing.T) {
	app := newTestApp(t)
	app.apiJSON("PUT /api/projects/2", http.StatusBadRequest, `{"title":"size must be between 1 and 100"}`)
	app.apiJSON("GET /api/projects", http.StatusOK, twoProjects)
	_, cookie := app.signIn(t)

	rec := app.post("/projects/2", url.Values{"title": {""}, "page": {"1"}}, cookie)

	doc := parsePage(t, rec)
	if got := text(find(doc, byID("edit-error"))); got != "Title: size must be between 1 and 100" {
		t.Errorf("edit error = %q", got)
	}
	cards := findAll(doc, hasClass("project"))
	if len(cards) != 2 || !hasAttr(find(cards[1], func(n *html.Node) bool { return n.Data == "details" }), "open") {
		t.Error("edit form of the failed project is not open")
	}
}

func TestUpdateProject_Success(t *testing.T) {
	app := newTestApp(t)
	app.apiJSON("PUT /api/projects/2", http.StatusOK, `{"id":2,"title":"Renamed"}`)
	_, cookie := app.signIn(t)

	assertRedirect(t, app.post("/projects/2", url.Values{"title": {"Renamed"}, "page": {"1"}}, cookie), "/projects?page=1")
}

func TestDeleteProject(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		redirect string
		toast    string
	}{
		{"success", http.StatusNoContent, ``, "/projects", session.ToastSuccess},
		{"missing project", http.StatusNotFound, `{"status":404,"error":"Not Found","message":"Project not found"}`, "/404", ""},
		{"conflict", http.StatusConflict, `{"status":409,"error":"Data Conflict","message":"Project is locked"}`, "/projects?page=2", session.ToastError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			var calls atomic.Int32
			app.api.HandleFunc("DELETE /api/projects/9", func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			sess, cookie := app.signIn(t)

			rec := app.post("/projects/9/delete", url.Values{"page": {"2"}}, cookie)

			assertRedirect(t, rec, tt.redirect)
			if calls.Load() != 1 {
				t.Errorf("API calls = %d, want 1", calls.Load())
			}
			stored, err := app.store.Get(context.Background(), sess.ID)
			if err != nil {
				t.Fatal(err)
			}
			switch {
			case tt.toast == "" && stored.Flash != nil:
				t.Errorf("unexpected flash %+v", stored.Flash)
			case tt.toast != "" && (stored.Flash == nil || stored.Flash.Kind != tt.toast):
				t.Errorf("flash = %+v, want kind %s", stored.Flash, tt.toast)
			}
		})
	}
}

func TestMalformedID_NotFound(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.signIn(t)

	assertRedirect(t, app.get("/projects/abc", cookie), "/404")
	assertRedirect(t, app.post("/tasks/-1/complete", nil, cookie), "/404")
}

func TestPageParam(t *testing.T) {
	tests := map[string]int{"": 0, "3": 3, "-2": 0, "x": 0}
	for in, want := range tests {
		if got := pageParam(in); got != want {
			t.Errorf("pageParam(%q) = %d, want %d", in, got, want)
		}
	}
}
