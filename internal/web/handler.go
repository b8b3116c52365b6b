package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Bahjat/project-tasks-web/internal/apiclient"
	"github.com/Bahjat/project-tasks-web/internal/auth"
	"github.com/Bahjat/project-tasks-web/internal/platform/errs"
	"github.com/Bahjat/project-tasks-web/internal/platform/metrics"
	"github.com/Bahjat/project-tasks-web/internal/platform/requestid"
	"github.com/Bahjat/project-tasks-web/internal/projects"
	"github.com/Bahjat/project-tasks-web/internal/session"
	"github.com/Bahjat/project-tasks-web/internal/tasks"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	cookieName = "ptw_session"

	pageLogin    = "login.html"
	pageProjects = "projects.html"
	pageProject  = "project.html"
	pageError    = "error.html"
)

// Options tunes the web layer.
type Options struct {
	ProjectsPageSize int
	TasksPageSize    int
	SessionTTL       time.Duration
	CookieSecure     bool
	MetricsEnabled   bool
}

// Handler serves the HTML front end. It holds no per-user state: every
// request resolves its own session and builds services bound to that
// session's token.
type Handler struct {
	api    *apiclient.Client
	auth   *auth.Service
	store  session.Store
	opts   Options
	logger *slog.Logger
	pages  map[string]*template.Template
}

// New returns a Handler that talks to the API through api and keeps
// sessions in store.
func New(api *apiclient.Client, store session.Store, opts Options, logger *slog.Logger) (*Handler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Handler{
		api:    api,
		auth:   auth.NewService(api, store, logger),
		store:  store,
		opts:   opts,
		logger: logger,
		pages:  pages,
	}, nil
}

// Routes returns the application's route table wrapped in session loading.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/projects", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /healthz", handleHealth)
	if h.opts.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	mux.HandleFunc("GET /login", h.handleLoginPage)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("POST /register", h.handleRegister)
	mux.HandleFunc("POST /logout", h.handleLogout)

	mux.HandleFunc("GET /projects", h.private(h.handleProjects))
	mux.HandleFunc("POST /projects", h.private(h.handleCreateProject))
	mux.HandleFunc("GET /projects/{id}", h.private(h.handleProject))
	mux.HandleFunc("POST /projects/{id}", h.private(h.handleUpdateProject))
	mux.HandleFunc("POST /projects/{id}/delete", h.private(h.handleDeleteProject))
	mux.HandleFunc("POST /projects/{id}/tasks", h.private(h.handleCreateTask))

	mux.HandleFunc("POST /tasks/{id}", h.private(h.handleUpdateTask))
	mux.HandleFunc("POST /tasks/{id}/complete", h.private(h.handleToggleTask))
	mux.HandleFunc("POST /tasks/{id}/delete", h.private(h.handleDeleteTask))

	mux.HandleFunc("GET "+errs.RouteForbidden, h.errorPage(http.StatusForbidden))
	mux.HandleFunc("GET "+errs.RouteNotFound, h.errorPage(http.StatusNotFound))
	mux.HandleFunc("GET "+errs.RouteServerError, h.errorPage(http.StatusInternalServerError))
	mux.HandleFunc("/", h.errorPage(http.StatusNotFound))

	return h.loadSession(mux)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// loadSession resolves the session cookie, if any, into the request context.
// A cookie naming an unknown or expired session is cleared.
func (h *Handler) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(cookieName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := h.store.Get(r.Context(), c.Value)
		switch {
		case errors.Is(err, session.ErrNotFound):
			h.clearCookie(w)
		case err != nil:
			h.logger.Error("load session failed",
				"error", err,
				"request_id", requestid.FromContext(r.Context()),
			)
		default:
			r = r.WithContext(session.NewContext(r.Context(), sess))
		}
		next.ServeHTTP(w, r)
	})
}

// private guards a handler that needs a signed-in user.
func (h *Handler) private(next func(http.ResponseWriter, *http.Request, *session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if sess == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, sess)
	}
}

func (h *Handler) projectService(sess *session.Session) *projects.Service {
	return projects.NewService(h.api.WithToken(sess.TokenType, sess.Token), h.logger)
}

func (h *Handler) taskService(sess *session.Session) *tasks.Service {
	return tasks.NewService(h.api.WithToken(sess.TokenType, sess.Token), h.logger)
}

// redirectOnFailure applies the full-page treatment to a failed API call. It
// reports true when a response has been written: the session expired (401)
// or the error maps to an error page. Otherwise the caller presents the
// returned error itself, inline or as a toast.
func (h *Handler) redirectOnFailure(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) (*errs.Classified, bool) {
	c := errs.Classify(err)

	if c.HasStatus(http.StatusUnauthorized) && sess != nil {
		h.endSession(w, r, sess)
		metrics.ObserveClassified(c, "login")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return c, true
	}

	if path, ok := errs.ErrorPage(c); ok {
		metrics.ObserveClassified(c, "page")
		http.Redirect(w, r, path, http.StatusSeeOther)
		return c, true
	}

	return c, false
}

// toastFailure queues err as an error toast and redirects to back.
func (h *Handler) toastFailure(w http.ResponseWriter, r *http.Request, sess *session.Session, err error, back string) {
	c, done := h.redirectOnFailure(w, r, sess, err)
	if done {
		return
	}
	metrics.ObserveClassified(c, "toast")
	h.flash(r, sess, session.ToastError, errs.Format(c))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler) flash(r *http.Request, sess *session.Session, kind, message string) {
	sess.SetFlash(kind, message)
	if err := h.store.Save(r.Context(), sess); err != nil {
		h.logger.Error("save session failed",
			"error", err,
			"request_id", requestid.FromContext(r.Context()),
		)
	}
}

func (h *Handler) startSession(w http.ResponseWriter, sess *session.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(h.opts.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) endSession(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := h.auth.Logout(r.Context(), sess.ID); err != nil {
		h.logger.Error("destroy session failed",
			"error", err,
			"request_id", requestid.FromContext(r.Context()),
		)
	}
	h.clearCookie(w)
}

func (h *Handler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// view is the data every page template receives.
type view struct {
	Title    string
	SignedIn bool
	Flash    *session.Toast
	Page     any
}

// render executes a page into a buffer and writes it with the given status.
// A queued toast is popped and shown.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, page any) {
	v := view{Title: title, Page: page}

	if sess := session.FromContext(r.Context()); sess != nil {
		v.SignedIn = true
		if v.Flash = sess.PopFlash(); v.Flash != nil {
			if err := h.store.Save(r.Context(), sess); err != nil {
				h.logger.Error("save session failed",
					"error", err,
					"request_id", requestid.FromContext(r.Context()),
				)
			}
		}
	}

	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", v); err != nil {
		h.logger.Error("failed to render page",
			"page", name,
			"error", err,
			"request_id", requestid.FromContext(r.Context()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// inlineStatus is the response status of a page that shows c in place.
func inlineStatus(c *errs.Classified) int {
	switch {
	case c.IsValidation():
		return http.StatusUnprocessableEntity
	case c.Status >= http.StatusBadRequest && c.Status < http.StatusInternalServerError:
		return c.Status
	default:
		return http.StatusBadGateway
	}
}

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"errorText": func(c *errs.Classified) string {
		if c == nil {
			return ""
		}
		return errs.Format(c)
	},
	"fieldError": func(c *errs.Classified, field string) string {
		return c.FieldMessage(field)
	},
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{pageLogin, pageProjects, pageProject, pageError} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}
