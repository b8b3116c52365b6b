package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Bahjat/project-tasks-web/internal/model"
	"github.com/Bahjat/project-tasks-web/internal/platform/errs"
	"github.com/Bahjat/project-tasks-web/internal/platform/metrics"
	"github.com/Bahjat/project-tasks-web/internal/session"
)

type projectForm struct {
	Title       string
	Description string
}

func (f projectForm) input() model.ProjectInput {
	return model.ProjectInput{Title: f.Title, Description: f.Description}
}

func readProjectForm(r *http.Request) projectForm {
	return projectForm{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}
}

// projectsPage is the project list. Form is the create form; Edit and EditErr
// belong to the project whose ID is EditID.
type projectsPage struct {
	Projects *model.Page[model.Project]
	LoadErr  *errs.Classified

	Form    projectForm
	FormErr *errs.Classified

	EditID  int64
	Edit    projectForm
	EditErr *errs.Classified

	PrevURL string
	NextURL string
}

func (h *Handler) handleProjects(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	h.renderProjects(w, r, sess, pageParam(r.URL.Query().Get("page")), projectsPage{}, http.StatusOK)
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	form := readProjectForm(r)

	if _, err := h.projectService(sess).Create(r.Context(), form.input()); err != nil {
		c, done := h.redirectOnFailure(w, r, sess, err)
		if done {
			return
		}
		metrics.ObserveClassified(c, "inline")
		h.renderProjects(w, r, sess, 0, projectsPage{Form: form, FormErr: c}, inlineStatus(c))
		return
	}

	h.flash(r, sess, session.ToastSuccess, "Project created successfully!")
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

func (h *Handler) handleUpdateProject(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	form := readProjectForm(r)
	page := pageParam(r.PostFormValue("page"))

	if _, err := h.projectService(sess).Update(r.Context(), id, form.input()); err != nil {
		c, done := h.redirectOnFailure(w, r, sess, err)
		if done {
			return
		}
		metrics.ObserveClassified(c, "inline")
		h.renderProjects(w, r, sess, page, projectsPage{EditID: id, Edit: form, EditErr: c}, inlineStatus(c))
		return
	}

	h.flash(r, sess, session.ToastSuccess, "Project updated successfully!")
	http.Redirect(w, r, projectsURL(page), http.StatusSeeOther)
}

func (h *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.projectService(sess).Delete(r.Context(), id); err != nil {
		h.toastFailure(w, r, sess, err, projectsURL(pageParam(r.PostFormValue("page"))))
		return
	}

	h.flash(r, sess, session.ToastSuccess, "Project deleted successfully!")
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

// renderProjects loads one page of projects and renders the list around pv.
// A load failure that maps to an error page redirects; any other is shown
// as a banner above the list.
func (h *Handler) renderProjects(w http.ResponseWriter, r *http.Request, sess *session.Session, page int, pv projectsPage, status int) {
	list, err := h.projectService(sess).List(r.Context(), page, h.opts.ProjectsPageSize)
	if err != nil {
		c, done := h.redirectOnFailure(w, r, sess, err)
		if done {
			return
		}
		metrics.ObserveClassified(c, "inline")
		pv.LoadErr = c
		if status == http.StatusOK {
			status = inlineStatus(c)
		}
	}

	if list != nil {
		pv.Projects = list
		if list.HasPrevious() {
			pv.PrevURL = projectsURL(list.Page - 1)
		}
		if list.HasNext() {
			pv.NextURL = projectsURL(list.Page + 1)
		}
	}
	h.render(w, r, status, pageProjects, "Projects", pv)
}

func projectsURL(page int) string {
	if page <= 0 {
		return "/projects"
	}
	return "/projects?" + url.Values{"page": {strconv.Itoa(page)}}.Encode()
}

// pageParam parses a 0-based page number. Anything unparsable or negative
// is page 0.
func pageParam(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// pathID reads the numeric {id} path segment. A malformed ID names no
// resource and redirects to the not found page.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Redirect(w, r, errs.RouteNotFound, http.StatusSeeOther)
		return 0, false
	}
	return id, true
}
