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

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	projectID, ok := pathID(w, r)
	if !ok {
		return
	}
	form := readTaskForm(r)
	in := model.TaskInput{Title: form.Title, Description: form.Description, DueDate: form.DueDate}

	if _, err := h.taskService(sess).Create(r.Context(), projectID, in); err != nil {
		c, done := h.redirectOnFailure(w, r, sess, err)
		if done {
			return
		}
		metrics.ObserveClassified(c, "inline")
		q := backQuery(r, projectID)
		q.Del("page")
		h.renderProject(w, r, sess, projectID, q, projectPage{Form: form, FormErr: c}, inlineStatus(c))
		return
	}

	h.flash(r, sess, session.ToastSuccess, "Task created successfully!")
	http.Redirect(w, r, projectURL(projectID), http.StatusSeeOther)
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	taskID, ok := pathID(w, r)
	if !ok {
		return
	}
	projectID := formProjectID(r)
	form := readTaskForm(r)
	in := model.TaskUpdate{
		Title:       form.Title,
		Description: form.Description,
		DueDate:     form.DueDate,
		Completed:   form.Completed,
	}

	if _, err := h.taskService(sess).Update(r.Context(), taskID, in); err != nil {
		c, done := h.redirectOnFailure(w, r, sess, err)
		if done {
			return
		}
		if projectID == 0 {
			metrics.ObserveClassified(c, "toast")
			h.flash(r, sess, session.ToastError, errs.Format(c))
			http.Redirect(w, r, "/projects", http.StatusSeeOther)
			return
		}
		metrics.ObserveClassified(c, "inline")
		h.renderProject(w, r, sess, projectID, backQuery(r, projectID), projectPage{EditID: taskID, Edit: form, EditErr: c}, inlineStatus(c))
		return
	}

	h.flash(r, sess, session.ToastSuccess, "Task updated successfully!")
	http.Redirect(w, r, backURL(r, projectID), http.StatusSeeOther)
}

func (h *Handler) handleToggleTask(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	taskID, ok := pathID(w, r)
	if !ok {
		return
	}
	back := backURL(r, formProjectID(r))

	if _, err := h.taskService(sess).ToggleComplete(r.Context(), taskID); err != nil {
		h.toastFailure(w, r, sess, err, back)
		return
	}

	h.flash(r, sess, session.ToastSuccess, "Task status updated!")
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	taskID, ok := pathID(w, r)
	if !ok {
		return
	}
	back := backURL(r, formProjectID(r))

	if err := h.taskService(sess).Delete(r.Context(), taskID); err != nil {
		h.toastFailure(w, r, sess, err, back)
		return
	}

	h.flash(r, sess, session.ToastSuccess, "Task deleted successfully!")
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func formProjectID(r *http.Request) int64 {
	id, err := strconv.ParseInt(r.PostFormValue("projectId"), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// backURL is where a task action returns to: the detail page view the form
// was posted from, as long as it belongs to projectID. Anything else falls
// back to the project, or to the project list when the project is unknown.
func backURL(r *http.Request, projectID int64) string {
	if projectID == 0 {
		return "/projects"
	}
	base := projectURL(projectID)
	back := r.PostFormValue("back")
	if back == base || strings.HasPrefix(back, base+"?") {
		return back
	}
	return base
}

// backQuery is the query of backURL, used to rebuild the same view.
func backQuery(r *http.Request, projectID int64) url.Values {
	u, err := url.Parse(backURL(r, projectID))
	if err != nil {
		return url.Values{}
	}
	return u.Query()
}
