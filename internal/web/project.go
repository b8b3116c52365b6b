package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Bahjat/project-tasks-web/internal/model"
	"github.com/Bahjat/project-tasks-web/internal/platform/errs"
	"github.com/Bahjat/project-tasks-web/internal/platform/metrics"
	"github.com/Bahjat/project-tasks-web/internal/session"
)

// Task status filter values.
const (
	statusAll       = "all"
	statusCompleted = "completed"
	statusPending   = "pending"
)

type taskForm struct {
	Title       string
	Description string
	DueDate     string
	Completed   bool
}

func readTaskForm(r *http.Request) taskForm {
	completed, _ := strconv.ParseBool(r.PostFormValue("completed"))
	return taskForm{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		DueDate:     r.PostFormValue("dueDate"),
		Completed:   completed || r.PostFormValue("completed") == "on",
	}
}

// projectPage is a project with one filtered page of its tasks. Form is the
// new task form; Edit and EditErr belong to the task whose ID is EditID.
type projectPage struct {
	Project *model.Project
	LoadErr *errs.Classified

	Tasks    *model.Page[model.Task]
	TasksErr *errs.Classified
	Filter   model.TaskFilter
	Status   string

	Form    taskForm
	FormErr *errs.Classified

	EditID  int64
	Edit    taskForm
	EditErr *errs.Classified

	// Self is the URL of this view; task actions return to it.
	Self    string
	PrevURL string
	NextURL string
}

func (h *Handler) handleProject(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.renderProject(w, r, sess, id, r.URL.Query(), projectPage{}, http.StatusOK)
}

// renderProject loads a project and one page of its tasks concurrently and
// renders them around pv. The project result decides routing; a task load
// failure is shown in place of the task list.
func (h *Handler) renderProject(w http.ResponseWriter, r *http.Request, sess *session.Session, id int64, q url.Values, pv projectPage, status int) {
	filter, state := filterFromQuery(q, h.opts.TasksPageSize)
	ctx := r.Context()

	var (
		project    *model.Project
		projectErr error
		list       *model.Page[model.Task]
		tasksErr   error
	)

	// Both calls always run to completion; each result is handled on its own.
	var g errgroup.Group
	g.Go(func() error {
		project, projectErr = h.projectService(sess).Get(ctx, id)
		return nil
	})
	g.Go(func() error {
		list, tasksErr = h.taskService(sess).List(ctx, id, filter)
		return nil
	})
	_ = g.Wait()

	if projectErr != nil {
		c, done := h.redirectOnFailure(w, r, sess, projectErr)
		if done {
			return
		}
		metrics.ObserveClassified(c, "inline")
		pv.LoadErr = c
		if status == http.StatusOK {
			status = inlineStatus(c)
		}
	}
	if tasksErr != nil {
		c := errs.Classify(tasksErr)
		metrics.ObserveClassified(c, "inline")
		pv.TasksErr = c
	}

	pv.Project = project
	pv.Filter = filter
	pv.Status = state
	pv.Self = taskListURL(id, filter, filter.Page)
	if list != nil {
		pv.Tasks = list
		if list.HasPrevious() {
			pv.PrevURL = taskListURL(id, filter, list.Page-1)
		}
		if list.HasNext() {
			pv.NextURL = taskListURL(id, filter, list.Page+1)
		}
	}

	title := "Project"
	if project != nil {
		title = project.Title
	}
	h.render(w, r, status, pageProject, title, pv)
}

// filterFromQuery reads the task filter of a detail page URL. It returns the
// filter and the status selector value it was built from.
func filterFromQuery(q url.Values, size int) (model.TaskFilter, string) {
	f := model.TaskFilter{
		Page:        pageParam(q.Get("page")),
		Size:        size,
		Query:       strings.TrimSpace(q.Get("query")),
		DueDateFrom: q.Get("dueDateFrom"),
		DueDateTo:   q.Get("dueDateTo"),
	}

	state := q.Get("status")
	switch state {
	case statusCompleted:
		done := true
		f.Completed = &done
	case statusPending:
		done := false
		f.Completed = &done
	default:
		state = statusAll
	}
	return f, state
}

// taskListURL is the detail page URL for f at the given page. Unset filters
// are left out.
func taskListURL(projectID int64, f model.TaskFilter, page int) string {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if f.Query != "" {
		q.Set("query", f.Query)
	}
	if f.Completed != nil {
		if *f.Completed {
			q.Set("status", statusCompleted)
		} else {
			q.Set("status", statusPending)
		}
	}
	if f.DueDateFrom != "" {
		q.Set("dueDateFrom", f.DueDateFrom)
	}
	if f.DueDateTo != "" {
		q.Set("dueDateTo", f.DueDateTo)
	}

	u := projectURL(projectID)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func projectURL(id int64) string {
	return "/projects/" + strconv.FormatInt(id, 10)
}
