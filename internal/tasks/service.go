package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Bahjat/project-tasks-web/internal/apiclient"
	"github.com/Bahjat/project-tasks-web/internal/model"
	"github.com/Bahjat/project-tasks-web/internal/platform/errs"
	"github.com/Bahjat/project-tasks-web/internal/platform/requestid"
	"github.com/Bahjat/project-tasks-web/internal/platform/validate"
)

// Service wraps the task endpoints of the remote API.
type Service struct {
	api    apiclient.Doer
	logger *slog.Logger
}

// NewService returns a Service that calls the API through api, which should
// already carry the caller's credentials.
func NewService(api apiclient.Doer, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// List returns one page of a project's tasks matching f. The filter is
// checked locally first; an invalid filter never reaches the API.
func (s *Service) List(ctx context.Context, projectID int64, f model.TaskFilter) (*model.Page[model.Task], error) {
	if err := validate.Struct(f); err != nil {
		return nil, s.fail(ctx, "list tasks", err, "project_id", projectID)
	}

	var out model.Page[model.Task]
	req := apiclient.Request{
		Method: http.MethodGet,
		Path:   "/projects/" + strconv.FormatInt(projectID, 10) + "/tasks",
		Query:  filterQuery(f),
	}
	if err := s.api.Do(ctx, req, &out); err != nil {
		return nil, s.fail(ctx, "list tasks", err, "project_id", projectID, "page", f.Page)
	}
	return &out, nil
}

// Create adds a task to a project.
func (s *Service) Create(ctx context.Context, projectID int64, in model.TaskInput) (*model.Task, error) {
	var out model.Task
	req := apiclient.Request{
		Method: http.MethodPost,
		Path:   "/projects/" + strconv.FormatInt(projectID, 10) + "/tasks",
		Body:   in,
	}
	if err := s.api.Do(ctx, req, &out); err != nil {
		return nil, s.fail(ctx, "create task", err, "project_id", projectID)
	}
	return &out, nil
}

// Update replaces a task's fields, completion state included.
func (s *Service) Update(ctx context.Context, taskID int64, in model.TaskUpdate) (*model.Task, error) {
	var out model.Task
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodPut, Path: path(taskID), Body: in}, &out); err != nil {
		return nil, s.fail(ctx, "update task", err, "task_id", taskID)
	}
	return &out, nil
}

// ToggleComplete flips a task's completion state.
func (s *Service) ToggleComplete(ctx context.Context, taskID int64) (*model.Task, error) {
	var out model.Task
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodPatch, Path: path(taskID) + "/complete"}, &out); err != nil {
		return nil, s.fail(ctx, "toggle task", err, "task_id", taskID)
	}
	return &out, nil
}

// Delete deletes a task.
func (s *Service) Delete(ctx context.Context, taskID int64) error {
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: path(taskID)}, nil); err != nil {
		return s.fail(ctx, "delete task", err, "task_id", taskID)
	}
	return nil
}

// filterQuery encodes f the way the API expects: unset text filters are
// sent empty, an unset completion filter is left out.
func filterQuery(f model.TaskFilter) url.Values {
	q := url.Values{
		"page":        {strconv.Itoa(f.Page)},
		"size":        {strconv.Itoa(f.Size)},
		"query":       {f.Query},
		"dueDateFrom": {f.DueDateFrom},
		"dueDateTo":   {f.DueDateTo},
	}
	if f.Completed != nil {
		q.Set("completed", strconv.FormatBool(*f.Completed))
	}
	return q
}

func (s *Service) fail(ctx context.Context, op string, err error, attrs ...any) error {
	classified := errs.Classify(err)
	attrs = append(attrs,
		"error", err,
		"classified", classified,
		"request_id", requestid.FromContext(ctx),
	)
	s.logger.Log(ctx, errs.LogLevel(classified), op+" failed", attrs...)
	return fmt.Errorf("%s: %w", op, err)
}

func path(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}
