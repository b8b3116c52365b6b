package projects

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
)

// Service wraps the project endpoints of the remote API.
type Service struct {
	api    apiclient.Doer
	logger *slog.Logger
}

// NewService returns a Service that calls the API through api, which should
// already carry the caller's credentials.
func NewService(api apiclient.Doer, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// List returns one page of the signed-in user's projects, newest first.
func (s *Service) List(ctx context.Context, page, size int) (*model.Page[model.Project], error) {
	query := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}

	var out model.Page[model.Project]
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/projects", Query: query}, &out); err != nil {
		return nil, s.fail(ctx, "list projects", err, "page", page)
	}
	return &out, nil
}

// Get returns a single project.
func (s *Service) Get(ctx context.Context, id int64) (*model.Project, error) {
	var out model.Project
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: path(id)}, &out); err != nil {
		return nil, s.fail(ctx, "get project", err, "project_id", id)
	}
	return &out, nil
}

// Create creates a project.
func (s *Service) Create(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	var out model.Project
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/projects", Body: in}, &out); err != nil {
		return nil, s.fail(ctx, "create project", err)
	}
	return &out, nil
}

// Update replaces a project's title and description.
func (s *Service) Update(ctx context.Context, id int64, in model.ProjectInput) (*model.Project, error) {
	var out model.Project
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodPut, Path: path(id), Body: in}, &out); err != nil {
		return nil, s.fail(ctx, "update project", err, "project_id", id)
	}
	return &out, nil
}

// Delete deletes a project and all of its tasks.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: path(id)}, nil); err != nil {
		return s.fail(ctx, "delete project", err, "project_id", id)
	}
	return nil
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
	return "/projects/" + strconv.FormatInt(id, 10)
}
