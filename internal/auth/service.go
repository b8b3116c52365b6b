package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Bahjat/project-tasks-web/internal/apiclient"
	"github.com/Bahjat/project-tasks-web/internal/model"
	"github.com/Bahjat/project-tasks-web/internal/platform/errs"
	"github.com/Bahjat/project-tasks-web/internal/platform/metrics"
	"github.com/Bahjat/project-tasks-web/internal/platform/requestid"
	"github.com/Bahjat/project-tasks-web/internal/platform/validate"
	"github.com/Bahjat/project-tasks-web/internal/session"
)

var errEmptyToken = errors.New("the server returned no access token")

// Service signs users in and out. Signing in creates a session holding the
// API token; signing out destroys it.
type Service struct {
	api    apiclient.Doer
	store  session.Store
	logger *slog.Logger
}

// NewService returns a Service that authenticates through api (without
// credentials) and keeps sessions in store.
func NewService(api apiclient.Doer, store session.Store, logger *slog.Logger) *Service {
	return &Service{api: api, store: store, logger: logger}
}

// Login exchanges an email and password for a new session.
func (s *Service) Login(ctx context.Context, in model.LoginInput) (*session.Session, error) {
	if err := validate.Struct(in); err != nil {
		return nil, s.fail(ctx, "login", err)
	}
	return s.authenticate(ctx, "login", apiclient.Request{Method: http.MethodPost, Path: "/auth/login", Body: in})
}

// Register creates an account and signs it in.
func (s *Service) Register(ctx context.Context, in model.RegisterInput) (*session.Session, error) {
	if err := validate.Struct(in); err != nil {
		return nil, s.fail(ctx, "register", err)
	}
	return s.authenticate(ctx, "register", apiclient.Request{Method: http.MethodPost, Path: "/auth/register", Body: in})
}

// Logout destroys the session with the given ID. Logging out of an unknown
// or expired session is not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	err := s.store.Delete(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	metrics.SessionsActive.Dec()
	s.logger.Info("session destroyed", "request_id", requestid.FromContext(ctx))
	return nil
}

func (s *Service) authenticate(ctx context.Context, op string, req apiclient.Request) (*session.Session, error) {
	var resp model.AuthResponse
	if err := s.api.Do(ctx, req, &resp); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if resp.AccessToken == "" {
		return nil, s.fail(ctx, op, errEmptyToken)
	}

	sess := session.New(resp)
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, s.fail(ctx, op, fmt.Errorf("store session: %w", err))
	}
	metrics.SessionsActive.Inc()

	s.logger.Info("session created",
		"user_id", sess.UserID,
		"request_id", requestid.FromContext(ctx),
	)
	return sess, nil
}

func (s *Service) fail(ctx context.Context, op string, err error) error {
	classified := errs.Classify(err)
	s.logger.Log(ctx, errs.LogLevel(classified), op+" failed",
		"error", err,
		"classified", classified,
		"request_id", requestid.FromContext(ctx),
	)
	return fmt.Errorf("%s: %w", op, err)
}
