package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Bahjat/project-tasks-web/internal/model"
)

// ErrNotFound is returned by stores for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Toast kinds.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast is a one-shot notification shown on the next rendered page.
type Toast struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Session holds the API credentials of one signed-in browser. It is created
// on login, passed explicitly to everything that talks to the API, and
// destroyed on logout.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	Flash     *Toast    `json:"flash,omitempty"`
}

// New returns a session for a successful authentication response.
func New(auth model.AuthResponse) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Token:     auth.AccessToken,
		TokenType: auth.TokenType,
		UserID:    auth.UserID,
		CreatedAt: time.Now().UTC(),
	}
}

// SetFlash queues a toast for the next page.
func (s *Session) SetFlash(kind, message string) {
	s.Flash = &Toast{Kind: kind, Message: message}
}

// PopFlash returns and clears the queued toast.
func (s *Session) PopFlash() *Toast {
	t := s.Flash
	s.Flash = nil
	return t
}

// Store persists sessions by ID. Implementations are safe for concurrent use.
// Get and Delete return ErrNotFound for unknown or expired sessions; Delete
// still removes whatever was stored under the ID.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

type ctxKey struct{}

// NewContext returns a context carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
