package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Bahjat/project-tasks-web/internal/model"
)

func TestNew(t *testing.T) {
	s := New(model.AuthResponse{AccessToken: "tok", TokenType: "Bearer", UserID: 42})

	if s.ID == "" {
		t.Error("ID is empty")
	}
	if s.Token != "tok" || s.TokenType != "Bearer" || s.UserID != 42 {
		t.Errorf("got %+v", s)
	}
	if other := New(model.AuthResponse{AccessToken: "tok"}); other.ID == s.ID {
		t.Error("session IDs repeat")
	}
}

func TestFlash(t *testing.T) {
	s := &Session{}
	if s.PopFlash() != nil {
		t.Fatal("new session has a flash")
	}

	s.SetFlash(ToastSuccess, "Project created successfully!")
	got := s.PopFlash()
	if got == nil || got.Kind != ToastSuccess || got.Message != "Project created successfully!" {
		t.Errorf("PopFlash() = %+v", got)
	}
	if s.PopFlash() != nil {
		t.Error("flash survived a pop")
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Error("empty context yields a session")
	}

	s := &Session{ID: "abc"}
	if got := FromContext(NewContext(context.Background(), s)); got != s {
		t.Errorf("FromContext() = %v, want %v", got, s)
	}
}

// storeContract exercises behavior every Store must share.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	s := New(model.AuthResponse{AccessToken: "tok", TokenType: "Bearer", UserID: 7})
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Token != "tok" || got.UserID != 7 {
		t.Errorf("Get() = %+v", got)
	}

	got.SetFlash(ToastError, "Task could not be deleted")
	if err := store.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get after Save: %v", err)
	}
	if again.Flash == nil || again.Flash.Message != "Task could not be deleted" {
		t.Errorf("flash not persisted: %+v", again.Flash)
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete err = %v, want ErrNotFound", err)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_Contract(t *testing.T) {
	storeContract(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s := &Session{ID: "abc", Token: "tok"}
	if err := store.Create(context.Background(), s); err != nil {
		t.Fatal(err)
	}

	now = now.Add(59 * time.Second)
	if _, err := store.Get(context.Background(), "abc"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	now = now.Add(time.Second)
	if _, err := store.Get(context.Background(), "abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get at expiry err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_CreateSweepsExpired(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for _, id := range []string{"old-1", "old-2"} {
		if err := store.Create(ctx, &Session{ID: id}); err != nil {
			t.Fatal(err)
		}
	}

	now = now.Add(30 * time.Second)
	if err := store.Create(ctx, &Session{ID: "mid"}); err != nil {
		t.Fatal(err)
	}

	now = now.Add(45 * time.Second)
	if err := store.Create(ctx, &Session{ID: "new"}); err != nil {
		t.Fatal(err)
	}

	store.mu.Lock()
	_, oldLeft := store.entries["old-1"]
	_, midLeft := store.entries["mid"]
	n := len(store.entries)
	store.mu.Unlock()

	if oldLeft || n != 2 || !midLeft {
		t.Errorf("entries after sweep = %d (old kept %v, mid kept %v), want mid and new", n, oldLeft, midLeft)
	}
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if err := store.Create(context.Background(), &Session{ID: "abc"}); err != nil {
		t.Fatal(err)
	}
	now = now.Add(time.Minute)

	if err := store.Delete(context.Background(), "abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(expired) err = %v, want ErrNotFound", err)
	}
	if len(store.entries) != 0 {
		t.Error("expired entry not removed by Delete")
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	s := &Session{ID: "abc", Token: "tok"}
	_ = store.Create(context.Background(), s)

	s.Token = "changed"
	got, _ := store.Get(context.Background(), "abc")
	if got.Token != "tok" {
		t.Errorf("stored session aliased caller value: %q", got.Token)
	}

	got.SetFlash(ToastInfo, "unsaved")
	again, _ := store.Get(context.Background(), "abc")
	if again.Flash != nil {
		t.Error("unsaved flash leaked into the store")
	}
}
