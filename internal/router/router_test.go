package router

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsdash/calgrid/internal/access"
	"github.com/opsdash/calgrid/internal/api"
	"github.com/opsdash/calgrid/internal/auth"
	"github.com/opsdash/calgrid/internal/config"
	"github.com/opsdash/calgrid/internal/directory"
	"github.com/opsdash/calgrid/internal/layout"
	"github.com/opsdash/calgrid/internal/model"
	"github.com/opsdash/calgrid/internal/storage"
)

type stubDirectory struct {
	users map[string]string // username -> password
}

func (s *stubDirectory) Close() {}

func (s *stubDirectory) BindUser(ctx context.Context, username, password string) (*directory.Employee, error) {
	if pw, ok := s.users[username]; ok && pw == password {
		return &directory.Employee{EmployeeID: username, DisplayName: username, Role: access.RoleManager}, nil
	}
	return nil, errors.New("bind failed")
}

func (s *stubDirectory) LookupUserByAttr(ctx context.Context, attr, value string) (*directory.Employee, error) {
	return nil, errors.New("not found")
}

func (s *stubDirectory) ListEmployees(ctx context.Context) ([]directory.Employee, error) {
	return nil, nil
}

func (s *stubDirectory) IntrospectToken(ctx context.Context, token, url, authHeader string) (bool, string, error) {
	return false, "", nil
}

type stubStore struct {
	mu     sync.Mutex
	events map[string]model.CalendarEvent
}

func (s *stubStore) Close() {}

func (s *stubStore) ListEventsForRange(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.CalendarEvent
	for _, e := range s.events {
		out = append(out, e)
	}
	return out, nil
}

func (s *stubStore) GetEvent(ctx context.Context, id string) (*model.CalendarEvent, error) {
	return nil, storage.ErrNotFound
}

func (s *stubStore) CreateEvent(ctx context.Context, draft model.CalendarEvent) (*model.CalendarEvent, error) {
	return &draft, nil
}

func (s *stubStore) UpdateEvent(ctx context.Context, id string, patch storage.Patch) (*model.CalendarEvent, error) {
	return nil, storage.ErrNotFound
}

func (s *stubStore) DeleteEvent(ctx context.Context, id, requestingEmployeeID string, force bool) error {
	return storage.ErrNotFound
}

func (s *stubStore) PurgeEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Timezone: "UTC",
		HTTP:     config.HTTPConfig{BasePath: "/api", MaxBodyBytes: 1 << 20},
		Auth:     config.AuthConfig{EnableBasic: true},
		Layout:   layout.DefaultMetrics(),
	}
	dir := &stubDirectory{users: map[string]string{"alice": "secret"}}
	store := &stubStore{events: map[string]model.CalendarEvent{}}
	h := api.NewHandlers(cfg, store, dir, zerolog.Nop())
	return New(cfg, h, auth.NewChain(cfg, dir, zerolog.Nop()), zerolog.Nop())
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestHealthzIsPublic(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	r := newTestRouter(t)

	t.Run("no credentials", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/events", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if rec.Header().Get("WWW-Authenticate") == "" {
			t.Error("challenge header missing")
		}
	})

	t.Run("bad password", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/events", nil)
		req.Header.Set("Authorization", basicAuth("alice", "wrong"))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid credentials", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/events?start=2026-03-01&end=2026-03-31", nil)
		req.Header.Set("Authorization", basicAuth("alice", "secret"))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
		}
	})
}

func TestMethodPatterns(t *testing.T) {
	r := newTestRouter(t)

	// a write verb on a read-only pattern must not reach the handler
	req := httptest.NewRequest("PATCH", "/api/events", nil)
	req.Header.Set("Authorization", basicAuth("alice", "secret"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
