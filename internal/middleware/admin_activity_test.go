// internal/middleware/admin_activity_test.go
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"khidma-service/internal/pkg/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const testTimeout = 30 * time.Minute

type fakeStore struct {
	mu        sync.Mutex
	last      map[string]time.Time
	destroyed map[string]bool

	readErr    error
	destroyErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		last:      make(map[string]time.Time),
		destroyed: make(map[string]bool),
	}
}

func (f *fakeStore) LastAdminActivity(_ context.Context, sessionID string) (time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return time.Time{}, false, f.readErr
	}
	if f.destroyed[sessionID] {
		return time.Time{}, false, nil
	}
	t, ok := f.last[sessionID]
	return t, ok, nil
}

func (f *fakeStore) TouchAdminActivity(_ context.Context, sessionID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.destroyed[sessionID] {
		return nil
	}
	f.last[sessionID] = at
	return nil
}

func (f *fakeStore) DestroySession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.destroyErr != nil {
		return f.destroyErr
	}
	f.destroyed[sessionID] = true
	delete(f.last, sessionID)
	return nil
}

func (f *fakeStore) lastFor(sessionID string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.last[sessionID]
	return t, ok
}

// newTrackedRouter builds a router whose only middleware before the tracker
// stamps the given session ID into the context, the way Auth() does.
func newTrackedRouter(tracker *AdminActivity, sessionID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if sessionID != "" {
			c.Set("session_id", sessionID)
		}
		c.Next()
	})
	r.Use(tracker.Track())
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func doRequest(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestTrackPassThroughWithoutSession(t *testing.T) {
	store := newFakeStore()
	tracker := NewAdminActivity(store, testTimeout, zap.NewNop())
	r := newTrackedRouter(tracker, "")

	w := doRequest(r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for unauthenticated request, got %d", w.Code)
	}
	if len(store.last) != 0 {
		t.Fatalf("store should not be touched without a session")
	}
}

func TestTrackInitializesWindowOnFirstRequest(t *testing.T) {
	store := newFakeStore()
	tracker := NewAdminActivity(store, testTimeout, zap.NewNop())

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return base }

	r := newTrackedRouter(tracker, "sess-1")

	w := doRequest(r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on first touch, got %d", w.Code)
	}

	got, ok := store.lastFor("sess-1")
	if !ok {
		t.Fatal("first request should initialize the activity timestamp")
	}
	if !got.Equal(base) {
		t.Fatalf("timestamp = %v, want %v", got, base)
	}
}

func TestTrackRenewsInsideWindow(t *testing.T) {
	store := newFakeStore()
	tracker := NewAdminActivity(store, testTimeout, zap.NewNop())

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	now := base
	tracker.now = func() time.Time { return now }

	r := newTrackedRouter(tracker, "sess-1")

	doRequest(r)

	now = base.Add(29 * time.Minute)
	w := doRequest(r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 inside the window, got %d", w.Code)
	}

	got, _ := store.lastFor("sess-1")
	if !got.Equal(now) {
		t.Fatalf("window should slide to %v, got %v", now, got)
	}
}

func TestTrackExactBoundaryIsActive(t *testing.T) {
	store := newFakeStore()
	tracker := NewAdminActivity(store, testTimeout, zap.NewNop())

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	now := base
	tracker.now = func() time.Time { return now }

	r := newTrackedRouter(tracker, "sess-1")
	doRequest(r)

	// Elapsed == timeout: not yet expired
	now = base.Add(testTimeout)
	w := doRequest(r)
	if w.Code != http.StatusOK {
		t.Fatalf("elapsed equal to the timeout must stay active, got %d", w.Code)
	}
}

func TestTrackExpiresIdleSession(t *testing.T) {
	store := newFakeStore()
	tracker := NewAdminActivity(store, testTimeout, zap.NewNop())

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	now := base
	tracker.now = func() time.Time { return now }

	r := newTrackedRouter(tracker, "sess-1")
	doRequest(r)

	now = base.Add(testTimeout + time.Millisecond)
	w := doRequest(r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after idle timeout, got %d", w.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Success {
		t.Fatal("expired response must not be marked successful")
	}
	if body.Code != SessionTimeoutCode {
		t.Fatalf("code = %q, want %q", body.Code, SessionTimeoutCode)
	}
	if body.Message != "Session expired due to inactivity" {
		t.Fatalf("unexpected message %q", body.Message)
	}

	if !store.destroyed["sess-1"] {
		t.Fatal("expired session must be destroyed")
	}
}

func TestTrackSlidingWindowOutlivesTimeout(t *testing.T) {
	store := newFakeStore()
	tracker := NewAdminActivity(store, testTimeout, zap.NewNop())

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	now := base
	tracker.now = func() time.Time { return now }

	r := newTrackedRouter(tracker, "sess-1")

	// Ten requests 20 minutes apart: 3 hours of wall time, never idle
	for i := 0; i < 10; i++ {
		now = base.Add(time.Duration(i) * 20 * time.Minute)
		w := doRequest(r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestTrackClockSkewRenews(t *testing.T) {
	store := newFakeStore()
	tracker := NewAdminActivity(store, testTimeout, zap.NewNop())

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	now := base
	tracker.now = func() time.Time { return now }

	r := newTrackedRouter(tracker, "sess-1")
	doRequest(r)

	// Clock steps backwards: elapsed is negative, session stays active
	now = base.Add(-5 * time.Minute)
	w := doRequest(r)
	if w.Code != http.StatusOK {
		t.Fatalf("negative elapsed must be treated as active, got %d", w.Code)
	}

	got, _ := store.lastFor("sess-1")
	if !got.Equal(now) {
		t.Fatalf("skewed request should still renew the window, got %v", got)
	}
}

func TestTrackDestroyFailureStillRejects(t *testing.T) {
	store := newFakeStore()
	store.destroyErr = errors.New("redis down")
	tracker := NewAdminActivity(store, testTimeout, zap.NewNop())

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	now := base
	tracker.now = func() time.Time { return now }

	r := newTrackedRouter(tracker, "sess-1")
	doRequest(r)

	now = base.Add(testTimeout + time.Minute)
	w := doRequest(r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("destroy failure must not mask the 401, got %d", w.Code)
	}

	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Code != SessionTimeoutCode {
		t.Fatalf("code = %q, want %q", body.Code, SessionTimeoutCode)
	}
}

func TestTrackStoreReadFailureFailsOpen(t *testing.T) {
	store := newFakeStore()
	store.readErr = errors.New("redis down")
	tracker := NewAdminActivity(store, testTimeout, zap.NewNop())

	r := newTrackedRouter(tracker, "sess-1")

	w := doRequest(r)
	if w.Code != http.StatusOK {
		t.Fatalf("store read failure must not reject the request, got %d", w.Code)
	}
}

// TestTrackExpiryIsTerminal runs the tracker against the real Redis-backed
// session manager: once the session is destroyed by the timeout, later
// requests can never resurrect it.
func TestTrackExpiryIsTerminal(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	manager := session.NewManager(client)

	ctx := context.Background()
	sess := &session.SessionData{
		JTI:        "jti-admin",
		IdentityID: 7,
		Email:      "admin@khidma.sa",
		Roles:      []string{"admin"},
		LoginAt:    time.Now(),
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	}
	if err := manager.CreateSession(ctx, sess); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	tracker := NewAdminActivity(manager, testTimeout, zap.NewNop())

	base := time.Now()
	now := base
	tracker.now = func() time.Time { return now }

	r := newTrackedRouter(tracker, "jti-admin")

	if w := doRequest(r); w.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", w.Code)
	}

	now = base.Add(testTimeout + time.Minute)
	if w := doRequest(r); w.Code != http.StatusUnauthorized {
		t.Fatalf("idle request: expected 401, got %d", w.Code)
	}

	exists, err := manager.SessionExists(ctx, "jti-admin")
	if err != nil {
		t.Fatalf("failed to check session: %v", err)
	}
	if exists {
		t.Fatal("session must be gone after idle expiry")
	}

	// The tracker alone treats the vanished session as a fresh window, but
	// its touch is a no-op on a destroyed session, so nothing comes back.
	now = now.Add(time.Minute)
	doRequest(r)

	exists, _ = manager.SessionExists(ctx, "jti-admin")
	if exists {
		t.Fatal("a destroyed session must never be recreated by the tracker")
	}
}
