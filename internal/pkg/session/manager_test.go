// internal/pkg/session/manager_test.go
package session

import (
	"context"
	"testing"
	"time"

	xerrors "khidma-service/internal/pkg/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewManager(client)
}

func seedSession(t *testing.T, m *Manager, jti string, roles []string) *SessionData {
	t.Helper()
	sess := &SessionData{
		JTI:        jti,
		IdentityID: 42,
		Email:      "admin@khidma.sa",
		Roles:      roles,
		IPAddress:  "10.0.0.1",
		LoginAt:    time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	if err := m.CreateSession(context.Background(), sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return sess
}

func TestCreateAndGetSession(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	seedSession(t, m, "jti-1", []string{"admin"})

	got, err := m.GetSession(ctx, "jti-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.IdentityID != 42 || got.Email != "admin@khidma.sa" {
		t.Fatalf("unexpected session payload: %+v", got)
	}
	if !got.IsAdminSession() {
		t.Fatal("session with admin role should report as admin")
	}
	if got.LastAdminActivity != nil {
		t.Fatal("new session must not carry an activity timestamp")
	}
}

func TestGetSessionMissing(t *testing.T) {
	m := newTestManager(t)

	_, err := m.GetSession(context.Background(), "nope")
	if !xerrors.Is(err, xerrors.ErrSessionExpired) {
		t.Fatalf("missing session should map to ErrSessionExpired, got %v", err)
	}
}

func TestCreateSessionRejectsExpired(t *testing.T) {
	m := newTestManager(t)

	sess := &SessionData{
		JTI:       "jti-old",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := m.CreateSession(context.Background(), sess); err == nil {
		t.Fatal("creating an already-expired session must fail")
	}
}

func TestLastAdminActivityLifecycle(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	seedSession(t, m, "jti-1", []string{"admin"})

	// Unset until first touch
	_, found, err := m.LastAdminActivity(ctx, "jti-1")
	if err != nil {
		t.Fatalf("LastAdminActivity: %v", err)
	}
	if found {
		t.Fatal("activity should be unset before the first touch")
	}

	at := time.Now().Truncate(time.Second)
	if err := m.TouchAdminActivity(ctx, "jti-1", at); err != nil {
		t.Fatalf("TouchAdminActivity: %v", err)
	}

	got, found, err := m.LastAdminActivity(ctx, "jti-1")
	if err != nil {
		t.Fatalf("LastAdminActivity: %v", err)
	}
	if !found {
		t.Fatal("activity should be set after a touch")
	}
	if !got.Equal(at) {
		t.Fatalf("activity = %v, want %v", got, at)
	}
}

func TestLastAdminActivityMissingSession(t *testing.T) {
	m := newTestManager(t)

	// A vanished session is not an error for the tracker, just "not found"
	_, found, err := m.LastAdminActivity(context.Background(), "gone")
	if err != nil {
		t.Fatalf("missing session should not error, got %v", err)
	}
	if found {
		t.Fatal("missing session must report found=false")
	}
}

func TestTouchAdminActivityIsNoopAfterDestroy(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	seedSession(t, m, "jti-1", []string{"admin"})

	if err := m.DestroySession(ctx, "jti-1"); err != nil {
		t.Fatalf("DestroySession: %v", err)
	}

	if err := m.TouchAdminActivity(ctx, "jti-1", time.Now()); err != nil {
		t.Fatalf("touching a destroyed session should be a no-op, got %v", err)
	}

	exists, err := m.SessionExists(ctx, "jti-1")
	if err != nil {
		t.Fatalf("SessionExists: %v", err)
	}
	if exists {
		t.Fatal("touch must not resurrect a destroyed session")
	}
}

func TestDestroyAllForIdentity(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	seedSession(t, m, "jti-1", []string{"admin"})
	seedSession(t, m, "jti-2", []string{"admin"})

	if err := m.DestroyAllForIdentity(ctx, 42); err != nil {
		t.Fatalf("DestroyAllForIdentity: %v", err)
	}

	for _, jti := range []string{"jti-1", "jti-2"} {
		exists, err := m.SessionExists(ctx, jti)
		if err != nil {
			t.Fatalf("SessionExists(%s): %v", jti, err)
		}
		if exists {
			t.Fatalf("session %s should be gone", jti)
		}
	}
}
