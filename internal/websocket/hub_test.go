// internal/websocket/hub_test.go
package websocket

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"khidma-service/internal/pkg/jwt"
	"khidma-service/internal/pkg/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestHub(t *testing.T) (*Hub, *jwt.Generator, *session.Manager) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	gen := jwt.NewGenerator(priv, "khidma-marketplace", "khidma-users", "", time.Hour)
	ver := jwt.NewVerifier(&priv.PublicKey, "khidma-marketplace", "khidma-users")

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	manager := session.NewManager(client)

	return NewHub(ver, manager, zap.NewNop()), gen, manager
}

func seedSession(t *testing.T, manager *session.Manager, jti string, roles []string) {
	t.Helper()
	err := manager.CreateSession(context.Background(), &session.SessionData{
		JTI:        jti,
		IdentityID: 1,
		Roles:      roles,
		LoginAt:    time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
}

func TestAuthenticateAdminToken(t *testing.T) {
	hub, gen, manager := newTestHub(t)

	token, jti, err := gen.GenerateAccessToken(1, []string{"admin"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	seedSession(t, manager, jti, []string{"admin"})

	claims, err := hub.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if claims.ID != jti {
		t.Fatalf("claims JTI = %q, want %q", claims.ID, jti)
	}
}

func TestAuthenticateRejectsNonAdmin(t *testing.T) {
	hub, gen, manager := newTestHub(t)

	token, jti, err := gen.GenerateAccessToken(2, []string{"consultant"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	seedSession(t, manager, jti, []string{"consultant"})

	if _, err := hub.Authenticate(context.Background(), token); err == nil {
		t.Fatal("consultant token must not reach the admin feed")
	}
}

func TestAuthenticateRejectsDeadSession(t *testing.T) {
	hub, gen, manager := newTestHub(t)

	token, jti, err := gen.GenerateAccessToken(1, []string{"admin"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	seedSession(t, manager, jti, []string{"admin"})

	if err := manager.DestroySession(context.Background(), jti); err != nil {
		t.Fatalf("DestroySession: %v", err)
	}

	if _, err := hub.Authenticate(context.Background(), token); err == nil {
		t.Fatal("a destroyed session must not attach to the feed")
	}
}

// dialTestConn gives the client side of a real websocket pair so Client
// lifecycle paths that touch the connection can run.
func dialTestConn(t *testing.T) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := upgrader.Upgrade(w, r, nil); err != nil {
			t.Errorf("upgrade failed: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestDeregisterAfterShutdown(t *testing.T) {
	hub, _, _ := newTestHub(t)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()
	<-hub.done

	c := NewClient(hub, dialTestConn(t), 1, "sess-1")

	finished := make(chan struct{})
	go func() {
		c.deregister()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("deregister blocked after hub shutdown")
	}
}

func TestStartAfterShutdownDoesNotBlock(t *testing.T) {
	hub, _, _ := newTestHub(t)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()
	<-hub.done

	c := NewClient(hub, dialTestConn(t), 1, "sess-2")

	finished := make(chan struct{})
	go func() {
		c.Start()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Start blocked after hub shutdown")
	}
}
