// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	xerrors "khidma-service/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
)

const (
	sessionPrefix      = "session:"
	identitySessPrefix = "identity_sessions:"
)

// Manager stores sessions as JSON blobs in Redis, keyed by JTI. Redis is the
// source of truth for session liveness; the sessions table in Postgres is an
// audit mirror maintained by the auth service.
type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

func (m *Manager) sessionKey(jti string) string {
	return sessionPrefix + jti
}

func (m *Manager) identityKey(identityID int64) string {
	return fmt.Sprintf("%s%d", identitySessPrefix, identityID)
}

// CreateSession stores a new session in Redis with a TTL bounded by the
// token expiry, and indexes it under the owning identity.
func (m *Manager) CreateSession(ctx context.Context, sess *SessionData) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	key := m.sessionKey(sess.JTI)
	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}

	idxKey := m.identityKey(sess.IdentityID)
	if err := m.client.SAdd(ctx, idxKey, sess.JTI).Err(); err != nil {
		return fmt.Errorf("failed to index session: %w", err)
	}
	m.client.Expire(ctx, idxKey, ttl)

	return nil
}

// GetSession retrieves a session from Redis. A missing key means the session
// was destroyed or aged out.
func (m *Manager) GetSession(ctx context.Context, jti string) (*SessionData, error) {
	data, err := m.client.Get(ctx, m.sessionKey(jti)).Bytes()
	if err == redis.Nil {
		return nil, xerrors.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess SessionData
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, nil
}

// SessionExists reports whether the session key is still live in Redis.
func (m *Manager) SessionExists(ctx context.Context, jti string) (bool, error) {
	n, err := m.client.Exists(ctx, m.sessionKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}

// LastAdminActivity returns the session's last admin activity timestamp.
// The second return is false when the session is gone or the timestamp has
// never been set (first authenticated touch).
func (m *Manager) LastAdminActivity(ctx context.Context, jti string) (time.Time, bool, error) {
	sess, err := m.GetSession(ctx, jti)
	if err == xerrors.ErrSessionExpired {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	if sess.LastAdminActivity == nil {
		return time.Time{}, false, nil
	}
	return *sess.LastAdminActivity, true, nil
}

// TouchAdminActivity sets the session's last admin activity timestamp,
// preserving the session's absolute TTL. Touching a destroyed session is a
// no-op: expiry is terminal, a new login must create a fresh session.
func (m *Manager) TouchAdminActivity(ctx context.Context, jti string, at time.Time) error {
	sess, err := m.GetSession(ctx, jti)
	if err == xerrors.ErrSessionExpired {
		return nil
	}
	if err != nil {
		return err
	}

	sess.LastAdminActivity = &at

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	return m.client.Set(ctx, m.sessionKey(jti), data, ttl).Err()
}

// DestroySession removes a session from Redis and its identity index.
func (m *Manager) DestroySession(ctx context.Context, jti string) error {
	sess, err := m.GetSession(ctx, jti)
	if err == nil {
		m.client.SRem(ctx, m.identityKey(sess.IdentityID), jti)
	}

	if err := m.client.Del(ctx, m.sessionKey(jti)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DestroyAllForIdentity removes every live session belonging to an identity.
func (m *Manager) DestroyAllForIdentity(ctx context.Context, identityID int64) error {
	idxKey := m.identityKey(identityID)

	jtis, err := m.client.SMembers(ctx, idxKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list identity sessions: %w", err)
	}

	for _, jti := range jtis {
		if err := m.client.Del(ctx, m.sessionKey(jti)).Err(); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", jti, err)
		}
	}

	return m.client.Del(ctx, idxKey).Err()
}
