// internal/middleware/admin_activity.go
package middleware

import (
	"context"
	"net/http"
	"time"

	"khidma-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionTimeoutCode is the machine-readable code the frontend relies on to
// distinguish an idle logout from any other 401 and redirect to the login
// screen instead of retrying.
const SessionTimeoutCode = "ADMIN_SESSION_TIMEOUT"

// ActivityStore is the slice of the session store the tracker needs. The
// concrete implementation is session.Manager; tests run against miniredis
// or an in-memory fake.
type ActivityStore interface {
	LastAdminActivity(ctx context.Context, sessionID string) (time.Time, bool, error)
	TouchAdminActivity(ctx context.Context, sessionID string, at time.Time) error
	DestroySession(ctx context.Context, sessionID string) error
}

// AdminActivity enforces a sliding idle window on authenticated admin
// sessions. Every in-window request renews the window; the first request
// after the window elapses destroys the session and gets a 401 with
// SessionTimeoutCode.
type AdminActivity struct {
	store       ActivityStore
	idleTimeout time.Duration
	logger      *zap.Logger

	// now is swapped out in tests
	now func() time.Time
}

func NewAdminActivity(store ActivityStore, idleTimeout time.Duration, logger *zap.Logger) *AdminActivity {
	return &AdminActivity{
		store:       store,
		idleTimeout: idleTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Track returns the tracker middleware. MUST be mounted after Auth() on
// admin route groups: it keys off the session ID Auth() put in the context
// and passes through untouched when there is none.
func (m *AdminActivity) Track() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := GetSessionID(c)
		if !ok || sessionID == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		now := m.now()

		last, found, err := m.store.LastAdminActivity(ctx, sessionID)
		if err != nil {
			// The tracker only rejects on idle-timeout. A store read
			// failure is logged and the request proceeds unjudged.
			m.logger.Error("failed to read admin session activity",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
			c.Next()
			return
		}

		// First authenticated touch of this session: start the window.
		if !found {
			if err := m.store.TouchAdminActivity(ctx, sessionID, now); err != nil {
				m.logger.Error("failed to initialize admin session activity",
					zap.String("session_id", sessionID),
					zap.Error(err),
				)
			}
			c.Next()
			return
		}

		if now.Sub(last) > m.idleTimeout {
			// Best-effort cleanup: the 401 is sent regardless of whether
			// the destroy succeeds.
			if err := m.store.DestroySession(ctx, sessionID); err != nil {
				m.logger.Error("failed to destroy idle admin session",
					zap.String("session_id", sessionID),
					zap.Error(err),
				)
			}
			response.ErrorWithCode(c, http.StatusUnauthorized,
				SessionTimeoutCode, "Session expired due to inactivity", nil)
			return
		}

		// In-window, including negative elapsed from clock skew: renew.
		if err := m.store.TouchAdminActivity(ctx, sessionID, now); err != nil {
			m.logger.Error("failed to renew admin session activity",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}

		c.Next()
	}
}
