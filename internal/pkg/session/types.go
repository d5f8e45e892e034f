// internal/pkg/session/types.go
package session

import "time"

type SessionData struct {
	JTI        string   `json:"jti"`
	IdentityID int64    `json:"identity_id"`
	Email      string   `json:"email"`
	Roles      []string `json:"roles"`
	IPAddress  string   `json:"ip_address"`
	UserAgent  string   `json:"user_agent"`

	LoginAt   time.Time `json:"login_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// LastAdminActivity is nil until the activity tracker first touches the
	// session. Only admin sessions ever carry it.
	LastAdminActivity *time.Time `json:"last_admin_activity,omitempty"`
}

// IsAdminSession reports whether the session belongs to a platform admin.
func (s *SessionData) IsAdminSession() bool {
	for _, r := range s.Roles {
		if r == "admin" || r == "super_admin" {
			return true
		}
	}
	return false
}
