// internal/domain/plan/entity_test.go
package plan

import (
	"database/sql"
	"testing"
	"time"
)

func TestSubscriptionIsExpired(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		expiresAt sql.NullTime
		expired   bool
	}{
		{"no expiry", sql.NullTime{}, false},
		{"future expiry", sql.NullTime{Time: now.Add(time.Hour), Valid: true}, false},
		{"past expiry", sql.NullTime{Time: now.Add(-time.Hour), Valid: true}, true},
		{"expires exactly now", sql.NullTime{Time: now, Valid: true}, true},
	}

	for _, tc := range cases {
		s := &Subscription{ExpiresAt: tc.expiresAt}
		if got := s.IsExpired(now); got != tc.expired {
			t.Errorf("%s: IsExpired = %v, want %v", tc.name, got, tc.expired)
		}
	}
}
