// internal/handlers/bid/bid_handler_test.go
package bid

import (
	"net/http/httptest"
	"testing"

	domain "khidma-service/internal/domain/bid"

	"github.com/gin-gonic/gin"
)

func newRoleContext(t *testing.T, identityID int64, roles []string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("identity_id", identityID)
	c.Set("roles", roles)
	return c
}

func TestScopeFiltersClientSeesOwnJobsBids(t *testing.T) {
	c := newRoleContext(t, 7, []string{"client"})

	// A nosy query string must not widen the scope
	filters := domain.ListFilters{ConsultantID: 99, ClientID: 99}
	scopeFilters(c, &filters)

	if filters.ClientID != 7 {
		t.Fatalf("ClientID = %d, want caller 7", filters.ClientID)
	}
	if filters.ConsultantID != 0 {
		t.Fatalf("ConsultantID = %d, want cleared", filters.ConsultantID)
	}
}

func TestScopeFiltersConsultantSeesOwnBids(t *testing.T) {
	c := newRoleContext(t, 9, []string{"consultant"})

	filters := domain.ListFilters{ClientID: 99}
	scopeFilters(c, &filters)

	if filters.ConsultantID != 9 {
		t.Fatalf("ConsultantID = %d, want caller 9", filters.ConsultantID)
	}
	if filters.ClientID != 0 {
		t.Fatalf("ClientID = %d, want cleared", filters.ClientID)
	}
}

func TestScopeFiltersAdminIsUnrestricted(t *testing.T) {
	c := newRoleContext(t, 1, []string{"admin"})

	filters := domain.ListFilters{ClientID: 7, ConsultantID: 9}
	scopeFilters(c, &filters)

	if filters.ClientID != 7 || filters.ConsultantID != 9 {
		t.Fatalf("admin filters were rewritten: %+v", filters)
	}
}
