// internal/domain/invoice/entity_test.go
package invoice

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    InvoiceStatus
		to      InvoiceStatus
		allowed bool
	}{
		{StatusDraft, StatusIssued, true},
		{StatusDraft, StatusPaid, false},
		{StatusIssued, StatusPaid, true},
		{StatusIssued, StatusOverdue, true},
		{StatusIssued, StatusVoid, true},
		{StatusOverdue, StatusPaid, true},
		{StatusPaid, StatusVoid, false},
		{StatusPaid, StatusIssued, false},
		{StatusVoid, StatusPaid, false},
	}

	for _, tc := range cases {
		inv := &Invoice{Status: tc.from}
		if got := inv.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}
