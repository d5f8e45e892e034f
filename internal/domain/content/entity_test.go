// internal/domain/content/entity_test.go
package content

import (
	"database/sql"
	"encoding/json"
	"testing"
)

func TestSettingUpdatedByIsNullable(t *testing.T) {
	// Seeded settings carry no admin attribution
	seeded := Setting{Key: "platform_fee_percent", Value: "5"}
	if seeded.UpdatedBy.Valid {
		t.Fatal("zero-value setting must have a null updated_by")
	}

	edited := Setting{
		Key:       "platform_fee_percent",
		Value:     "7.5",
		UpdatedBy: sql.NullInt64{Int64: 42, Valid: true},
	}
	if !edited.UpdatedBy.Valid || edited.UpdatedBy.Int64 != 42 {
		t.Fatalf("updated_by = %+v, want valid 42", edited.UpdatedBy)
	}

	// The envelope shape is what the admin UI consumes
	data, err := json.Marshal(edited)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["key"] != "platform_fee_percent" || decoded["value"] != "7.5" {
		t.Fatalf("unexpected payload: %v", decoded)
	}
}
