package shared

import (
	"testing"

	"github.com/bytedance/sonic"
)

func TestID_UnmarshalNumberAndString(t *testing.T) {
	var row struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}

	if err := sonic.Unmarshal([]byte(`{"a":17,"b":"9f1c-aa","c":null}`), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if row.A != "17" || row.B != "9f1c-aa" || !row.C.IsZero() {
		t.Fatalf("unexpected ids: %+v", row)
	}
}

func TestID_RejectsObjects(t *testing.T) {
	var id ID
	if err := sonic.Unmarshal([]byte(`{"x":1}`), &id); err == nil {
		t.Fatalf("expected error for object id")
	}
}
