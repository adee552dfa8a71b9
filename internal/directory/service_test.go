package directory_test

import (
	"encoding/json"
	"testing"

	"github.com/hazz-dev/svcboard/internal/directory"
)

func TestID_UnmarshalNumberAndString(t *testing.T) {
	tests := []struct {
		in   string
		want directory.ID
	}{
		{`{"id": 12}`, "12"},
		{`{"id": 9007199254740993}`, "9007199254740993"},
		{`{"id": "abc-1"}`, "abc-1"},
		{`{"id": "a/b%20c"}`, "a/b%20c"},
		{`{"id": null}`, ""},
		{`{"name": "no id"}`, ""},
	}
	for _, tt := range tests {
		var svc directory.Service
		if err := json.Unmarshal([]byte(tt.in), &svc); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.in, err)
		}
		if svc.ID != tt.want {
			t.Errorf("%s: expected id %q, got %q", tt.in, tt.want, svc.ID)
		}
	}
}

func TestID_UnmarshalRejectsObject(t *testing.T) {
	var svc directory.Service
	if err := json.Unmarshal([]byte(`{"id": {"x": 1}}`), &svc); err == nil {
		t.Error("expected error for object id")
	}
}

func TestID_NullInListKeepsRecord(t *testing.T) {
	var svcs []directory.Service
	data := `[{"id": null, "name": "ghost"}, {"id": 3, "name": "api"}]`
	if err := json.Unmarshal([]byte(data), &svcs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(svcs) != 2 || svcs[0].ID != "" || svcs[0].Name != "ghost" || svcs[1].ID != "3" {
		t.Errorf("unexpected services: %+v", svcs)
	}
}
