package models

import (
	"encoding/json"
	"testing"
)

func marshalKeys(t *testing.T, out Outcome) map[string]json.RawMessage {
	t.Helper()
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal outcome: %v", err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		t.Fatalf("unmarshal outcome: %v", err)
	}
	return keys
}

// A zero-record success must still carry its records field, serialised as
// [], so callers can rely on status implying the field's presence.
func TestOutcomeJSON_ZeroRecordSuccessKeepsRecordsField(t *testing.T) {
	keys := marshalKeys(t, Success("http://example.com/", nil))

	raw, ok := keys["records"]
	if !ok {
		t.Fatal("zero-record success dropped the records field")
	}
	if string(raw) != "[]" {
		t.Errorf("records = %s, want []", raw)
	}
	if _, ok := keys["error"]; ok {
		t.Error("success outcome carries an error field")
	}
}

func TestOutcomeJSON_SuccessWithRecords(t *testing.T) {
	keys := marshalKeys(t, Success("http://example.com/", []Record{{"title": "x"}}))

	var records []Record
	if err := json.Unmarshal(keys["records"], &records); err != nil {
		t.Fatalf("unmarshal records: %v", err)
	}
	if len(records) != 1 || records[0]["title"] != "x" {
		t.Errorf("records = %v, want one record with title x", records)
	}
}

func TestOutcomeJSON_FailureOmitsRecords(t *testing.T) {
	keys := marshalKeys(t, Failure("http://example.com/", "boom"))

	if _, ok := keys["records"]; ok {
		t.Error("failure outcome carries a records field")
	}
	raw, ok := keys["error"]
	if !ok {
		t.Fatal("failure outcome dropped the error field")
	}
	if string(raw) != `"boom"` {
		t.Errorf("error = %s, want \"boom\"", raw)
	}
}

// Both batch runners substitute this exact string for a slot whose worker
// failed unexpectedly; callers match on it.
func TestUnknownSlotURL_ContractString(t *testing.T) {
	if UnknownSlotURL != "Unknown URL (unexpected error)" {
		t.Errorf("UnknownSlotURL = %q", UnknownSlotURL)
	}
	out := Failure(UnknownSlotURL, "worker defect")
	if out.URL != "Unknown URL (unexpected error)" || out.Status != StatusFailed {
		t.Errorf("placeholder failure = %+v", out)
	}
}
