package model

import (
	"encoding/json"
	"testing"
)

func TestEventRecordJSONFields(t *testing.T) {
	record, err := NewEventRecord(EventProtocolInitialized, ProtocolInitializedData{
		Administrator: "0x00000000000000000000000000000000000000Aa",
		BaseYieldRate: 500,
	})
	if err != nil {
		t.Fatalf("build record failed: %v", err)
	}
	if record.Event != EventProtocolInitialized {
		t.Fatalf("event name mismatch: %s", record.Event)
	}
	if record.EmittedAt == "" {
		t.Fatalf("emitted_at not stamped")
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if _, ok := decoded["event"].(string); !ok {
		t.Fatalf("event should be string")
	}
	if _, ok := decoded["emitted_at"].(string); !ok {
		t.Fatalf("emitted_at should be string")
	}
	payload, ok := decoded["payload"].(map[string]interface{})
	if !ok {
		t.Fatalf("payload should be an object")
	}
	if _, ok := payload["base_yield_rate"]; !ok {
		t.Fatalf("payload missing base_yield_rate")
	}
}
