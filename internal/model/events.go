package model

import (
	"encoding/json"
	"time"
)

// Event names emitted by protocol transitions.
const (
	EventProtocolInitialized = "ProtocolInitialized"
	EventTokensMinted        = "TokensMinted"
	EventTokensBurned        = "TokensBurned"
	EventYieldRateUpdated    = "YieldRateUpdated"
	EventSwapExecuted        = "SwapExecuted"
)

// EventRecord is the append-only envelope written for every transition.
type EventRecord struct {
	Event     string          `json:"event"`
	EmittedAt string          `json:"emitted_at"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEventRecord wraps a payload into an EventRecord stamped with the
// current time.
func NewEventRecord(name string, payload interface{}) (EventRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return EventRecord{}, err
	}
	return EventRecord{
		Event:     name,
		EmittedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Payload:   body,
	}, nil
}

// ProtocolInitializedData is the ProtocolInitialized event payload.
type ProtocolInitializedData struct {
	Administrator string `json:"administrator"`
	BaseYieldRate uint64 `json:"base_yield_rate"`
}

// TokensMintedData is the TokensMinted event payload.
type TokensMintedData struct {
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

// TokensBurnedData is the TokensBurned event payload.
type TokensBurnedData struct {
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

// YieldRateUpdatedData is the YieldRateUpdated event payload.
type YieldRateUpdatedData struct {
	Administrator string `json:"administrator"`
	YieldRate     uint64 `json:"yield_rate"`
}

// SwapExecutedData is the SwapExecuted event payload.
type SwapExecutedData struct {
	Trader    string `json:"trader"`
	AmountIn  uint64 `json:"amount_in"`
	AmountOut uint64 `json:"amount_out"`
}
