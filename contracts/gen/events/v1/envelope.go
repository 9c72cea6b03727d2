package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical, versioned event envelope for cross-runtime use.
// This package is generated-contract-only and must stay backward compatible:
// it is the wire shape shared between the gateway, the CDC publisher and
// every projector, independent of the internal Go types each one uses.
type Envelope struct {
	EventID       string          `json:"event_id"`
	GlobalSeq     int64           `json:"global_seq"`
	WorldID       string          `json:"world_id"`
	Branch        string          `json:"branch"`
	Kind          string          `json:"kind"`
	Payload       json.RawMessage `json:"payload"`
	By            Actor           `json:"by"`
	OccurredAt    *time.Time      `json:"occurred_at,omitempty"`
	ReceivedAt    time.Time       `json:"received_at"`
	CausationID   string          `json:"causation_id,omitempty"`
	Version       int             `json:"version"`
	PayloadHash   string          `json:"payload_hash"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// Actor identifies the audit principal that produced an event.
type Actor struct {
	Agent string `json:"agent"`
}

// Delivery is the body the CDC publisher posts to each projector endpoint.
type Delivery struct {
	GlobalSeq   int64    `json:"global_seq"`
	EventID     string   `json:"event_id"`
	Envelope    Envelope `json:"envelope"`
	PayloadHash string   `json:"payload_hash"`
}
