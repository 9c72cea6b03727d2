// Package events holds the shared event envelope used across the gateway,
// the CDC publisher and every projector. It is the domain-facing sibling of
// contracts/gen/events/v1: that package is the generated wire contract,
// this package is what application code actually operates on.
package events

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	v1 "mnemonicnexus/contracts/gen/events/v1"
)

// Actor identifies the audit principal that produced an event.
type Actor struct {
	Agent string `json:"agent"`
}

// Envelope is the unit of input accepted by the gateway and carried through
// the rest of the pipeline. Payload is decoded to a generic map so the
// envelope can be canonicalized and hashed without knowing its schema.
type Envelope struct {
	EventID        string         `json:"event_id"`
	GlobalSeq      int64          `json:"global_seq"`
	WorldID        string         `json:"world_id"`
	Branch         string         `json:"branch"`
	Kind           string         `json:"kind"`
	Payload        map[string]any `json:"payload"`
	By             Actor          `json:"by"`
	OccurredAt     *time.Time     `json:"occurred_at,omitempty"`
	ReceivedAt     time.Time      `json:"received_at"`
	CausationID    string         `json:"causation_id,omitempty"`
	Version        int            `json:"version"`
	PayloadHash    string         `json:"payload_hash"`
	IdempotencyKey string         `json:"-"`
	CorrelationID  string         `json:"-"`
}

// ComputePayloadHash returns the SHA-256 hash of the canonical JSON of the
// payload alone, per the server-side/client-side hashing parity requirement.
func ComputePayloadHash(payload map[string]any) (string, error) {
	canonical, err := canonicalJSON(normalizeJSONValue(payload))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// VerifyPayloadHash re-derives the payload hash and compares it to expected,
// used both by the gateway at write time and by the projector framework at
// delivery time.
func VerifyPayloadHash(payload map[string]any, expected string) (bool, error) {
	actual, err := ComputePayloadHash(payload)
	if err != nil {
		return false, err
	}
	return actual == expected, nil
}

// normalizeJSONValue round-trips through encoding/json so nested values
// (structs, []byte-decoded numbers, etc.) become the map[string]any/[]any/
// float64 shape canonicalJSON knows how to walk.
func normalizeJSONValue(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

// ToWire converts the domain envelope to the generated wire contract used in
// publisher deliveries and cross-process payloads.
func (e Envelope) ToWire() (v1.Envelope, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return v1.Envelope{}, err
	}
	return v1.Envelope{
		EventID:       e.EventID,
		GlobalSeq:     e.GlobalSeq,
		WorldID:       e.WorldID,
		Branch:        e.Branch,
		Kind:          e.Kind,
		Payload:       payload,
		By:            v1.Actor{Agent: e.By.Agent},
		OccurredAt:    e.OccurredAt,
		ReceivedAt:    e.ReceivedAt,
		CausationID:   e.CausationID,
		Version:       e.Version,
		PayloadHash:   e.PayloadHash,
		CorrelationID: e.CorrelationID,
	}, nil
}

// FromWire rebuilds a domain envelope from the generated wire contract, as
// done by every projector on receipt of a delivery.
func FromWire(w v1.Envelope) (Envelope, error) {
	var payload map[string]any
	if len(w.Payload) > 0 {
		if err := json.Unmarshal(w.Payload, &payload); err != nil {
			return Envelope{}, err
		}
	}
	return Envelope{
		EventID:       w.EventID,
		GlobalSeq:     w.GlobalSeq,
		WorldID:       w.WorldID,
		Branch:        w.Branch,
		Kind:          w.Kind,
		Payload:       payload,
		By:            Actor{Agent: w.By.Agent},
		OccurredAt:    w.OccurredAt,
		ReceivedAt:    w.ReceivedAt,
		CausationID:   w.CausationID,
		Version:       w.Version,
		PayloadHash:   w.PayloadHash,
		CorrelationID: w.CorrelationID,
	}, nil
}
