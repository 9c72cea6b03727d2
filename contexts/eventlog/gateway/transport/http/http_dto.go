// Package httptransport holds the gateway's wire-level request/response
// shapes, kept separate from the domain envelope so the HTTP contract can
// evolve independently of the internal representation.
package httptransport

import "time"

// AppendEventRequest is the envelope body accepted by POST /events.
type AppendEventRequest struct {
	WorldID     string         `json:"world_id"`
	Branch      string         `json:"branch"`
	Kind        string         `json:"kind"`
	Payload     map[string]any `json:"payload"`
	By          ActorDTO       `json:"by"`
	OccurredAt  string         `json:"occurred_at,omitempty"`
	CausationID string         `json:"causation_id,omitempty"`
	Version     int            `json:"version,omitempty"`
}

// ActorDTO mirrors the envelope's "by" field.
type ActorDTO struct {
	Agent string `json:"agent"`
}

// AppendEventResponse is the 201 body for a successful append. A replayed
// idempotency key is answered with 409 and ErrorResponse instead.
type AppendEventResponse struct {
	EventID       string    `json:"event_id"`
	GlobalSeq     int64     `json:"global_seq"`
	ReceivedAt    time.Time `json:"received_at"`
	CorrelationID string    `json:"correlation_id"`
}

// EventDTO is the full enriched envelope returned by list/get.
type EventDTO struct {
	EventID     string         `json:"event_id"`
	GlobalSeq   int64          `json:"global_seq"`
	WorldID     string         `json:"world_id"`
	Branch      string         `json:"branch"`
	Kind        string         `json:"kind"`
	Payload     map[string]any `json:"payload"`
	By          ActorDTO       `json:"by"`
	OccurredAt  *time.Time     `json:"occurred_at,omitempty"`
	ReceivedAt  time.Time      `json:"received_at"`
	CausationID string         `json:"causation_id,omitempty"`
	Version     int            `json:"version"`
	PayloadHash string         `json:"payload_hash"`
}

// ListEventsResponse is the body for GET /events.
type ListEventsResponse struct {
	Items              []EventDTO `json:"items"`
	NextAfterGlobalSeq int64      `json:"next_after_global_seq"`
	HasMore            bool       `json:"has_more"`
}

// ErrorResponse is the shared {code, message, correlation_id} error shape.
type ErrorResponse struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id"`
}
