// Package entities holds the EMO (Entity-Memory-Object) domain types owned
// by the relational projector.
package entities

import "time"

// Source identifies who or what produced an EMO.
type Source struct {
	Kind string `json:"kind"`
	URI  string `json:"uri,omitempty"`
}

// Parent is one lineage edge from an EMO to an earlier one.
type Parent struct {
	EMOID string `json:"emo_id"`
	Rel   string `json:"rel"`
}

// Link is one reference edge from an EMO to another EMO or an external URI.
type Link struct {
	Kind string `json:"kind"`
	Ref  string `json:"ref"`
}

// EMO is the current-state row for one (emo_id, world_id, branch) identity.
type EMO struct {
	EMOID          string
	WorldID        string
	Branch         string
	EMOType        string
	EMOVersion     int
	TenantID       string
	Content        string
	Tags           []string
	MimeType       string
	Source         Source
	Parents        []Parent
	Links          []Link
	Deleted        bool
	DeletedAt      *time.Time
	DeletionReason string
	UpdatedAt      time.Time
}

// HistoryEntry is one append-only version record for an EMO.
type HistoryEntry struct {
	EMOID       string
	WorldID     string
	Branch      string
	EMOVersion  int
	Operation   string
	ContentHash string
	RecordedAt  time.Time
}
