// Package entities holds the EMO domain types owned by the semantic
// projector: the same identity/version/deletion shape as the relational
// lens, plus an embedding vector.
package entities

import "time"

// EMO is the current-state row for one (emo_id, world_id, branch) identity
// in the semantic (vector) lens.
type EMO struct {
	EMOID          string
	WorldID        string
	Branch         string
	EMOType        string
	EMOVersion     int
	Content        string
	Embedding      []float32
	EmbeddingModel string
	Deleted        bool
	DeletedAt      *time.Time
	DeletionReason string
	UpdatedAt      time.Time
}

// HistoryEntry is one append-only version record for an EMO.
type HistoryEntry struct {
	EMOID      string
	WorldID    string
	Branch     string
	EMOVersion int
	Operation  string
	RecordedAt time.Time
}
