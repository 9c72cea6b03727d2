// Package entities holds the graph lens's node/edge types: emo_id nodes and
// parent/link edges between them.
package entities

import "time"

// Node is one EMO identity mirrored into the graph.
type Node struct {
	EMOID      string
	WorldID    string
	Branch     string
	EMOType    string
	EMOVersion int
	Deleted    bool
	DeletedAt  *time.Time
	UpdatedAt  time.Time
}

// Edge is one directed relationship between two nodes, or from a node to an
// external reference. Edges terminating at a deleted node are preserved —
// soft-delete never removes lineage.
type Edge struct {
	FromEMOID string
	WorldID   string
	Branch    string
	Kind      string // "parent" or the link's kind
	Rel       string // populated for parent edges
	ToRef     string // emo_id for parent edges, arbitrary ref for links
}
