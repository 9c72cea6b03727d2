// Package memory is an in-memory Repository for tests and local wiring.
package memory

import (
	"context"
	"sort"
	"sync"

	"mnemonicnexus/contexts/projection/graph/domain/entities"
)

type identityKey struct {
	worldID string
	branch  string
	emoID   string
}

// Repository is a deterministic, mutex-guarded in-memory graph store.
type Repository struct {
	mu    sync.Mutex
	nodes map[identityKey]entities.Node
	edges map[identityKey][]entities.Edge
}

func NewRepository() *Repository {
	return &Repository{
		nodes: map[identityKey]entities.Node{},
		edges: map[identityKey][]entities.Edge{},
	}
}

func key(worldID, branch, emoID string) identityKey {
	return identityKey{worldID, branch, emoID}
}

func (r *Repository) GetNode(_ context.Context, worldID, branch, emoID string) (entities.Node, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nodes[key(worldID, branch, emoID)]
	return n, ok, nil
}

func (r *Repository) InsertNodeIfAbsent(_ context.Context, node entities.Node, edges []entities.Edge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(node.WorldID, node.Branch, node.EMOID)
	if _, ok := r.nodes[k]; !ok {
		r.nodes[k] = node
	}
	r.edges[k] = mergeEdges(r.edges[k], edges)
	return nil
}

func (r *Repository) UpdateNodeIfNewerVersion(_ context.Context, node entities.Node, edges []entities.Edge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(node.WorldID, node.Branch, node.EMOID)
	existing, ok := r.nodes[k]
	if !ok || node.EMOVersion > existing.EMOVersion {
		r.nodes[k] = node
	}
	return nil
}

func (r *Repository) BumpNodeVersion(_ context.Context, worldID, branch, emoID string, version int, edges []entities.Edge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(worldID, branch, emoID)
	if existing, ok := r.nodes[k]; ok && version > existing.EMOVersion {
		existing.EMOVersion = version
		r.nodes[k] = existing
	}
	r.edges[k] = mergeEdges(r.edges[k], edges)
	return nil
}

func (r *Repository) SoftDeleteNode(_ context.Context, worldID, branch, emoID string, version int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(worldID, branch, emoID)
	if existing, ok := r.nodes[k]; ok {
		existing.Deleted = true
		now := existing.UpdatedAt
		existing.DeletedAt = &now
		if version > existing.EMOVersion {
			existing.EMOVersion = version
		}
		r.nodes[k] = existing
	}
	return nil
}

func (r *Repository) ReplaceEdges(_ context.Context, worldID, branch, emoID string, edges []entities.Edge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges[key(worldID, branch, emoID)] = append([]entities.Edge(nil), edges...)
	return nil
}

func (r *Repository) ListActiveNodes(_ context.Context, worldID, branch string) ([]entities.Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Node
	for k, n := range r.nodes {
		if k.worldID == worldID && k.branch == branch && !n.Deleted {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EMOID < out[j].EMOID })
	return out, nil
}

func (r *Repository) ClearState(_ context.Context, worldID, branch string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.nodes {
		if k.worldID == worldID && k.branch == branch {
			delete(r.nodes, k)
		}
	}
	for k := range r.edges {
		if k.worldID == worldID && k.branch == branch {
			delete(r.edges, k)
		}
	}
	return nil
}

func mergeEdges(existing, incoming []entities.Edge) []entities.Edge {
	seen := map[entities.Edge]bool{}
	out := make([]entities.Edge, 0, len(existing)+len(incoming))
	for _, e := range existing {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	for _, e := range incoming {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}
