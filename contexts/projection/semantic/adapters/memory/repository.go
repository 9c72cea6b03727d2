// Package memory is an in-memory Repository for tests and local wiring.
package memory

import (
	"context"
	"sort"
	"sync"

	"mnemonicnexus/contexts/projection/semantic/domain/entities"
)

type identityKey struct {
	worldID string
	branch  string
	emoID   string
}

type historyKey struct {
	identityKey
	version   int
	operation string
}

// Repository is a deterministic, mutex-guarded in-memory EMO store.
type Repository struct {
	mu      sync.Mutex
	current map[identityKey]entities.EMO
	history map[historyKey]entities.HistoryEntry
}

func NewRepository() *Repository {
	return &Repository{
		current: map[identityKey]entities.EMO{},
		history: map[historyKey]entities.HistoryEntry{},
	}
}

func key(worldID, branch, emoID string) identityKey {
	return identityKey{worldID, branch, emoID}
}

func (r *Repository) GetCurrent(_ context.Context, worldID, branch, emoID string) (entities.EMO, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	emo, ok := r.current[key(worldID, branch, emoID)]
	return emo, ok, nil
}

func (r *Repository) InsertIfAbsent(_ context.Context, emo entities.EMO, historyEntry entities.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(emo.WorldID, emo.Branch, emo.EMOID)
	if _, ok := r.current[k]; !ok {
		r.current[k] = emo
	}
	hk := historyKey{k, historyEntry.EMOVersion, historyEntry.Operation}
	if _, ok := r.history[hk]; !ok {
		r.history[hk] = historyEntry
	}
	return nil
}

func (r *Repository) UpdateIfNewerVersion(_ context.Context, emo entities.EMO, historyEntry entities.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(emo.WorldID, emo.Branch, emo.EMOID)
	existing, ok := r.current[k]
	if !ok || emo.EMOVersion > existing.EMOVersion {
		r.current[k] = emo
	}
	hk := historyKey{k, historyEntry.EMOVersion, historyEntry.Operation}
	if _, ok := r.history[hk]; !ok {
		r.history[hk] = historyEntry
	}
	return nil
}

func (r *Repository) BumpVersion(_ context.Context, worldID, branch, emoID string, version int, historyEntry entities.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(worldID, branch, emoID)
	if existing, ok := r.current[k]; ok && version > existing.EMOVersion {
		existing.EMOVersion = version
		r.current[k] = existing
	}
	hk := historyKey{k, historyEntry.EMOVersion, historyEntry.Operation}
	if _, ok := r.history[hk]; !ok {
		r.history[hk] = historyEntry
	}
	return nil
}

func (r *Repository) SoftDelete(_ context.Context, worldID, branch, emoID string, version int, reason string, historyEntry entities.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(worldID, branch, emoID)
	if existing, ok := r.current[k]; ok {
		existing.Deleted = true
		existing.DeletionReason = reason
		now := existing.UpdatedAt
		existing.DeletedAt = &now
		if version > existing.EMOVersion {
			existing.EMOVersion = version
		}
		r.current[k] = existing
	}
	hk := historyKey{k, historyEntry.EMOVersion, historyEntry.Operation}
	if _, ok := r.history[hk]; !ok {
		r.history[hk] = historyEntry
	}
	return nil
}

func (r *Repository) SetEmbedding(_ context.Context, worldID, branch, emoID string, embedding []float32, model string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(worldID, branch, emoID)
	if existing, ok := r.current[k]; ok {
		existing.Embedding = embedding
		existing.EmbeddingModel = model
		r.current[k] = existing
	}
	return nil
}

func (r *Repository) ListActive(_ context.Context, worldID, branch string) ([]entities.EMO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.EMO
	for k, emo := range r.current {
		if k.worldID == worldID && k.branch == branch && !emo.Deleted {
			out = append(out, emo)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EMOID < out[j].EMOID })
	return out, nil
}

func (r *Repository) ClearState(_ context.Context, worldID, branch string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.current {
		if k.worldID == worldID && k.branch == branch {
			delete(r.current, k)
		}
	}
	for k := range r.history {
		if k.worldID == worldID && k.branch == branch {
			delete(r.history, k)
		}
	}
	return nil
}
