// Package memory is an in-memory adapter implementing the logstore ports,
// intended for tests and local development wiring.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	domainerrors "mnemonicnexus/contexts/eventlog/logstore/domain/errors"
	"mnemonicnexus/contexts/eventlog/logstore/ports"
	"mnemonicnexus/internal/shared/events"
	"mnemonicnexus/internal/shared/outbox"
)

type outboxEntry struct {
	row outbox.Row
}

// Store is a deterministic, mutex-guarded in-memory event log + outbox.
type Store struct {
	mu sync.Mutex

	nextSeq     int64
	byEventID   map[string]events.Envelope
	byIdemKey   map[string]events.Envelope
	log         []events.Envelope
	outboxByKey map[int64]*outboxEntry
	dlq         []outbox.DLQRow
}

func NewStore() *Store {
	return &Store{
		nextSeq:     1,
		byEventID:   map[string]events.Envelope{},
		byIdemKey:   map[string]events.Envelope{},
		outboxByKey: map[int64]*outboxEntry{},
	}
}

func idemTupleKey(worldID, branch, key string) string {
	return worldID + "\x00" + branch + "\x00" + key
}

func (s *Store) AppendEvent(_ context.Context, envelope events.Envelope) (ports.AppendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if envelope.IdempotencyKey != "" {
		key := idemTupleKey(envelope.WorldID, envelope.Branch, envelope.IdempotencyKey)
		if existing, ok := s.byIdemKey[key]; ok {
			return ports.AppendResult{Event: existing, Conflict: true}, nil
		}
	}

	envelope.GlobalSeq = s.nextSeq
	raw, err := json.Marshal(envelope)
	if err != nil {
		return ports.AppendResult{}, err
	}
	s.nextSeq++

	s.byEventID[envelope.EventID] = envelope
	if envelope.IdempotencyKey != "" {
		s.byIdemKey[idemTupleKey(envelope.WorldID, envelope.Branch, envelope.IdempotencyKey)] = envelope
	}
	s.log = append(s.log, envelope)
	s.outboxByKey[envelope.GlobalSeq] = &outboxEntry{row: outbox.Row{
		GlobalSeq:   envelope.GlobalSeq,
		WorldID:     envelope.WorldID,
		Branch:      envelope.Branch,
		Kind:        envelope.Kind,
		EnvelopeRaw: raw,
		PayloadHash: envelope.PayloadHash,
		Status:      outbox.StatusUnpublished,
	}}

	return ports.AppendResult{Event: envelope, Conflict: false}, nil
}

func (s *Store) ListEvents(_ context.Context, filter ports.ListFilter) (ports.ListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}

	var matched []events.Envelope
	for _, env := range s.log {
		if env.WorldID != filter.WorldID || env.Branch != filter.Branch {
			continue
		}
		if filter.Kind != "" && env.Kind != filter.Kind {
			continue
		}
		if env.GlobalSeq <= filter.AfterGlobalSeq {
			continue
		}
		matched = append(matched, env)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].GlobalSeq < matched[j].GlobalSeq })

	hasMore := len(matched) > limit
	if hasMore {
		matched = matched[:limit]
	}

	result := ports.ListResult{Items: matched, HasMore: hasMore}
	if len(matched) > 0 {
		result.NextAfterGlobalSeq = matched[len(matched)-1].GlobalSeq
	} else {
		result.NextAfterGlobalSeq = filter.AfterGlobalSeq
	}
	return result, nil
}

func (s *Store) GetEvent(_ context.Context, worldID, eventID string) (events.Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, ok := s.byEventID[eventID]
	if !ok || env.WorldID != worldID {
		return events.Envelope{}, domainerrors.ErrEventNotFound
	}
	return env, nil
}

func (s *Store) ClaimOutboxBatch(_ context.Context, limit int) ([]outbox.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}

	var seqs []int64
	for seq, entry := range s.outboxByKey {
		if entry.row.Status != outbox.StatusUnpublished && entry.row.Status != outbox.StatusRetry {
			continue
		}
		if entry.row.NextRetryAt != nil && entry.row.NextRetryAt.After(time.Now()) {
			continue
		}
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })

	if len(seqs) > limit {
		seqs = seqs[:limit]
	}

	out := make([]outbox.Row, 0, len(seqs))
	for _, seq := range seqs {
		out = append(out, s.outboxByKey[seq].row)
	}
	return out, nil
}

func (s *Store) MarkPublished(_ context.Context, globalSeq int64, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.outboxByKey[globalSeq]
	if !ok {
		return domainerrors.ErrEventNotFound
	}
	entry.row.Status = outbox.StatusPublished
	entry.row.PublishedAt = &publishedAt
	return nil
}

func (s *Store) MarkRetry(_ context.Context, globalSeq int64, lastError string, nextRetryAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.outboxByKey[globalSeq]
	if !ok {
		return domainerrors.ErrEventNotFound
	}
	entry.row.Status = outbox.StatusRetry
	entry.row.Attempts++
	entry.row.LastError = lastError
	entry.row.NextRetryAt = &nextRetryAt
	return nil
}

func (s *Store) MoveToDLQ(_ context.Context, globalSeq int64, lastError, publisherID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.outboxByKey[globalSeq]
	if !ok {
		return domainerrors.ErrEventNotFound
	}
	now := time.Now().UTC()
	entry.row.Status = outbox.StatusDLQ
	entry.row.PublishedAt = &now
	entry.row.LastError = lastError

	s.dlq = append(s.dlq, outbox.DLQRow{
		GlobalSeq:   globalSeq,
		Error:       lastError,
		PublisherID: publisherID,
		MovedAt:     now,
	})
	return nil
}

func (s *Store) OutboxLag(_ context.Context) (int, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	var oldest *events.Envelope
	for _, entry := range s.outboxByKey {
		if entry.row.Status != outbox.StatusUnpublished && entry.row.Status != outbox.StatusRetry {
			continue
		}
		count++
		if env, ok := s.byEventID[s.eventIDForSeq(entry.row.GlobalSeq)]; ok {
			if oldest == nil || env.ReceivedAt.Before(oldest.ReceivedAt) {
				oldest = &env
			}
		}
	}

	lagSeconds := 0.0
	if oldest != nil {
		lagSeconds = time.Since(oldest.ReceivedAt).Seconds()
	}
	return count, lagSeconds, nil
}

func (s *Store) eventIDForSeq(seq int64) string {
	for _, env := range s.log {
		if env.GlobalSeq == seq {
			return env.EventID
		}
	}
	return ""
}

func (s *Store) ListDLQ(_ context.Context, limit int) ([]outbox.DLQRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.dlq) {
		limit = len(s.dlq)
	}
	out := make([]outbox.DLQRow, limit)
	copy(out, s.dlq[len(s.dlq)-limit:])
	return out, nil
}

// ListEventsSinceAcrossTenants implements the admin rebuild bypass for tests.
func (s *Store) ListEventsSinceAcrossTenants(_ context.Context, worldID, branch string, fromSeq int64) ([]events.Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []events.Envelope
	for _, env := range s.log {
		if env.WorldID == worldID && env.Branch == branch && env.GlobalSeq >= fromSeq {
			out = append(out, env)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GlobalSeq < out[j].GlobalSeq })
	return out, nil
}
