// Package postgres implements the admin surface's read/write access to the
// shared event log, outbox, and watermark tables under the administrative
// bypass — gated by role (this process), not by omission of a world
// context.
package postgres

import (
	"context"
	"encoding/json"
	"time"

	"mnemonicnexus/internal/platform/db"
	"mnemonicnexus/internal/shared/events"
)

type adminEventLogModel struct {
	GlobalSeq      int64           `gorm:"column:global_seq"`
	EventID        string          `gorm:"column:event_id"`
	WorldID        string          `gorm:"column:world_id"`
	Branch         string          `gorm:"column:branch"`
	Kind           string          `gorm:"column:kind"`
	Envelope       json.RawMessage `gorm:"column:envelope"`
	OccurredAt     *time.Time      `gorm:"column:occurred_at"`
	ReceivedAt     time.Time       `gorm:"column:received_at"`
	PayloadHash    string          `gorm:"column:payload_hash"`
	IdempotencyKey string          `gorm:"column:idempotency_key"`
}

func (adminEventLogModel) TableName() string { return "event_log" }

// EventSource implements ports.EventSource against the event_log table
// directly, unfiltered by any session world context, the same bypass
// original_source/services/gateway/admin.py used for rebuild estimation.
type EventSource struct {
	db *db.Postgres
}

func NewEventSource(pg *db.Postgres) *EventSource { return &EventSource{db: pg} }

func (s *EventSource) CountEventsSince(ctx context.Context, worldID, branch string, fromGlobalSeq int64) (int, error) {
	var count int64
	err := s.db.DB.WithContext(ctx).Model(&adminEventLogModel{}).
		Where("world_id = ? AND branch = ? AND global_seq >= ?", worldID, branch, fromGlobalSeq).
		Count(&count).Error
	return int(count), err
}

func (s *EventSource) ListEventsSince(ctx context.Context, worldID, branch string, fromGlobalSeq int64) ([]events.Envelope, error) {
	var rows []adminEventLogModel
	err := s.db.DB.WithContext(ctx).
		Where("world_id = ? AND branch = ? AND global_seq >= ?", worldID, branch, fromGlobalSeq).
		Order("global_seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]events.Envelope, 0, len(rows))
	for _, row := range rows {
		var envelope events.Envelope
		if err := json.Unmarshal(row.Envelope, &envelope); err != nil {
			return nil, err
		}
		envelope.GlobalSeq = row.GlobalSeq
		out = append(out, envelope)
	}
	return out, nil
}
