package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainerrors "mnemonicnexus/contexts/eventlog/logstore/domain/errors"
	"mnemonicnexus/internal/platform/db"
	"mnemonicnexus/internal/shared/events"
	"mnemonicnexus/internal/shared/outbox"

	"mnemonicnexus/contexts/eventlog/logstore/ports"
)

// Store is the postgres/gorm adapter for the event log + outbox (C1).
type Store struct {
	db     *db.Postgres
	logger *slog.Logger
}

func NewStore(pg *db.Postgres, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: pg, logger: logger}
}

func (s *Store) AppendEvent(ctx context.Context, envelope events.Envelope) (ports.AppendResult, error) {
	var result ports.AppendResult

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if strings.TrimSpace(envelope.IdempotencyKey) != "" {
			var existing eventLogModel
			err := tx.WithContext(ctx).
				Where("world_id = ? AND branch = ? AND idempotency_key = ?", envelope.WorldID, envelope.Branch, envelope.IdempotencyKey).
				First(&existing).Error
			if err == nil {
				env, decodeErr := decodeEnvelope(existing)
				if decodeErr != nil {
					return decodeErr
				}
				result = ports.AppendResult{Event: env, Conflict: true}
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		var globalSeq int64
		if err := tx.WithContext(ctx).Raw("SELECT nextval('global_seq_seq')").Scan(&globalSeq).Error; err != nil {
			return fmt.Errorf("logstore: assign global_seq: %w", err)
		}
		envelope.GlobalSeq = globalSeq

		raw, err := json.Marshal(envelope)
		if err != nil {
			return err
		}

		logRow := eventLogModel{
			GlobalSeq:      globalSeq,
			EventID:        envelope.EventID,
			WorldID:        envelope.WorldID,
			Branch:         envelope.Branch,
			Kind:           envelope.Kind,
			Envelope:       raw,
			OccurredAt:     envelope.OccurredAt,
			ReceivedAt:     envelope.ReceivedAt,
			PayloadHash:    envelope.PayloadHash,
			IdempotencyKey: envelope.IdempotencyKey,
		}
		if err := tx.WithContext(ctx).Create(&logRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrTenancyViolation
			}
			return err
		}

		outboxRow := outboxModel{
			GlobalSeq:   globalSeq,
			WorldID:     envelope.WorldID,
			Branch:      envelope.Branch,
			Kind:        envelope.Kind,
			Envelope:    raw,
			PayloadHash: envelope.PayloadHash,
			Status:      outboxStatusUnpublished,
		}
		if err := tx.WithContext(ctx).Create(&outboxRow).Error; err != nil {
			return err
		}

		result = ports.AppendResult{Event: envelope, Conflict: false}
		return nil
	})
	if err != nil {
		return ports.AppendResult{}, err
	}
	return result, nil
}

func (s *Store) ListEvents(ctx context.Context, filter ports.ListFilter) (ports.ListResult, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}

	tx := s.db.DB.WithContext(ctx).Model(&eventLogModel{}).
		Where("world_id = ? AND branch = ?", filter.WorldID, filter.Branch)
	if filter.Kind != "" {
		tx = tx.Where("kind = ?", filter.Kind)
	}
	if filter.AfterGlobalSeq > 0 {
		tx = tx.Where("global_seq > ?", filter.AfterGlobalSeq)
	}

	var rows []eventLogModel
	if err := tx.Order("global_seq ASC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return ports.ListResult{}, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	items := make([]events.Envelope, 0, len(rows))
	for _, row := range rows {
		env, err := decodeEnvelope(row)
		if err != nil {
			return ports.ListResult{}, err
		}
		items = append(items, env)
	}

	result := ports.ListResult{Items: items, HasMore: hasMore}
	if len(items) > 0 {
		result.NextAfterGlobalSeq = items[len(items)-1].GlobalSeq
	} else {
		result.NextAfterGlobalSeq = filter.AfterGlobalSeq
	}
	return result, nil
}

func (s *Store) GetEvent(ctx context.Context, worldID, eventID string) (events.Envelope, error) {
	var row eventLogModel
	err := s.db.DB.WithContext(ctx).
		Where("world_id = ? AND event_id = ?", worldID, eventID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return events.Envelope{}, domainerrors.ErrEventNotFound
		}
		return events.Envelope{}, err
	}
	return decodeEnvelope(row)
}

func (s *Store) ClaimOutboxBatch(ctx context.Context, limit int) ([]outbox.Row, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []outboxModel
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.WithContext(ctx).
			Raw(`SELECT * FROM outbox
				WHERE status IN (?, ?)
				AND (next_retry_at IS NULL OR next_retry_at <= now())
				ORDER BY global_seq ASC
				LIMIT ?
				FOR UPDATE SKIP LOCKED`, outboxStatusUnpublished, outboxStatusRetry, limit).
			Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	out := make([]outbox.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, outbox.Row{
			GlobalSeq:   r.GlobalSeq,
			WorldID:     r.WorldID,
			Branch:      r.Branch,
			Kind:        r.Kind,
			EnvelopeRaw: r.Envelope,
			PayloadHash: r.PayloadHash,
			Status:      r.Status,
			PublishedAt: r.PublishedAt,
			Attempts:    r.Attempts,
			LastError:   r.LastError,
			NextRetryAt: r.NextRetryAt,
		})
	}
	return out, nil
}

func (s *Store) MarkPublished(ctx context.Context, globalSeq int64, publishedAt time.Time) error {
	return s.db.DB.WithContext(ctx).Model(&outboxModel{}).
		Where("global_seq = ?", globalSeq).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		}).Error
}

func (s *Store) MarkRetry(ctx context.Context, globalSeq int64, lastError string, nextRetryAt time.Time) error {
	return s.db.DB.WithContext(ctx).Model(&outboxModel{}).
		Where("global_seq = ?", globalSeq).
		Updates(map[string]any{
			"status":        outboxStatusRetry,
			"attempts":      gorm.Expr("attempts + 1"),
			"last_error":    lastError,
			"next_retry_at": nextRetryAt.UTC(),
		}).Error
}

func (s *Store) MoveToDLQ(ctx context.Context, globalSeq int64, lastError, publisherID string) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		var row outboxModel
		if err := tx.WithContext(ctx).Where("global_seq = ?", globalSeq).First(&row).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.WithContext(ctx).Create(&dlqModel{
			GlobalSeq:   globalSeq,
			Envelope:    row.Envelope,
			Error:       lastError,
			PublisherID: publisherID,
			MovedAt:     now,
		}).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).Model(&outboxModel{}).
			Where("global_seq = ?", globalSeq).
			Updates(map[string]any{
				"status":       outboxStatusDLQ,
				"published_at": now,
				"last_error":   lastError,
			}).Error
	})
}

func (s *Store) OutboxLag(ctx context.Context) (int, float64, error) {
	var lagEvents int64
	var minReceived *time.Time

	if err := s.db.DB.WithContext(ctx).Model(&outboxModel{}).
		Where("status = ?", outboxStatusUnpublished).
		Count(&lagEvents).Error; err != nil {
		return 0, 0, err
	}

	err := s.db.DB.WithContext(ctx).Model(&eventLogModel{}).
		Joins("JOIN outbox ON outbox.global_seq = event_log.global_seq").
		Where("outbox.status = ?", outboxStatusUnpublished).
		Select("MIN(event_log.received_at)").
		Scan(&minReceived).Error
	if err != nil {
		return 0, 0, err
	}

	lagSeconds := 0.0
	if minReceived != nil {
		lagSeconds = time.Since(*minReceived).Seconds()
	}
	return int(lagEvents), lagSeconds, nil
}

func (s *Store) ListDLQ(ctx context.Context, limit int) ([]outbox.DLQRow, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	var rows []dlqModel
	if err := s.db.DB.WithContext(ctx).Order("moved_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]outbox.DLQRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, outbox.DLQRow{
			GlobalSeq:   r.GlobalSeq,
			EnvelopeRaw: r.Envelope,
			Error:       r.Error,
			PublisherID: r.PublisherID,
			MovedAt:     r.MovedAt,
		})
	}
	return out, nil
}

// ListEventsSinceAcrossTenants is the administrative bypass used to
// re-deliver events to a projector being rebuilt; it is gated by role at
// the admin handler layer, not by omission of a world context.
func (s *Store) ListEventsSinceAcrossTenants(ctx context.Context, worldID, branch string, fromSeq int64) ([]events.Envelope, error) {
	var rows []eventLogModel
	err := s.db.DB.WithContext(ctx).
		Where("world_id = ? AND branch = ? AND global_seq >= ?", worldID, branch, fromSeq).
		Order("global_seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	items := make([]events.Envelope, 0, len(rows))
	for _, row := range rows {
		env, err := decodeEnvelope(row)
		if err != nil {
			return nil, err
		}
		items = append(items, env)
	}
	return items, nil
}

func decodeEnvelope(row eventLogModel) (events.Envelope, error) {
	var env events.Envelope
	if err := json.Unmarshal(row.Envelope, &env); err != nil {
		return events.Envelope{}, err
	}
	env.GlobalSeq = row.GlobalSeq
	return env, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
