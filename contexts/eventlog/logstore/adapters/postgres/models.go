package postgresadapter

import (
	"encoding/json"
	"time"
)

// eventLogModel is the append-only log row. global_seq is assigned from the
// global_seq_seq sequence by the repository, never by the database's own
// identity/serial mechanism, so the gateway and the log share one
// generator.
type eventLogModel struct {
	GlobalSeq      int64           `gorm:"column:global_seq;primaryKey"`
	EventID        string          `gorm:"column:event_id;uniqueIndex"`
	WorldID        string          `gorm:"column:world_id;index:idx_eventlog_world_branch"`
	Branch         string          `gorm:"column:branch;index:idx_eventlog_world_branch"`
	Kind           string          `gorm:"column:kind"`
	Envelope       json.RawMessage `gorm:"column:envelope;type:jsonb"`
	OccurredAt     *time.Time      `gorm:"column:occurred_at"`
	ReceivedAt     time.Time       `gorm:"column:received_at"`
	PayloadHash    string          `gorm:"column:payload_hash"`
	IdempotencyKey string          `gorm:"column:idempotency_key;uniqueIndex:ux_eventlog_idem,where:idempotency_key <> ''"`
}

func (eventLogModel) TableName() string { return "event_log" }

const (
	outboxStatusUnpublished = "unpublished"
	outboxStatusPublished   = "published"
	outboxStatusRetry       = "retry-scheduled"
	outboxStatusDLQ         = "dlq"
)

type outboxModel struct {
	GlobalSeq   int64           `gorm:"column:global_seq;primaryKey"`
	WorldID     string          `gorm:"column:world_id"`
	Branch      string          `gorm:"column:branch"`
	Kind        string          `gorm:"column:kind"`
	Envelope    json.RawMessage `gorm:"column:envelope;type:jsonb"`
	PayloadHash string          `gorm:"column:payload_hash"`
	Status      string          `gorm:"column:status;index:idx_outbox_claim"`
	PublishedAt *time.Time      `gorm:"column:published_at"`
	Attempts    int             `gorm:"column:attempts"`
	LastError   string          `gorm:"column:last_error"`
	NextRetryAt *time.Time      `gorm:"column:next_retry_at;index:idx_outbox_claim"`
}

func (outboxModel) TableName() string { return "outbox" }

type dlqModel struct {
	GlobalSeq   int64           `gorm:"column:global_seq;primaryKey"`
	Envelope    json.RawMessage `gorm:"column:envelope;type:jsonb"`
	Error       string          `gorm:"column:error"`
	PublisherID string          `gorm:"column:publisher_id"`
	MovedAt     time.Time       `gorm:"column:moved_at"`
}

func (dlqModel) TableName() string { return "event_dlq" }
