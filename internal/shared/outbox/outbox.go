// Package outbox holds the shared row shape for the transactional outbox
// written alongside every appended event, and the status constants the CDC
// publisher drives it through (unpublished -> published, or
// unpublished -> retry-scheduled -> dlq).
package outbox

import "time"

const (
	StatusUnpublished = "unpublished"
	StatusPublished   = "published"
	StatusRetry       = "retry-scheduled"
	StatusDLQ         = "dlq"
)

// Row is one outbox entry, keyed by the same global_seq as its event log row.
type Row struct {
	GlobalSeq   int64
	WorldID     string
	Branch      string
	Kind        string
	EnvelopeRaw []byte
	PayloadHash string
	Status      string
	PublishedAt *time.Time
	Attempts    int
	LastError   string
	NextRetryAt *time.Time
}

// DLQRow is a row moved to the dead-letter queue, keeping the envelope and
// the error that caused quarantine for manual investigation.
type DLQRow struct {
	GlobalSeq   int64
	EnvelopeRaw []byte
	Error       string
	PublisherID string
	MovedAt     time.Time
}
