package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"mnemonicnexus/internal/platform/db"
)

type tenancyProbeModel struct {
	GlobalSeq      int64     `gorm:"column:global_seq"`
	EventID        string    `gorm:"column:event_id"`
	WorldID        string    `gorm:"column:world_id"`
	Branch         string    `gorm:"column:branch"`
	Kind           string    `gorm:"column:kind"`
	Envelope       []byte    `gorm:"column:envelope"`
	ReceivedAt     time.Time `gorm:"column:received_at"`
	PayloadHash    string    `gorm:"column:payload_hash"`
	IdempotencyKey string    `gorm:"column:idempotency_key"`
}

func (tenancyProbeModel) TableName() string { return "event_log" }

// TenancyProbe implements ports.TenancyProbe by writing a disposable row
// into the shared event log under one session world context, then
// attempting to read it back under another — the same mechanism
// TenancyManager.set_world_context / TenancyValidator.test_isolation used,
// expressed here against the app.world_id session GUC. event_log has no row
// security policy, so ReadProbe applies the GUC filter in its own query.
type TenancyProbe struct {
	db *db.Postgres
}

func NewTenancyProbe(pg *db.Postgres) *TenancyProbe { return &TenancyProbe{db: pg} }

func (p *TenancyProbe) WriteProbe(ctx context.Context, worldID, probeID string) error {
	return p.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := db.SetWorldContext(ctx, tx, worldID); err != nil {
			return err
		}
		return tx.Exec(`
			INSERT INTO event_log (global_seq, event_id, world_id, branch, kind, envelope, received_at, payload_hash, idempotency_key)
			VALUES (nextval('global_seq_seq'), ?, ?, 'main', 'admin.tenancy.selftest', '{}', ?, '', '')
		`, probeID, worldID, time.Now().UTC()).Error
	})
}

// ReadProbe sets the session's app.world_id GUC to sessionWorldID and reads
// the probe back filtered by that same GUC rather than by a literal
// parameter, simulating exactly what a row-security policy referencing
// app.world_id would enforce.
func (p *TenancyProbe) ReadProbe(ctx context.Context, sessionWorldID, probeID string) (bool, error) {
	found := false
	err := p.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := db.SetWorldContext(ctx, tx, sessionWorldID); err != nil {
			return err
		}
		var row tenancyProbeModel
		err := tx.Raw(`
			SELECT event_id FROM event_log
			WHERE event_id = ? AND world_id = current_setting('app.world_id', true)
		`, probeID).Scan(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = row.EventID != ""
		return nil
	})
	return found, err
}

func (p *TenancyProbe) DeleteProbe(ctx context.Context, worldID, probeID string) error {
	return p.db.DB.WithContext(ctx).
		Where("event_id = ? AND world_id = ?", probeID, worldID).
		Delete(&tenancyProbeModel{}).Error
}
