// Package postgres implements the relational projector's Repository on top
// of emo_current, emo_history, and emo_links.
package postgres

import "time"

type emoCurrentModel struct {
	EMOID          string     `gorm:"column:emo_id;primaryKey"`
	WorldID        string     `gorm:"column:world_id;primaryKey"`
	Branch         string     `gorm:"column:branch;primaryKey"`
	EMOType        string     `gorm:"column:emo_type"`
	EMOVersion     int        `gorm:"column:emo_version"`
	TenantID       string     `gorm:"column:tenant_id"`
	Content        string     `gorm:"column:content"`
	Tags           string     `gorm:"column:tags"`
	MimeType       string     `gorm:"column:mime_type"`
	SourceKind     string     `gorm:"column:source_kind"`
	SourceURI      string     `gorm:"column:source_uri"`
	Deleted        bool       `gorm:"column:deleted"`
	DeletedAt      *time.Time `gorm:"column:deleted_at"`
	DeletionReason string     `gorm:"column:deletion_reason"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (emoCurrentModel) TableName() string { return "emo_current" }

type emoHistoryModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EMOID       string    `gorm:"column:emo_id"`
	WorldID     string    `gorm:"column:world_id"`
	Branch      string    `gorm:"column:branch"`
	EMOVersion  int       `gorm:"column:emo_version"`
	Operation   string    `gorm:"column:operation"`
	ContentHash string    `gorm:"column:content_hash"`
	RecordedAt  time.Time `gorm:"column:recorded_at"`
}

func (emoHistoryModel) TableName() string { return "emo_history" }

type emoLinkModel struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement"`
	EMOID   string `gorm:"column:emo_id"`
	WorldID string `gorm:"column:world_id"`
	Branch  string `gorm:"column:branch"`
	Kind    string `gorm:"column:kind"`
	Ref     string `gorm:"column:ref"`
	Rel     string `gorm:"column:rel"`
	IsLink  bool   `gorm:"column:is_link"`
}

func (emoLinkModel) TableName() string { return "emo_links" }
