// Package postgres implements the semantic projector's Repository on top of
// emo_semantic_current and emo_semantic_history.
package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// floatVector stores an embedding as a JSON array in a single TEXT column.
// No pgvector extension is assumed to be present, so similarity search is an
// external collaborator's concern, not this lens's.
type floatVector []float32

func (v floatVector) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]float32(v))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (v *floatVector) Scan(src any) error {
	if src == nil {
		*v = nil
		return nil
	}
	var raw []byte
	switch t := src.(type) {
	case []byte:
		raw = t
	case string:
		raw = []byte(t)
	default:
		return fmt.Errorf("floatVector: unsupported scan type %T", src)
	}
	if len(raw) == 0 {
		*v = nil
		return nil
	}
	var decoded []float32
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*v = decoded
	return nil
}

type emoCurrentModel struct {
	EMOID          string      `gorm:"column:emo_id;primaryKey"`
	WorldID        string      `gorm:"column:world_id;primaryKey"`
	Branch         string      `gorm:"column:branch;primaryKey"`
	EMOType        string      `gorm:"column:emo_type"`
	EMOVersion     int         `gorm:"column:emo_version"`
	Content        string      `gorm:"column:content"`
	Embedding      floatVector `gorm:"column:embedding"`
	EmbeddingModel string      `gorm:"column:embedding_model"`
	Deleted        bool        `gorm:"column:deleted"`
	DeletedAt      *time.Time  `gorm:"column:deleted_at"`
	DeletionReason string      `gorm:"column:deletion_reason"`
	UpdatedAt      time.Time   `gorm:"column:updated_at"`
}

func (emoCurrentModel) TableName() string { return "emo_semantic_current" }

type emoHistoryModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EMOID      string    `gorm:"column:emo_id"`
	WorldID    string    `gorm:"column:world_id"`
	Branch     string    `gorm:"column:branch"`
	EMOVersion int       `gorm:"column:emo_version"`
	Operation  string    `gorm:"column:operation"`
	RecordedAt time.Time `gorm:"column:recorded_at"`
}

func (emoHistoryModel) TableName() string { return "emo_semantic_history" }
