// Package postgres implements the graph projector's Repository on top of
// graph_node and graph_edge.
package postgres

import "time"

type graphNodeModel struct {
	EMOID      string     `gorm:"column:emo_id;primaryKey"`
	WorldID    string     `gorm:"column:world_id;primaryKey"`
	Branch     string     `gorm:"column:branch;primaryKey"`
	EMOType    string     `gorm:"column:emo_type"`
	EMOVersion int        `gorm:"column:emo_version"`
	Deleted    bool       `gorm:"column:deleted"`
	DeletedAt  *time.Time `gorm:"column:deleted_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (graphNodeModel) TableName() string { return "graph_node" }

type graphEdgeModel struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	FromEMOID string `gorm:"column:from_emo_id"`
	WorldID   string `gorm:"column:world_id"`
	Branch    string `gorm:"column:branch"`
	Kind      string `gorm:"column:kind"`
	Rel       string `gorm:"column:rel"`
	ToRef     string `gorm:"column:to_ref"`
}

func (graphEdgeModel) TableName() string { return "graph_edge" }
