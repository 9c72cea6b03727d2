// Package httptransport holds the admin surface's wire request/response
// shapes, mirroring original_source/services/gateway/admin.py's pydantic
// models one for one.
package httptransport

import "time"

// RebuildRequest is the body for POST /v1/admin/projectors/{lens}/rebuild.
type RebuildRequest struct {
	WorldID        string `json:"world_id"`
	Branch         string `json:"branch"`
	FromGlobalSeq  int64  `json:"from_global_seq"`
	ClearExisting  bool   `json:"clear_existing"`
}

// RebuildResponse acknowledges an accepted rebuild job.
type RebuildResponse struct {
	RebuildJobID    string `json:"rebuild_job_id"`
	EstimatedEvents int    `json:"estimated_events"`
	Status          string `json:"status"`
	Projector       string `json:"projector"`
	WorldID         string `json:"world_id"`
	Branch          string `json:"branch"`
}

// ProjectorStatusDTO is one row of GET /v1/admin/projectors.
type ProjectorStatusDTO struct {
	Name             string  `json:"name"`
	WorldID          string  `json:"world_id"`
	Branch           string  `json:"branch"`
	LastProcessedSeq int64   `json:"last_processed_seq"`
	LagEvents        int     `json:"lag_events"`
	LagSeconds       float64 `json:"lag_seconds"`
}

// ListProjectorsResponse is the body for GET /v1/admin/projectors.
type ListProjectorsResponse struct {
	Projectors []ProjectorStatusDTO `json:"projectors"`
	TotalCount int                  `json:"total_count"`
}

// HealthResponse is the body for GET /v1/admin/health.
type HealthResponse struct {
	Status     string               `json:"status"`
	DBVersion  string               `json:"db_version"`
	Extensions map[string]bool      `json:"extensions"`
	Projectors []ProjectorStatusDTO `json:"projectors"`
	CheckedAt  time.Time            `json:"checked_at"`
}

// TenancySelfTestResponse is the body for GET /v1/admin/tenancy/selftest.
type TenancySelfTestResponse struct {
	IsolationStatus   string `json:"isolation_status"`
	WorldAWriteOK     bool   `json:"world_a_write_ok"`
	WorldBCrossAccess bool   `json:"world_b_cross_access"`
	Error             string `json:"error,omitempty"`
}

// RefreshViewRequest is the body for POST /v1/admin/mv/refresh.
type RefreshViewRequest struct {
	MVName  string `json:"mv_name"`
	WorldID string `json:"world_id,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

// RefreshViewResponse is the body returned after a refresh.
type RefreshViewResponse struct {
	Status      string    `json:"status"`
	MVName      string    `json:"mv_name"`
	Size        string    `json:"size"`
	RefreshedAt time.Time `json:"refreshed_at"`
}
