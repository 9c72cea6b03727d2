// Package httpadapter exposes the admin surface's operations over HTTP,
// mirroring original_source/services/gateway/admin.py's admin_router one
// route at a time.
package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"mnemonicnexus/contexts/admin/opsconsole/application"
	"mnemonicnexus/contexts/admin/opsconsole/domain/entities"
	domainerrors "mnemonicnexus/contexts/admin/opsconsole/domain/errors"
	httptransport "mnemonicnexus/contexts/admin/opsconsole/transport"
	"mnemonicnexus/internal/platform/httpapi"
)

// Handler holds the admin surface's wired services.
type Handler struct {
	Rebuild application.RebuildService
	Views   application.ViewService
	Tenancy application.TenancyService
	Status  application.StatusService
	Health  application.HealthService
	Logger  *slog.Logger
}

// NewMux registers the admin surface under /v1/admin.
func NewMux(h Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/admin/health", h.handleHealth)
	mux.HandleFunc("POST /v1/admin/projectors/{lens}/rebuild", h.handleRebuild)
	mux.HandleFunc("GET /v1/admin/tenancy/selftest", h.handleTenancySelfTest)
	mux.HandleFunc("POST /v1/admin/mv/refresh", h.handleRefreshView)
	mux.HandleFunc("GET /v1/admin/projectors", h.handleListProjectors)
	return mux
}

func (h Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := h.Health.Check(r.Context())
	httpapi.WriteJSON(w, http.StatusOK, httptransport.HealthResponse{
		Status:     report.Status,
		DBVersion:  report.DBVersion,
		Extensions: report.Extensions,
		Projectors: toProjectorDTOs(report.Projectors),
		CheckedAt:  report.CheckedAt,
	})
}

func (h Handler) handleRebuild(w http.ResponseWriter, r *http.Request) {
	lens := r.PathValue("lens")

	var req httptransport.RebuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httpapi.WriteError(w, http.StatusBadRequest, "validation_error", "request body must be valid JSON", "")
		return
	}

	result, err := h.Rebuild.Execute(r.Context(), application.RebuildCommand{
		Lens:          lens,
		WorldID:       req.WorldID,
		Branch:        req.Branch,
		FromGlobalSeq: req.FromGlobalSeq,
		ClearExisting: req.ClearExisting,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrUnknownLens) {
			httpapi.WriteError(w, http.StatusBadRequest, "validation_error", err.Error(), "")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), "")
		return
	}

	httpapi.WriteJSON(w, http.StatusAccepted, httptransport.RebuildResponse{
		RebuildJobID:    result.JobID,
		EstimatedEvents: result.EstimatedEvents,
		Status:          result.Status,
		Projector:       result.Projector,
		WorldID:         req.WorldID,
		Branch:          req.Branch,
	})
}

func (h Handler) handleTenancySelfTest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	worldA, worldB := q.Get("world_id_1"), q.Get("world_id_2")
	if worldA == "" || worldB == "" {
		httpapi.WriteError(w, http.StatusBadRequest, "validation_error", "world_id_1 and world_id_2 are required", "")
		return
	}

	result := h.Tenancy.SelfTest(r.Context(), worldA, worldB)
	status := "pass"
	if !result.IsolationWorking {
		status = "fail"
	}
	httpapi.WriteJSON(w, http.StatusOK, httptransport.TenancySelfTestResponse{
		IsolationStatus:   status,
		WorldAWriteOK:     result.WorldAWriteOK,
		WorldBCrossAccess: result.WorldBCrossAccess,
		Error:             result.Error,
	})
}

func (h Handler) handleRefreshView(w http.ResponseWriter, r *http.Request) {
	var req httptransport.RefreshViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httpapi.WriteError(w, http.StatusBadRequest, "validation_error", "request body must be valid JSON", "")
		return
	}

	result, err := h.Views.Refresh(r.Context(), application.RefreshViewCommand{
		ViewName: req.MVName,
		WorldID:  req.WorldID,
		Branch:   req.Branch,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrUnknownMaterializedView) {
			httpapi.WriteError(w, http.StatusBadRequest, "validation_error", err.Error(), "")
			return
		}
		httpapi.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), "")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, httptransport.RefreshViewResponse{
		Status:      "success",
		MVName:      result.ViewName,
		Size:        result.SizePretty,
		RefreshedAt: result.RefreshedAt,
	})
}

func (h Handler) handleListProjectors(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.Status.List(r.Context())
	if err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), "")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, httptransport.ListProjectorsResponse{
		Projectors: toProjectorDTOs(statuses),
		TotalCount: len(statuses),
	})
}

func toProjectorDTOs(rows []entities.ProjectorStatus) []httptransport.ProjectorStatusDTO {
	out := make([]httptransport.ProjectorStatusDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, httptransport.ProjectorStatusDTO{
			Name:             row.Name,
			WorldID:          row.WorldID,
			Branch:           row.Branch,
			LastProcessedSeq: row.LastProcessedSeq,
			LagEvents:        row.LagEvents,
			LagSeconds:       row.LagSeconds,
		})
	}
	return out
}
