// Package httpadapter exposes any wrapped Projector as an HTTP receiver:
// the endpoint the CDC publisher and the admin rebuild flow both deliver to.
package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	application "mnemonicnexus/contexts/projection/framework/application"
	"mnemonicnexus/contexts/projection/framework/ports"
	"mnemonicnexus/internal/platform/httpapi"
	"mnemonicnexus/internal/shared/events"
	v1 "mnemonicnexus/contracts/gen/events/v1"
)

// deliveryBody mirrors the publisher's wire delivery shape.
type deliveryBody struct {
	GlobalSeq   int64       `json:"global_seq"`
	EventID     string      `json:"event_id"`
	Envelope    v1.Envelope `json:"envelope"`
	PayloadHash string      `json:"payload_hash"`
}

// Handler wraps a single Receiver as an HTTP endpoint.
type Handler struct {
	Receiver  application.Receiver
	Projector ports.Projector
	Logger    *slog.Logger
}

// NewMux registers the receiver's /events endpoint and, when the wrapped
// projector is rebuildable, an internal /admin/clear endpoint.
func NewMux(h Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /events", h.handleReceive)
	if _, ok := h.Projector.(ports.RebuildableProjector); ok {
		mux.HandleFunc("POST /admin/clear", h.handleClear)
	}
	mux.HandleFunc("GET /snapshot", h.handleSnapshot)
	return mux
}

// handleReceive implements the shared reception state machine's HTTP face:
// 200 on success, 400 on structural rejection (hash mismatch), 500 retryable.
func (h Handler) handleReceive(w http.ResponseWriter, r *http.Request) {
	logger := application.ResolveLogger(h.Logger)

	var body deliveryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", "")
		return
	}

	envelope, err := events.FromWire(body.Envelope)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid_envelope", err.Error(), "")
		return
	}
	envelope.PayloadHash = body.PayloadHash

	if err := h.Receiver.Receive(r.Context(), envelope, body.GlobalSeq); err != nil {
		if errors.Is(err, application.ErrHashMismatch) {
			httpapi.WriteError(w, http.StatusBadRequest, "hash_mismatch", err.Error(), "")
			return
		}
		logger.Error("projector receive failed",
			"event", "projector_http_receive_failed",
			"module", "projection/framework",
			"layer", "adapters/http",
			"projector", h.Projector.Name(),
			"global_seq", body.GlobalSeq,
			"error", err.Error(),
		)
		httpapi.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error", "")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	rebuildable, ok := h.Projector.(ports.RebuildableProjector)
	if !ok {
		httpapi.WriteError(w, http.StatusNotImplemented, "not_rebuildable", "projector does not support clearing state", "")
		return
	}
	worldID := r.URL.Query().Get("world_id")
	branch := r.URL.Query().Get("branch")

	if err := rebuildable.ClearState(r.Context(), worldID, branch); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), "")
		return
	}
	if err := h.Receiver.Watermarks.ClearWatermark(r.Context(), h.Projector.Name(), worldID, branch); err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), "")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	worldID := r.URL.Query().Get("world_id")
	branch := r.URL.Query().Get("branch")

	snapshot, err := h.Projector.Snapshot(r.Context(), worldID, branch)
	if err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), "")
		return
	}
	hash, err := application.SnapshotHash(snapshot)
	if err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), "")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"snapshot": snapshot, "hash": hash})
}
