// Package httpadapter exposes the gateway's append/list/get operations over
// HTTP, translating between the wire DTOs and the application layer's
// commands/queries.
package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	httpSwagger "github.com/swaggo/http-swagger"

	application "mnemonicnexus/contexts/eventlog/gateway/application"
	"mnemonicnexus/contexts/eventlog/gateway/application/commands"
	"mnemonicnexus/contexts/eventlog/gateway/application/queries"
	_ "mnemonicnexus/contexts/eventlog/gateway/docs"
	domainerrors "mnemonicnexus/contexts/eventlog/gateway/domain/errors"
	httptransport "mnemonicnexus/contexts/eventlog/gateway/transport/http"
	"mnemonicnexus/internal/platform/httpapi"
	"mnemonicnexus/internal/shared/events"
)

// Handler holds the gateway's use cases and exposes net/http handlers for
// them. Routes are registered by NewMux using Go 1.22+ pattern syntax.
type Handler struct {
	AppendEvent commands.AppendEventUseCase
	ListEvents  queries.ListEventsUseCase
	GetEvent    queries.GetEventUseCase
	Logger      *slog.Logger
}

// NewMux registers the gateway's HTTP surface on a fresh ServeMux. When
// swaggerEnabled is set it also mounts the OpenAPI UI under /swagger/.
func NewMux(h Handler, swaggerEnabled bool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /events", h.handleAppendEvent)
	mux.HandleFunc("GET /events", h.handleListEvents)
	mux.HandleFunc("GET /events/{event_id}", h.handleGetEvent)
	if swaggerEnabled {
		mux.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}
	return mux
}

// @Summary Append an event to the log
// @Accept json
// @Produce json
// @Param request body httptransport.AppendEventRequest true "event envelope"
// @Success 201 {object} httptransport.AppendEventResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /events [post]
func (h Handler) handleAppendEvent(w http.ResponseWriter, r *http.Request) {
	logger := application.ResolveLogger(h.Logger)
	correlationHeader := r.Header.Get("correlation-id")

	var req httptransport.AppendEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httpapi.WriteError(w, http.StatusBadRequest, "validation_error", "request body must be valid JSON", correlationHeader)
		return
	}

	idempotencyHeader, present := r.Header["Idempotency-Key"]
	var idempotencyKey string
	if present {
		key, err := parseIdempotencyHeader(idempotencyHeader)
		if err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, "validation_error", err.Error(), correlationHeader)
			return
		}
		idempotencyKey = key
	}

	result, err := h.AppendEvent.Execute(r.Context(), commands.AppendEventCommand{
		WorldID:        req.WorldID,
		Branch:         req.Branch,
		Kind:           req.Kind,
		Payload:        req.Payload,
		AgentBy:        req.By.Agent,
		OccurredAt:     req.OccurredAt,
		CausationID:    req.CausationID,
		Version:        req.Version,
		IdempotencyKey: idempotencyKey,
		CorrelationID:  correlationHeader,
	})
	if err != nil {
		writeGatewayError(w, err, correlationHeader)
		return
	}

	if result.Replayed {
		httpapi.WriteError(w, http.StatusConflict, "idempotency_conflict",
			"an event already exists for this idempotency key", result.CorrelationID)
		return
	}

	logger.Debug("append event responded",
		"event", "gateway_append_responded",
		"module", "eventlog/gateway",
		"layer", "adapters/http",
		"event_id", result.Event.EventID,
	)
	httpapi.WriteJSON(w, http.StatusCreated, httptransport.AppendEventResponse{
		EventID:       result.Event.EventID,
		GlobalSeq:     result.Event.GlobalSeq,
		ReceivedAt:    result.Event.ReceivedAt,
		CorrelationID: result.CorrelationID,
	})
}

// @Summary List events for a tenant/branch
// @Produce json
// @Param world_id query string true "tenant id"
// @Param branch query string true "branch name"
// @Param kind query string false "event kind filter"
// @Param after_global_seq query int false "cursor"
// @Param limit query int false "page size, max 1000"
// @Success 200 {object} httptransport.ListEventsResponse
// @Router /events [get]
func (h Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	correlationHeader := r.Header.Get("correlation-id")
	q := r.URL.Query()

	afterGlobalSeq, _ := strconv.ParseInt(q.Get("after_global_seq"), 10, 64)
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.ListEvents.Execute(r.Context(), queries.ListEventsQuery{
		WorldID:        q.Get("world_id"),
		Branch:         q.Get("branch"),
		Kind:           q.Get("kind"),
		AfterGlobalSeq: afterGlobalSeq,
		Limit:          limit,
	})
	if err != nil {
		writeGatewayError(w, err, correlationHeader)
		return
	}

	items := make([]httptransport.EventDTO, 0, len(result.Items))
	for _, env := range result.Items {
		items = append(items, toEventDTO(env))
	}
	httpapi.WriteJSON(w, http.StatusOK, httptransport.ListEventsResponse{
		Items:              items,
		NextAfterGlobalSeq: result.NextAfterGlobalSeq,
		HasMore:            result.HasMore,
	})
}

// @Summary Fetch a single event by id
// @Produce json
// @Param event_id path string true "event id"
// @Param world_id query string true "tenant id"
// @Success 200 {object} httptransport.EventDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /events/{event_id} [get]
func (h Handler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	correlationHeader := r.Header.Get("correlation-id")

	env, err := h.GetEvent.Execute(r.Context(), queries.GetEventQuery{
		WorldID: r.URL.Query().Get("world_id"),
		EventID: r.PathValue("event_id"),
	})
	if err != nil {
		writeGatewayError(w, err, correlationHeader)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toEventDTO(env))
}

func toEventDTO(env events.Envelope) httptransport.EventDTO {
	return httptransport.EventDTO{
		EventID:     env.EventID,
		GlobalSeq:   env.GlobalSeq,
		WorldID:     env.WorldID,
		Branch:      env.Branch,
		Kind:        env.Kind,
		Payload:     env.Payload,
		By:          httptransport.ActorDTO{Agent: env.By.Agent},
		OccurredAt:  env.OccurredAt,
		ReceivedAt:  env.ReceivedAt,
		CausationID: env.CausationID,
		Version:     env.Version,
		PayloadHash: env.PayloadHash,
	}
}

func parseIdempotencyHeader(values []string) (string, error) {
	if len(values) == 0 || values[0] == "" {
		return "", errors.New("idempotency-key header must not be empty when present")
	}
	return values[0], nil
}

func writeGatewayError(w http.ResponseWriter, err error, correlationID string) {
	switch {
	case errors.Is(err, domainerrors.ErrValidation):
		httpapi.WriteError(w, http.StatusBadRequest, "validation_error", err.Error(), correlationID)
	case errors.Is(err, domainerrors.ErrIdempotencyConflict):
		httpapi.WriteError(w, http.StatusConflict, "idempotency_conflict", err.Error(), correlationID)
	case errors.Is(err, domainerrors.ErrNotFound):
		httpapi.WriteError(w, http.StatusNotFound, "not_found", err.Error(), correlationID)
	case errors.Is(err, domainerrors.ErrInternal):
		httpapi.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error", correlationID)
	default:
		httpapi.WriteError(w, http.StatusBadRequest, "validation_error", err.Error(), correlationID)
	}
}
