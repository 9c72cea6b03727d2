// Package httpclient implements ports.ProjectorGateway over HTTP against
// each lens's framework-provided /admin/clear and /events endpoints — the
// same receiver surface the CDC publisher delivers to, reused here for
// admin-driven redelivery during a rebuild.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	v1 "mnemonicnexus/contracts/gen/events/v1"
	"mnemonicnexus/internal/shared/events"
)

// ProjectorGateway delivers Clear/Deliver calls to a fixed set of lens base
// URLs (e.g. "relational" -> "http://localhost:8081").
type ProjectorGateway struct {
	endpoints  map[string]string
	httpClient *http.Client
}

func NewProjectorGateway(endpoints map[string]string, timeout time.Duration) *ProjectorGateway {
	return &ProjectorGateway{endpoints: endpoints, httpClient: &http.Client{Timeout: timeout}}
}

func (g *ProjectorGateway) baseURL(lens string) (string, error) {
	base, ok := g.endpoints[lens]
	if !ok {
		return "", fmt.Errorf("no endpoint configured for lens %q", lens)
	}
	return base, nil
}

// Clear calls the lens's /admin/clear endpoint, the same one the projector
// framework exposes for any RebuildableProjector.
func (g *ProjectorGateway) Clear(ctx context.Context, lens, worldID, branch string) error {
	base, err := g.baseURL(lens)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/admin/clear?%s", base, url.Values{
		"world_id": {worldID},
		"branch":   {branch},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("clear %s: status %d: %s", lens, resp.StatusCode, string(text))
	}
	return nil
}

// Deliver redelivers one event to the lens's /events receiver, matching the
// publisher's own wire shape so the receiver's idempotent-apply logic
// treats an admin-driven redelivery exactly like a normal one.
func (g *ProjectorGateway) Deliver(ctx context.Context, lens string, globalSeq int64, envelope events.Envelope) error {
	base, err := g.baseURL(lens)
	if err != nil {
		return err
	}

	wire, err := envelope.ToWire()
	if err != nil {
		return err
	}

	body, err := json.Marshal(v1.Delivery{
		GlobalSeq:   globalSeq,
		EventID:     envelope.EventID,
		Envelope:    wire,
		PayloadHash: envelope.PayloadHash,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/events", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Publisher-Id", "admin-rebuild")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusConflict {
		text, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("deliver to %s: status %d: %s", lens, resp.StatusCode, string(text))
	}
	return nil
}
