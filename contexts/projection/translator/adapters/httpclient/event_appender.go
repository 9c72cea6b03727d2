// Package httpclient appends translated emo.* events to the gateway's
// public write surface over HTTP, the same way any other event producer
// would — the translator has no privileged path into the log store.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mnemonicnexus/internal/shared/events"
)

type wireActor struct {
	Agent string `json:"agent"`
}

type wireAppendRequest struct {
	WorldID     string         `json:"world_id"`
	Branch      string         `json:"branch"`
	Kind        string         `json:"kind"`
	Payload     map[string]any `json:"payload"`
	By          wireActor      `json:"by"`
	OccurredAt  string         `json:"occurred_at,omitempty"`
	CausationID string         `json:"causation_id,omitempty"`
	Version     int            `json:"version,omitempty"`
}

// Client posts translated events to the gateway's POST /events endpoint.
type Client struct {
	gatewayURL string
	httpClient *http.Client
}

func NewClient(gatewayURL string, timeout time.Duration) *Client {
	return &Client{gatewayURL: gatewayURL, httpClient: &http.Client{Timeout: timeout}}
}

// AppendEvent implements ports.EventAppender.
func (c *Client) AppendEvent(ctx context.Context, envelope events.Envelope) error {
	body := wireAppendRequest{
		WorldID:     envelope.WorldID,
		Branch:      envelope.Branch,
		Kind:        envelope.Kind,
		Payload:     envelope.Payload,
		By:          wireActor{Agent: envelope.By.Agent},
		CausationID: envelope.CausationID,
		Version:     envelope.Version,
	}
	if envelope.OccurredAt != nil {
		body.OccurredAt = envelope.OccurredAt.UTC().Format(time.RFC3339)
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/events", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if envelope.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", envelope.IdempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("gateway append: unexpected status %d", resp.StatusCode)
	}
	return nil
}
