// Package httpclient implements ports.Subscriber over HTTP, delivering
// claimed outbox rows to a projector's receiver endpoint.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mnemonicnexus/contexts/eventlog/publisher/ports"
)

// wireDelivery is the JSON body sent to the projector, matching the
// publisher-to-projector delivery shape.
type wireDelivery struct {
	GlobalSeq   int64       `json:"global_seq"`
	EventID     string      `json:"event_id"`
	Envelope    interface{} `json:"envelope"`
	PayloadHash string      `json:"payload_hash"`
}

// Client delivers events to a single projector endpoint over HTTP.
type Client struct {
	endpoint    string
	publisherID string
	httpClient  *http.Client
}

// NewClient builds a subscriber for the given projector endpoint.
func NewClient(endpoint, publisherID string, timeout time.Duration) *Client {
	return &Client{
		endpoint:    endpoint,
		publisherID: publisherID,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Endpoint() string { return c.endpoint }

// Deliver POSTs the event to the projector's /events receiver. A 200 or 202
// is success; a 409 is treated as success (the projector already applied
// this global_seq, per the idempotent-redelivery contract); a 400 is a
// structural rejection routed straight to the DLQ; anything else retries.
func (c *Client) Deliver(ctx context.Context, delivery ports.Delivery) error {
	envelope, err := delivery.Envelope.ToWire()
	if err != nil {
		return &ports.SubscriberError{Retryable: false, Err: fmt.Errorf("encode envelope: %w", err)}
	}

	body, err := json.Marshal(wireDelivery{
		GlobalSeq:   delivery.GlobalSeq,
		EventID:     delivery.EventID,
		Envelope:    envelope,
		PayloadHash: delivery.PayloadHash,
	})
	if err != nil {
		return &ports.SubscriberError{Retryable: false, Err: fmt.Errorf("marshal delivery: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/events", bytes.NewReader(body))
	if err != nil {
		return &ports.SubscriberError{Retryable: true, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Publisher-Id", c.publisherID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ports.SubscriberError{Retryable: true, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted || resp.StatusCode == http.StatusConflict:
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		text, _ := io.ReadAll(resp.Body)
		return &ports.SubscriberError{Retryable: false, Err: fmt.Errorf("projector %s rejected event: %s", c.endpoint, string(text))}
	default:
		text, _ := io.ReadAll(resp.Body)
		return &ports.SubscriberError{Retryable: true, Err: fmt.Errorf("projector %s returned %d: %s", c.endpoint, resp.StatusCode, string(text))}
	}
}
