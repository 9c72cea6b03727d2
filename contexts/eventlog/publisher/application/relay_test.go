package application

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"mnemonicnexus/contexts/eventlog/publisher/ports"
	"mnemonicnexus/internal/shared/events"
	"mnemonicnexus/internal/shared/outbox"
)

type fakeStore struct {
	mu        sync.Mutex
	batch     []outbox.Row
	published []int64
	retried   []int64
	dlqed     []int64
}

func (f *fakeStore) ClaimOutboxBatch(ctx context.Context, limit int) ([]outbox.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.batch
	f.batch = nil
	return out, nil
}

func (f *fakeStore) MarkPublished(ctx context.Context, globalSeq int64, publishedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, globalSeq)
	return nil
}

func (f *fakeStore) MarkRetry(ctx context.Context, globalSeq int64, lastError string, nextRetryAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retried = append(f.retried, globalSeq)
	return nil
}

func (f *fakeStore) MoveToDLQ(ctx context.Context, globalSeq int64, lastError, publisherID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dlqed = append(f.dlqed, globalSeq)
	return nil
}

type fakeSubscriber struct {
	endpoint string
	err      error
}

func (f *fakeSubscriber) Endpoint() string { return f.endpoint }

func (f *fakeSubscriber) Deliver(ctx context.Context, delivery ports.Delivery) error {
	return f.err
}

func mustRow(t *testing.T, globalSeq int64, attempts int) outbox.Row {
	t.Helper()
	raw, err := json.Marshal(events.Envelope{
		EventID:   "event-1",
		GlobalSeq: globalSeq,
		WorldID:   "world-1",
		Branch:    "main",
		Kind:      "memory.created",
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return outbox.Row{GlobalSeq: globalSeq, EnvelopeRaw: raw, Attempts: attempts}
}

func TestRunOnceMarksPublishedWhenAllSubscribersAccept(t *testing.T) {
	store := &fakeStore{batch: []outbox.Row{mustRow(t, 1, 0)}}
	relay := Relay{
		Store:       store,
		Subscribers: []ports.Subscriber{&fakeSubscriber{endpoint: "a"}, &fakeSubscriber{endpoint: "b"}},
		RetryPolicy: DefaultRetryPolicy(),
		PublisherID: "pub-1",
	}

	claimed, err := relay.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claimed != 1 {
		t.Fatalf("expected 1 claimed row, got %d", claimed)
	}
	if len(store.published) != 1 || store.published[0] != 1 {
		t.Fatalf("expected row 1 to be marked published, got %+v", store.published)
	}
}

func TestRunOnceMovesStructuralRejectionDirectlyToDLQ(t *testing.T) {
	store := &fakeStore{batch: []outbox.Row{mustRow(t, 2, 0)}}
	relay := Relay{
		Store: store,
		Subscribers: []ports.Subscriber{
			&fakeSubscriber{endpoint: "a", err: &ports.SubscriberError{Retryable: false, Err: errTest("bad request")}},
		},
		RetryPolicy: DefaultRetryPolicy(),
		PublisherID: "pub-1",
	}

	if _, err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected RunOnce to report the delivery failure")
	}
	if len(store.dlqed) != 1 || store.dlqed[0] != 2 {
		t.Fatalf("expected row 2 to be moved to dlq, got %+v", store.dlqed)
	}
	if len(store.retried) != 0 {
		t.Fatalf("expected no retry scheduling for a structural rejection")
	}
}

func TestRunOnceSchedulesRetryForTransientFailure(t *testing.T) {
	store := &fakeStore{batch: []outbox.Row{mustRow(t, 3, 0)}}
	relay := Relay{
		Store: store,
		Subscribers: []ports.Subscriber{
			&fakeSubscriber{endpoint: "a", err: &ports.SubscriberError{Retryable: true, Err: errTest("timeout")}},
		},
		RetryPolicy: RetryPolicy{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: time.Minute},
		PublisherID: "pub-1",
	}

	if _, err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected RunOnce to report the delivery failure")
	}
	if len(store.retried) != 1 || store.retried[0] != 3 {
		t.Fatalf("expected row 3 to be scheduled for retry, got %+v", store.retried)
	}
}

func TestRunOnceMovesExhaustedRetriesToDLQ(t *testing.T) {
	store := &fakeStore{batch: []outbox.Row{mustRow(t, 4, 9)}}
	relay := Relay{
		Store: store,
		Subscribers: []ports.Subscriber{
			&fakeSubscriber{endpoint: "a", err: &ports.SubscriberError{Retryable: true, Err: errTest("timeout")}},
		},
		RetryPolicy: RetryPolicy{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: time.Minute},
		PublisherID: "pub-1",
	}

	if _, err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected RunOnce to report the delivery failure")
	}
	if len(store.dlqed) != 1 || store.dlqed[0] != 4 {
		t.Fatalf("expected row 4 (attempt 10) to exhaust retries into dlq, got %+v", store.dlqed)
	}
}

func TestFanOutCancelsRemainingWorkOnFirstError(t *testing.T) {
	err := fanOut(context.Background(), 5, func(ctx context.Context, i int) error {
		if i == 0 {
			return errTest("boom")
		}
		<-ctx.Done()
		return ctx.Err()
	})
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected fanOut to surface the first error, got %v", err)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
