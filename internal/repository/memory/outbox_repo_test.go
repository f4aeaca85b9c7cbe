package memory

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/domain"
)

func outboxEvent(id string, productID int64) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		EventID:   id,
		EventType: domain.ProductCreated,
		ProductID: productID,
		Payload:   []byte(id),
	}
}

func TestOutboxCreateRejectsDuplicateEventID(t *testing.T) {
	r := NewOutboxRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, outboxEvent("evt-1", 1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 1 || created.Status != domain.OutboxPending || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected event: %+v", created)
	}
	if _, err := r.Create(ctx, outboxEvent("evt-1", 1)); err == nil {
		t.Fatal("expected duplicate event id error")
	}
}

func TestOutboxBatchesInWriteOrder(t *testing.T) {
	r := NewOutboxRepo()
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		_, _ = r.Create(ctx, outboxEvent(id, int64(i+1)))
	}

	batch, _ := r.GetAndMarkAsProcessing(ctx, 2, time.Minute)
	if len(batch) != 2 || batch[0].EventID != "a" || batch[1].EventID != "b" {
		t.Fatalf("unexpected first batch: %+v", batch)
	}

	batch, _ = r.GetAndMarkAsProcessing(ctx, 2, time.Minute)
	if len(batch) != 1 || batch[0].EventID != "c" {
		t.Fatalf("events in processing must not be taken twice: %+v", batch)
	}

	if err := r.MarkAsProcessed(ctx, batch[0].ID); err != nil {
		t.Fatalf("MarkAsProcessed: %v", err)
	}
	events := r.List()
	if events[2].Status != domain.OutboxProcessed || events[2].ProcessedAt == nil {
		t.Fatalf("unexpected processed event: %+v", events[2])
	}
}

func TestOutboxRetryUntilFailed(t *testing.T) {
	r := NewOutboxRepo()
	ctx := context.Background()
	_, _ = r.Create(ctx, outboxEvent("evt", 7))

	for attempt := 1; attempt <= 3; attempt++ {
		batch, _ := r.GetAndMarkAsProcessing(ctx, 10, time.Minute)
		if len(batch) != 1 {
			t.Fatalf("attempt %d: event must be pending again, got %d events", attempt, len(batch))
		}
		if err := r.MarkAsRetry(ctx, batch[0].ID, 3, "broker down"); err != nil {
			t.Fatalf("MarkAsRetry: %v", err)
		}
	}

	got := r.List()[0]
	if got.Status != domain.OutboxFailed || got.Attempts != 3 || got.LastError != "broker down" {
		t.Fatalf("unexpected event after retries: %+v", got)
	}
	if batch, _ := r.GetAndMarkAsProcessing(ctx, 10, time.Minute); len(batch) != 0 {
		t.Fatalf("failed events must not be picked up: %+v", batch)
	}
}

func TestOutboxPicksUpStaleProcessing(t *testing.T) {
	r := NewOutboxRepo()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	_, _ = r.Create(ctx, outboxEvent("evt", 1))
	if batch, _ := r.GetAndMarkAsProcessing(ctx, 10, time.Minute); len(batch) != 1 {
		t.Fatalf("expected one event, got %d", len(batch))
	}

	now = now.Add(30 * time.Second)
	if batch, _ := r.GetAndMarkAsProcessing(ctx, 10, time.Minute); len(batch) != 0 {
		t.Fatalf("fresh processing event must stay locked: %+v", batch)
	}

	now = now.Add(time.Minute)
	if batch, _ := r.GetAndMarkAsProcessing(ctx, 10, time.Minute); len(batch) != 1 {
		t.Fatalf("stale processing event must be picked up again, got %d", len(batch))
	}
}
