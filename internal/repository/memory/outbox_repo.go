package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/jimlawless/whereami"
)

type outboxEntry struct {
	event               domain.OutboxEvent
	processingStartedAt time.Time
}

// OutboxRepo хранит события outbox в памяти в порядке записи.
type OutboxRepo struct {
	mu      sync.Mutex
	entries []*outboxEntry
	nextID  int64
	now     func() time.Time
}

func NewOutboxRepo() *OutboxRepo {
	return &OutboxRepo{nextID: 1, now: time.Now}
}

func (r *OutboxRepo) Create(_ context.Context, event *domain.OutboxEvent) (*domain.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.entries {
		if entry.event.EventID == event.EventID {
			return nil, fmt.Errorf("%s: event with id %s already exists", whereami.WhereAmI(), event.EventID)
		}
	}

	created := *event
	created.ID = r.nextID
	created.Status = domain.OutboxPending
	if created.CreatedAt.IsZero() {
		created.CreatedAt = r.now().UTC()
	}
	r.nextID++
	r.entries = append(r.entries, &outboxEntry{event: created})

	return &created, nil
}

func (r *OutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int, staleAfter time.Duration) ([]*domain.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	res := make([]*domain.OutboxEvent, 0, limit)
	for _, entry := range r.entries {
		if len(res) == limit {
			break
		}

		stale := entry.event.Status == domain.OutboxProcessing && now.Sub(entry.processingStartedAt) > staleAfter
		if entry.event.Status != domain.OutboxPending && !stale {
			continue
		}

		entry.event.Status = domain.OutboxProcessing
		entry.processingStartedAt = now
		event := entry.event
		res = append(res, &event)
	}

	return res, nil
}

// MarkAsProcessed ничего не делает, если событие уже не в processing.
func (r *OutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.find(id)
	if entry == nil || entry.event.Status != domain.OutboxProcessing {
		return nil
	}

	processedAt := r.now().UTC()
	entry.event.Status = domain.OutboxProcessed
	entry.event.ProcessedAt = &processedAt

	return nil
}

func (r *OutboxRepo) MarkAsRetry(_ context.Context, id int64, maxAttempts int, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.find(id)
	if entry == nil || entry.event.Status != domain.OutboxProcessing {
		return nil
	}

	entry.event.Attempts++
	entry.event.LastError = reason
	entry.event.Status = domain.OutboxPending
	if entry.event.Attempts >= maxAttempts {
		entry.event.Status = domain.OutboxFailed
	}

	return nil
}

// List возвращает копии всех событий.
func (r *OutboxRepo) List() []domain.OutboxEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]domain.OutboxEvent, len(r.entries))
	for i, entry := range r.entries {
		res[i] = entry.event
	}

	return res
}

func (r *OutboxRepo) find(id int64) *outboxEntry {
	for _, entry := range r.entries {
		if entry.event.ID == id {
			return entry
		}
	}

	return nil
}
