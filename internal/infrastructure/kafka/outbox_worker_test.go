package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/cfg"
	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/internal/repository/memory"
	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// rawProducer записывает отправленные сообщения. block держит отправку до отмены ctx.
type rawProducer struct {
	mu      sync.Mutex
	sent    []*usecase.WriteRawMessageReq
	err     error
	block   bool
	started chan struct{}
}

func (p *rawProducer) GetPayloadBytes(event *usecase.ProductEvent) ([]byte, error) {
	return []byte(event.EventID), nil
}

func (p *rawProducer) WriteRawMessage(ctx context.Context, req *usecase.WriteRawMessageReq) error {
	p.mu.Lock()
	p.sent = append(p.sent, req)
	started := p.started
	p.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}

	if p.block {
		<-ctx.Done()
		return ctx.Err()
	}

	return p.err
}

func (p *rawProducer) sentCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

func outboxCfg() *cfg.OutboxCfg {
	return &cfg.OutboxCfg{
		BatchSize:      2,
		PollInterval:   time.Hour,
		PublishTimeout: time.Second,
		StaleAfter:     time.Minute,
		MaxAttempts:    3,
	}
}

func seedOutbox(t *testing.T, repo *memory.OutboxRepo, productIDs ...int64) {
	t.Helper()
	for _, id := range productIDs {
		_, err := repo.Create(context.Background(), &domain.OutboxEvent{
			EventID:   "evt-" + string(rune('a'+id)),
			EventType: domain.ProductCreated,
			ProductID: id,
			Payload:   []byte{byte(id)},
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func allInStatus(repo *memory.OutboxRepo, status domain.OutboxStatus) bool {
	for _, event := range repo.List() {
		if event.Status != status {
			return false
		}
	}
	return true
}

func stopWorker(t *testing.T, w *OutboxWorker) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestOutboxWorkerDrainsPendingOnStart(t *testing.T) {
	repo := memory.NewOutboxRepo()
	seedOutbox(t, repo, 1, 2, 3)
	producer := &rawProducer{}

	w := NewOutboxWorker(repo, producer, logger.NewNop(), outboxCfg(), "")
	w.Start(context.Background())
	waitFor(t, "all events processed", func() bool { return allInStatus(repo, domain.OutboxProcessed) })
	stopWorker(t, w)

	if len(producer.sent) != 3 {
		t.Fatalf("sent = %d, want 3", len(producer.sent))
	}
	for i, req := range producer.sent {
		if req.ProductID != int64(i+1) || req.EventType != domain.ProductCreated || req.Payload[0] != byte(i+1) {
			t.Fatalf("message %d out of order or malformed: %+v", i, req)
		}
	}
}

func TestOutboxWorkerWakesOnNotify(t *testing.T) {
	repo := memory.NewOutboxRepo()
	producer := &rawProducer{}

	w := NewOutboxWorker(repo, producer, logger.NewNop(), outboxCfg(), "")
	w.Start(context.Background())
	defer stopWorker(t, w)

	seedOutbox(t, repo, 5)
	w.notify()
	waitFor(t, "event delivered after wake-up", func() bool { return producer.sentCount() == 1 })
}

func TestOutboxWorkerRetriesUntilFailed(t *testing.T) {
	repo := memory.NewOutboxRepo()
	seedOutbox(t, repo, 1)
	producer := &rawProducer{err: errors.New("dial tcp: connection refused")}

	c := outboxCfg()
	c.PollInterval = 5 * time.Millisecond
	w := NewOutboxWorker(repo, producer, logger.NewNop(), c, "")
	w.Start(context.Background())
	waitFor(t, "event marked failed", func() bool { return allInStatus(repo, domain.OutboxFailed) })
	stopWorker(t, w)

	got := repo.List()[0]
	if got.Attempts != 3 || got.LastError == "" {
		t.Fatalf("unexpected event: %+v", got)
	}
	if producer.sentCount() != 3 {
		t.Fatalf("sent = %d, want 3", producer.sentCount())
	}
}

func TestOutboxWorkerPermanentErrorFailsAtOnce(t *testing.T) {
	repo := memory.NewOutboxRepo()
	seedOutbox(t, repo, 1)
	producer := &rawProducer{err: kafka.MessageSizeTooLarge}

	w := NewOutboxWorker(repo, producer, logger.NewNop(), outboxCfg(), "")
	w.Start(context.Background())
	waitFor(t, "event marked failed", func() bool { return allInStatus(repo, domain.OutboxFailed) })
	stopWorker(t, w)

	if got := repo.List()[0]; got.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", got.Attempts)
	}
}

func TestOutboxWorkerStopInterruptsBlockedPublish(t *testing.T) {
	repo := memory.NewOutboxRepo()
	seedOutbox(t, repo, 1)
	producer := &rawProducer{block: true, started: make(chan struct{}, 1)}

	c := outboxCfg()
	c.PublishTimeout = time.Hour
	w := NewOutboxWorker(repo, producer, logger.NewNop(), c, "")
	w.Start(context.Background())

	select {
	case <-producer.started:
	case <-time.After(2 * time.Second):
		t.Fatal("publish was not started")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	if err := w.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Stop error = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Stop took %v", elapsed)
	}

	got := repo.List()[0]
	if got.Status != domain.OutboxPending || got.Attempts != 1 {
		t.Fatalf("interrupted event must go back to pending: %+v", got)
	}
}
