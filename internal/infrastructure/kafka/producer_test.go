package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/cfg"
	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeWriter struct {
	errs   []error
	writes []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.writes = append(w.writes, msgs...)
	if len(w.errs) == 0 {
		return nil
	}
	err := w.errs[0]
	w.errs = w.errs[1:]
	return err
}

func (w *fakeWriter) Close() error { return nil }

func testEvent() *usecase.ProductEvent {
	now := time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)
	return &usecase.ProductEvent{
		EventID:   "evt-1",
		Type:      domain.ProductUpdated,
		ProductID: 42,
		Product: &usecase.ProductInfo{
			ID:        42,
			Name:      "Chair",
			Price:     decimal.RequireFromString("80.5"),
			Stock:     4,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		OccurredAt: now,
	}
}

func testRawMessage() *usecase.WriteRawMessageReq {
	return &usecase.WriteRawMessageReq{
		ProductID: 42,
		EventType: domain.ProductUpdated,
		Payload:   []byte("payload"),
	}
}

func testCfg(maxRetries int) *cfg.KafkaCfg {
	return &cfg.KafkaCfg{Enabled: true, Topic: "catalog.products", MaxRetries: maxRetries, RetryBackoff: time.Millisecond}
}

func TestGetPayloadBytes(t *testing.T) {
	data, err := newProducer(&fakeWriter{}, logger.NewNop(), testCfg(0)).GetPayloadBytes(testEvent())
	if err != nil {
		t.Fatalf("GetPayloadBytes: %v", err)
	}

	var payload structpb.Struct
	if err := proto.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	fields := payload.AsMap()
	if fields["event_type"] != "product.updated" || fields["product_id"] != float64(42) {
		t.Fatalf("unexpected payload: %v", fields)
	}
	product, ok := fields["product"].(map[string]any)
	if !ok {
		t.Fatalf("product is missing: %v", fields)
	}
	if product["price"] != "80.50" || product["stock"] != float64(4) {
		t.Fatalf("unexpected product payload: %v", product)
	}
}

func TestGetPayloadBytesForDeletion(t *testing.T) {
	event := testEvent()
	event.Type = domain.ProductDeleted
	event.Product = nil

	data, err := newProducer(&fakeWriter{}, logger.NewNop(), testCfg(0)).GetPayloadBytes(event)
	if err != nil {
		t.Fatalf("GetPayloadBytes: %v", err)
	}

	var payload structpb.Struct
	if err := proto.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := payload.Fields["product"]; ok {
		t.Fatal("deletion event must not carry product")
	}
}

func TestWriteRawMessageKeyAndHeaders(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, logger.NewNop(), testCfg(0))

	if err := p.WriteRawMessage(context.Background(), testRawMessage()); err != nil {
		t.Fatalf("WriteRawMessage: %v", err)
	}
	if len(w.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(w.writes))
	}
	msg := w.writes[0]
	if string(msg.Key) != "42" || string(msg.Value) != "payload" {
		t.Fatalf("unexpected message: key=%q value=%q", msg.Key, msg.Value)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != "product.updated" {
		t.Fatalf("unexpected headers: %+v", msg.Headers)
	}
}

func TestWriteRawMessageRetriesTemporaryErrors(t *testing.T) {
	w := &fakeWriter{errs: []error{errors.New("dial tcp: connection refused"), kafka.LeaderNotAvailable}}
	p := newProducer(w, logger.NewNop(), testCfg(3))

	if err := p.WriteRawMessage(context.Background(), testRawMessage()); err != nil {
		t.Fatalf("WriteRawMessage: %v", err)
	}
	if len(w.writes) != 3 {
		t.Fatalf("writes = %d, want 3", len(w.writes))
	}
}

func TestWriteRawMessageGivesUp(t *testing.T) {
	refused := errors.New("connection refused")
	w := &fakeWriter{errs: []error{refused, refused, refused}}
	p := newProducer(w, logger.NewNop(), testCfg(1))

	if err := p.WriteRawMessage(context.Background(), testRawMessage()); !errors.Is(err, refused) {
		t.Fatalf("expected last error, got %v", err)
	}
	if len(w.writes) != 2 {
		t.Fatalf("writes = %d, want 2", len(w.writes))
	}
}

func TestWriteRawMessagePermanentError(t *testing.T) {
	w := &fakeWriter{errs: []error{kafka.MessageSizeTooLarge}}
	p := newProducer(w, logger.NewNop(), testCfg(5))

	if err := p.WriteRawMessage(context.Background(), testRawMessage()); !errors.Is(err, kafka.MessageSizeTooLarge) {
		t.Fatalf("expected MessageSizeTooLarge, got %v", err)
	}
	if len(w.writes) != 1 {
		t.Fatalf("permanent errors must not be retried, writes = %d", len(w.writes))
	}
}
