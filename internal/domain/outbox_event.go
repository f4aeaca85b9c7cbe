package domain

import "time"

// ProductEventType — тип события изменения товара.
type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductDeleted ProductEventType = "product.deleted"
)

// OutboxNotifyChannel — канал LISTEN/NOTIFY, в который сообщается о новых событиях outbox.
const OutboxNotifyChannel = "outbox_pending"

// OutboxStatus — состояние события в outbox.
type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "pending"
	OutboxProcessing OutboxStatus = "processing"
	OutboxProcessed  OutboxStatus = "processed"
	OutboxFailed     OutboxStatus = "failed"
)

// OutboxEvent — событие, записанное в одной транзакции с изменением товара
// и ожидающее отправки в брокер.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   ProductEventType
	ProductID   int64
	Payload     []byte
	Status      OutboxStatus
	Attempts    int
	LastError   string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}
