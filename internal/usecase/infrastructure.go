package usecase

import "context"

// MessageProducer сериализует события изменения товаров и отправляет их в брокер.
type MessageProducer interface {
	GetPayloadBytes(event *ProductEvent) ([]byte, error)
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
