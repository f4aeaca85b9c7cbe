package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductRepository — хранилище товаров для CRUD-операций.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// GetByIDForUpdate блокирует строку до конца транзакции из контекста.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	FetchAll(ctx context.Context, filter domain.ProductFilter, order domain.ProductOrder) ([]domain.Product, error)
}

// ProductStatsRepository — узкий интерфейс агрегирующих запросов к товарам.
type ProductStatsRepository interface {
	Count(ctx context.Context, filter domain.ProductFilter) (int64, error)
	Sum(ctx context.Context, field domain.AggregateField, filter domain.ProductFilter) (decimal.Decimal, error)
	// Avg, Min и Max возвращают невалидный NullDecimal на пустом наборе.
	Avg(ctx context.Context, field domain.AggregateField) (decimal.NullDecimal, error)
	Min(ctx context.Context, field domain.AggregateField) (decimal.NullDecimal, error)
	Max(ctx context.Context, field domain.AggregateField) (decimal.NullDecimal, error)
	FetchAll(ctx context.Context, filter domain.ProductFilter, order domain.ProductOrder) ([]domain.Product, error)
}

type UserRepository interface {
	Count(ctx context.Context) (int64, error)
}

// CacheRepository кэширует карточки товаров. Ошибки кэша не должны ломать основной сценарий.
type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

// OutboxRepository хранит события изменения товаров до их доставки в брокер.
type OutboxRepository interface {
	// Create пишет событие в транзакции из контекста, вместе с изменением товара.
	Create(ctx context.Context, event *domain.OutboxEvent) (*domain.OutboxEvent, error)
	// GetAndMarkAsProcessing забирает до limit ожидающих событий и события,
	// зависшие в processing дольше staleAfter.
	GetAndMarkAsProcessing(ctx context.Context, limit int, staleAfter time.Duration) ([]*domain.OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	// MarkAsRetry возвращает событие в очередь, а после maxAttempts попыток переводит его в failed.
	MarkAsRetry(ctx context.Context, id int64, maxAttempts int, reason string) error
}

// Transactor выполняет fn в рамках одной транзакции хранилища.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
