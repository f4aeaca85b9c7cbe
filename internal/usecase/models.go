package usecase

import (
	"time"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/shopspring/decimal"
)

// PRODUCT USECASE

// CreateProductReq — запрос на создание товара.
type CreateProductReq struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	IsActive    bool
}

// UpdateProductReq — частичное обновление товара. nil-поля не меняются.
type UpdateProductReq struct {
	ID          int64
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int64
	IsActive    *bool
}

// ListProductsReq — фильтры и порядок выдачи каталога.
type ListProductsReq struct {
	Search   string
	IsActive *bool
	Order    domain.ProductOrder
}

// ProductInfo — DTO с информацией о товаре для внешнего использования.
type ProductInfo struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// STATISTICS USECASE

// OverviewStats — общая сводка по каталогу.
type OverviewStats struct {
	TotalProducts      int64
	ActiveProducts     int64
	InactiveProducts   int64
	TotalUsers         int64
	TotalStockValue    decimal.Decimal
	OutOfStockProducts int64
	LowStockProducts   int64
}

// ProductStats — статистика по товарам. AveragePrice не округляется.
type ProductStats struct {
	TotalProducts      int64
	ActiveProducts     int64
	InactiveProducts   int64
	AveragePrice       decimal.Decimal
	HighestPrice       decimal.NullDecimal
	LowestPrice        decimal.NullDecimal
	TotalStock         int64
	OutOfStockProducts int64
	LowStockProducts   int64
	TotalStockValue    decimal.Decimal
}

// StockStats — статистика по остаткам.
type StockStats struct {
	TotalProducts         int64
	OutOfStockProducts    int64
	LowStockProducts      int64
	AdequateStockProducts int64
	TotalStock            int64
	TotalStockValue       decimal.Decimal
	CriticalProducts      []CriticalProduct
}

// CriticalProduct — товар, который закончился или заканчивается.
type CriticalProduct struct {
	ID           int64
	Name         string
	CurrentStock int64
	Price        decimal.Decimal
	StockValue   decimal.Decimal
	Status       domain.StockStatus
}

// PricingStats — статистика по ценам.
type PricingStats struct {
	TotalProducts       int64
	AveragePrice        decimal.Decimal
	MedianPrice         decimal.Decimal
	HighestPrice        decimal.NullDecimal
	LowestPrice         decimal.NullDecimal
	PriceRange          decimal.NullDecimal
	TotalInventoryValue decimal.Decimal
	PriceDistribution   []PriceBucketCount
}

// PriceBucketCount — количество товаров в одном диапазоне цен.
type PriceBucketCount struct {
	Key   string
	Count int64
}

// INFRASTRUCTURE

// ProductEvent — событие изменения товара. Product равен nil для удаления.
type ProductEvent struct {
	EventID    string
	Type       domain.ProductEventType
	ProductID  int64
	Product    *ProductInfo
	OccurredAt time.Time
}

// WriteRawMessageReq — уже сериализованное событие из outbox для отправки в брокер.
type WriteRawMessageReq struct {
	ProductID int64
	EventType domain.ProductEventType
	Payload   []byte
}

// MAPPERS

func NewProductInfo(p *domain.Product) *ProductInfo {
	return &ProductInfo{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func NewArrProductInfo(products []domain.Product) []ProductInfo {
	res := make([]ProductInfo, len(products))
	for i := range products {
		res[i] = *NewProductInfo(&products[i])
	}

	return res
}

func NewCriticalProduct(p *domain.Product) CriticalProduct {
	return CriticalProduct{
		ID:           p.ID,
		Name:         p.Name,
		CurrentStock: p.Stock,
		Price:        p.Price,
		StockValue:   p.StockValue(),
		Status:       p.StockStatus(),
	}
}

func NewCreateProductReq(name, description string, price decimal.Decimal, stock int64, isActive bool) *CreateProductReq {
	return &CreateProductReq{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		IsActive:    isActive,
	}
}

func NewListProductsReq(search string, isActive *bool, order domain.ProductOrder) *ListProductsReq {
	return &ListProductsReq{
		Search:   search,
		IsActive: isActive,
		Order:    order,
	}
}

func NewOutboxEvent(event *ProductEvent, payload []byte) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		EventID:   event.EventID,
		EventType: event.Type,
		ProductID: event.ProductID,
		Payload:   payload,
		Status:    domain.OutboxPending,
		CreatedAt: event.OccurredAt,
	}
}

func NewWriteRawMessageReq(event *domain.OutboxEvent) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ProductID: event.ProductID,
		EventType: event.EventType,
		Payload:   event.Payload,
	}
}

// emptyPriceDistribution возвращает все диапазоны цен с нулевыми счётчиками.
func emptyPriceDistribution() []PriceBucketCount {
	buckets := domain.PriceBuckets()
	res := make([]PriceBucketCount, len(buckets))
	for i, b := range buckets {
		res[i] = PriceBucketCount{Key: b.Key}
	}

	return res
}
