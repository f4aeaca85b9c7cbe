package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// cacheFillTimeout ограничивает фоновую запись товара в кэш, отсчитывая от чтения из хранилища.
const cacheFillTimeout = 500 * time.Millisecond

// ProductUseCase реализует бизнес-логику управления каталогом товаров.
type ProductUseCase struct {
	productRepo      ProductRepository
	outboxRepo       OutboxRepository
	transactor       Transactor
	cacheRepo        CacheRepository
	producer         MessageProducer
	logger           logger.Logger
	cacheFillTimeout time.Duration
}

// NewProductUC создаёт use case. cacheRepo может быть nil, тогда кэш отключён.
// События пишутся в outbox, только если заданы и outboxRepo, и producer.
func NewProductUC(
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	transactor Transactor,
	cacheRepo CacheRepository,
	producer MessageProducer,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:      productRepo,
		outboxRepo:       outboxRepo,
		transactor:       transactor,
		cacheRepo:        cacheRepo,
		producer:         producer,
		logger:           logger,
		cacheFillTimeout: cacheFillTimeout,
	}
}

// CreateProduct проверяет инварианты товара и в одной транзакции сохраняет его
// вместе с событием product.created.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*ProductInfo, error) {
	const op = "ProductUseCase.CreateProduct"

	product := domain.NewProduct(strings.TrimSpace(req.Name), req.Description, req.Price, req.Stock, req.IsActive)
	if err := validateProduct(product); err != nil {
		return nil, e.Wrap(op, err)
	}

	var created *domain.Product
	err := p.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if created, err = p.productRepo.Create(ctx, product); err != nil {
			return err
		}

		return p.recordEvent(ctx, domain.ProductCreated, created.ID, NewProductInfo(created))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewProductInfo(created), nil
}

// GetProduct возвращает товар по ID, сначала заглядывая в кэш.
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*ProductInfo, error) {
	const op = "ProductUseCase.GetProduct"

	if id <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	if p.cacheRepo != nil {
		cached, err := p.cacheRepo.GetProducts(ctx, []int64{id})
		if err != nil {
			p.logger.Warnf("Failed to read product %d from cache: %v", id, e.Wrap(op, err))
		} else if product, ok := cached[id]; ok {
			return NewProductInfo(&product), nil
		}
	}

	readAt := time.Now()
	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление товара в кэш
	if p.cacheRepo != nil {
		fillCtx, cancel := context.WithDeadline(context.Background(), readAt.Add(p.cacheFillTimeout))
		go func(product domain.Product) {
			defer cancel()

			if err := p.cacheRepo.SetProducts(fillCtx, []domain.Product{product}); err != nil {
				p.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
			}
		}(*product)
	}

	return NewProductInfo(product), nil
}

// ListProducts возвращает товары, отфильтрованные по строке поиска и активности.
func (p *ProductUseCase) ListProducts(ctx context.Context, req *ListProductsReq) ([]ProductInfo, error) {
	const op = "ProductUseCase.ListProducts"

	if !req.Order.Field.Valid() {
		return nil, e.Wrap(op, e.ErrInvalidSort)
	}

	filter := domain.ProductFilter{
		IsActive: req.IsActive,
		Search:   strings.TrimSpace(req.Search),
	}

	products, err := p.productRepo.FetchAll(ctx, filter, req.Order)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewArrProductInfo(products), nil
}

// UpdateProduct частично обновляет товар и пишет product.updated в той же транзакции, затем сбрасывает кэш.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, req *UpdateProductReq) (*ProductInfo, error) {
	const op = "ProductUseCase.UpdateProduct"

	if req.ID <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	var updated *domain.Product
	err := p.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := p.productRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}

		applyUpdate(current, req)
		if err := validateProduct(current); err != nil {
			return err
		}

		if updated, err = p.productRepo.Update(ctx, current); err != nil {
			return err
		}

		return p.recordEvent(ctx, domain.ProductUpdated, updated.ID, NewProductInfo(updated))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, updated.ID)

	return NewProductInfo(updated), nil
}

// DeleteProduct удаляет товар и пишет product.deleted в той же транзакции, затем сбрасывает кэш.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	if id <= 0 {
		return e.Wrap(op, e.ErrInvalidID)
	}

	err := p.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := p.productRepo.Delete(ctx, id); err != nil {
			return err
		}

		return p.recordEvent(ctx, domain.ProductDeleted, id, nil)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	p.invalidate(ctx, id)

	return nil
}

// invalidate удаляет устаревшую карточку товара из кэша.
// Фоновое заполнение из GetProduct, прочитавшее товар до коммита, может записать старую карточку
// уже после удаления, но не позже cacheFillTimeout от чтения. Поэтому ключ удаляется ещё раз.
func (p *ProductUseCase) invalidate(ctx context.Context, id int64) {
	if p.cacheRepo == nil {
		return
	}

	if err := p.cacheRepo.DeleteProducts(ctx, []int64{id}); err != nil {
		p.logger.Warnf("Failed to delete product %d from cache: %v", id, err)
	}

	time.AfterFunc(2*p.cacheFillTimeout, func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), p.cacheFillTimeout)
		defer cancel()

		if err := p.cacheRepo.DeleteProducts(bgCtx, []int64{id}); err != nil {
			p.logger.Warnf("Failed to delete product %d from cache: %v", id, err)
		}
	})
}

// recordEvent сериализует событие и кладёт его в outbox в транзакции из ctx.
// Отправкой в брокер занимается OutboxWorker.
func (p *ProductUseCase) recordEvent(ctx context.Context, eventType domain.ProductEventType, productID int64, info *ProductInfo) error {
	if p.outboxRepo == nil || p.producer == nil {
		return nil
	}

	event := &ProductEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		ProductID:  productID,
		Product:    info,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := p.producer.GetPayloadBytes(event)
	if err != nil {
		return e.Wrap("encode "+string(eventType), err)
	}

	if _, err := p.outboxRepo.Create(ctx, NewOutboxEvent(event, payload)); err != nil {
		return e.Wrap("outbox "+string(eventType), err)
	}

	return nil
}

func applyUpdate(product *domain.Product, req *UpdateProductReq) {
	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
}

// validateProduct проверяет инварианты модели: имя задано, цена в [0, MaxPrice] с точностью до копеек, остаток >= 0.
func validateProduct(product *domain.Product) error {
	if product.Name == "" {
		return e.ErrProductNameRequired
	}

	if utf8.RuneCountInString(product.Name) > domain.MaxProductNameLength {
		return e.ErrProductNameTooLong
	}

	return validatePriceAndStock(product.Price, product.Stock)
}

func validatePriceAndStock(price decimal.Decimal, stock int64) error {
	if price.IsNegative() {
		return e.ErrInvalidPrice
	}

	if price.GreaterThan(domain.MaxPrice) {
		return e.ErrPriceTooLarge
	}

	if price.Exponent() < -domain.PricePrecision && !price.Equal(price.Round(domain.PricePrecision)) {
		return e.ErrPricePrecision
	}

	if stock < 0 {
		return e.ErrNegativeStock
	}

	return nil
}
