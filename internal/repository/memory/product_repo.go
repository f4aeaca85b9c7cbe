// Package memory содержит хранилища, живущие в памяти процесса.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

// ProductRepo хранит товары в памяти. Порядок выборки по умолчанию — порядок вставки (возрастание ID).
type ProductRepo struct {
	mu       sync.RWMutex
	products []domain.Product
	nextID   int64
	now      func() time.Time
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{nextID: 1, now: time.Now}
}

func (r *ProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *product
	created.ID = r.nextID
	created.CreatedAt = r.now().UTC()
	created.UpdatedAt = created.CreatedAt
	r.nextID++
	r.products = append(r.products, created)

	return &created, nil
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	product := r.products[idx]
	return &product, nil
}

// GetByIDForUpdate в памяти совпадает с GetByID: изоляцию обеспечивает Transactor.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(product.ID)
	if idx < 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	updated := *product
	updated.CreatedAt = r.products[idx].CreatedAt
	updated.UpdatedAt = r.now().UTC()
	r.products[idx] = updated

	return &updated, nil
}

func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}
	r.products = slices.Delete(r.products, idx, idx+1)

	return nil
}

// FetchAll возвращает копии подходящих товаров в заданном порядке.
func (r *ProductRepo) FetchAll(_ context.Context, filter domain.ProductFilter, order domain.ProductOrder) ([]domain.Product, error) {
	res := r.matching(filter)
	slices.SortStableFunc(res, func(a, b domain.Product) int {
		return order.Compare(&a, &b)
	})

	return res, nil
}

func (r *ProductRepo) Count(_ context.Context, filter domain.ProductFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for i := range r.products {
		if filter.Matches(&r.products[i]) {
			n++
		}
	}

	return n, nil
}

// Sum на пустом наборе возвращает 0.
func (r *ProductRepo) Sum(_ context.Context, field domain.AggregateField, filter domain.ProductFilter) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.matching(filter) {
		v, err := fieldValue(&p, field)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(v)
	}

	return sum, nil
}

func (r *ProductRepo) Avg(_ context.Context, field domain.AggregateField) (decimal.NullDecimal, error) {
	products := r.matching(domain.AllProducts())
	if len(products) == 0 {
		return decimal.NullDecimal{}, nil
	}

	sum := decimal.Zero
	for _, p := range products {
		v, err := fieldValue(&p, field)
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		sum = sum.Add(v)
	}

	return decimal.NewNullDecimal(sum.Div(decimal.NewFromInt(int64(len(products))))), nil
}

func (r *ProductRepo) Min(_ context.Context, field domain.AggregateField) (decimal.NullDecimal, error) {
	return r.extreme(field, func(candidate, current decimal.Decimal) bool {
		return candidate.LessThan(current)
	})
}

func (r *ProductRepo) Max(_ context.Context, field domain.AggregateField) (decimal.NullDecimal, error) {
	return r.extreme(field, func(candidate, current decimal.Decimal) bool {
		return candidate.GreaterThan(current)
	})
}

func (r *ProductRepo) extreme(field domain.AggregateField, better func(candidate, current decimal.Decimal) bool) (decimal.NullDecimal, error) {
	var res decimal.NullDecimal
	for _, p := range r.matching(domain.AllProducts()) {
		v, err := fieldValue(&p, field)
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		if !res.Valid || better(v, res.Decimal) {
			res = decimal.NewNullDecimal(v)
		}
	}

	return res, nil
}

// matching возвращает копии подходящих товаров в порядке вставки.
func (r *ProductRepo) matching(filter domain.ProductFilter) []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]domain.Product, 0, len(r.products))
	for i := range r.products {
		if filter.Matches(&r.products[i]) {
			res = append(res, r.products[i])
		}
	}

	return res
}

func (r *ProductRepo) indexOf(id int64) int {
	return slices.IndexFunc(r.products, func(p domain.Product) bool {
		return p.ID == id
	})
}

func fieldValue(p *domain.Product, field domain.AggregateField) (decimal.Decimal, error) {
	switch field {
	case domain.FieldPrice:
		return p.Price, nil
	case domain.FieldStock:
		return decimal.NewFromInt(p.Stock), nil
	case domain.FieldStockValue:
		return p.StockValue(), nil
	default:
		return decimal.Zero, e.Wrap("aggregate field "+string(field), e.ErrInvalidFilter)
	}
}
