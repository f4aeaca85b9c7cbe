package domain

import (
	"strings"

	"github.com/DRSN-tech/catalog-service/pkg/e"
)

// AggregateField — поле, по которому считаются агрегаты.
type AggregateField string

const (
	FieldPrice      AggregateField = "price"
	FieldStock      AggregateField = "stock"
	FieldStockValue AggregateField = "stock_value" // price * stock
)

// SortField — поле сортировки. Допустимы только значения из sortFields.
type SortField string

const (
	SortByID        SortField = "id"
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByStock     SortField = "stock"
	SortByIsActive  SortField = "is_active"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

var sortFields = map[SortField]struct{}{
	SortByID:        {},
	SortByName:      {},
	SortByPrice:     {},
	SortByStock:     {},
	SortByIsActive:  {},
	SortByCreatedAt: {},
	SortByUpdatedAt: {},
}

// ProductOrder задаёт порядок выборки. При равенстве значений товары идут по возрастанию ID.
type ProductOrder struct {
	Field SortField
	Desc  bool
}

// DefaultOrder — порядок по возрастанию ID.
func DefaultOrder() ProductOrder {
	return ProductOrder{Field: SortByID}
}

func OrderBy(field SortField, desc bool) ProductOrder {
	return ProductOrder{Field: field, Desc: desc}
}

// Valid сообщает, входит ли поле в список разрешённых.
func (f SortField) Valid() bool {
	_, ok := sortFields[f]
	return ok
}

// ParseProductOrder разбирает строку вида "column:order" (order = asc|desc, по умолчанию asc).
// Пустая строка даёт DefaultOrder.
func ParseProductOrder(raw string) (ProductOrder, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultOrder(), nil
	}

	column, direction, _ := strings.Cut(raw, ":")
	field := SortField(strings.ToLower(strings.TrimSpace(column)))
	if !field.Valid() {
		return ProductOrder{}, e.Wrap("sort column "+column, e.ErrInvalidSort)
	}

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "", "asc":
		return OrderBy(field, false), nil
	case "desc":
		return OrderBy(field, true), nil
	default:
		return ProductOrder{}, e.Wrap("sort direction "+direction, e.ErrInvalidSort)
	}
}

// Compare сравнивает два товара согласно порядку: <0, если a идёт раньше b.
func (o ProductOrder) Compare(a, b *Product) int {
	c := compareBy(o.Field, a, b)
	if o.Desc {
		c = -c
	}
	if c != 0 {
		return c
	}

	return cmpInt64(a.ID, b.ID)
}

func compareBy(field SortField, a, b *Product) int {
	switch field {
	case SortByName:
		return strings.Compare(a.Name, b.Name)
	case SortByPrice:
		return a.Price.Cmp(b.Price)
	case SortByStock:
		return cmpInt64(a.Stock, b.Stock)
	case SortByIsActive:
		return cmpBool(a.IsActive, b.IsActive)
	case SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return cmpInt64(a.ID, b.ID)
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
