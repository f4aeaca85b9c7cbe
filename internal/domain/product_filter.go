package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductFilter задаёт условия выборки товаров. Пустой фильтр выбирает все товары.
// Все заданные условия объединяются через AND.
type ProductFilter struct {
	IsActive    *bool
	StockEquals *int64
	StockAbove  *int64           // stock > StockAbove
	StockAtMost *int64           // stock <= StockAtMost
	PriceFrom   *decimal.Decimal // price >= PriceFrom
	PriceBelow  *decimal.Decimal // price < PriceBelow
	Search      string           // подстрока в name или description без учёта регистра
}

func AllProducts() ProductFilter {
	return ProductFilter{}
}

func ActiveProducts() ProductFilter {
	return ProductFilter{IsActive: ptr(true)}
}

func InactiveProducts() ProductFilter {
	return ProductFilter{IsActive: ptr(false)}
}

// OutOfStock: stock = 0.
func OutOfStock() ProductFilter {
	return ProductFilter{StockEquals: ptr(int64(0))}
}

// LowStock: 0 < stock <= LowStockThreshold.
func LowStock() ProductFilter {
	return ProductFilter{StockAbove: ptr(int64(0)), StockAtMost: ptr(LowStockThreshold)}
}

// AdequateStock: stock > LowStockThreshold.
func AdequateStock() ProductFilter {
	return ProductFilter{StockAbove: ptr(LowStockThreshold)}
}

// CriticalStock объединяет закончившиеся и заканчивающиеся товары: stock <= LowStockThreshold.
func CriticalStock() ProductFilter {
	return ProductFilter{StockAtMost: ptr(LowStockThreshold)}
}

// PriceRange выбирает товары с ценой в [from, below). nil снимает соответствующую границу.
func PriceRange(from, below *decimal.Decimal) ProductFilter {
	return ProductFilter{PriceFrom: from, PriceBelow: below}
}

// Matches проверяет товар на соответствие фильтру.
func (f ProductFilter) Matches(p *Product) bool {
	if f.IsActive != nil && p.IsActive != *f.IsActive {
		return false
	}
	if f.StockEquals != nil && p.Stock != *f.StockEquals {
		return false
	}
	if f.StockAbove != nil && p.Stock <= *f.StockAbove {
		return false
	}
	if f.StockAtMost != nil && p.Stock > *f.StockAtMost {
		return false
	}
	if f.PriceFrom != nil && p.Price.LessThan(*f.PriceFrom) {
		return false
	}
	if f.PriceBelow != nil && !p.Price.LessThan(*f.PriceBelow) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}

	return true
}

func ptr[T any](v T) *T {
	return &v
}
