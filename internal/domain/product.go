package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// LowStockThreshold — верхняя граница (включительно) «низкого» остатка.
	LowStockThreshold int64 = 10
	// CriticalProductsLimit — сколько критичных товаров попадает в отчёт по остаткам.
	CriticalProductsLimit = 5
	// PricePrecision — количество знаков после запятой в цене.
	PricePrecision int32 = 2
	// MaxProductNameLength — максимальная длина названия товара.
	MaxProductNameLength = 255
)

// MaxPrice — наибольшая цена, которая помещается в колонку NUMERIC(12,2).
var MaxPrice = decimal.RequireFromString("9999999999.99")

// StockStatus описывает состояние остатка товара.
type StockStatus string

const (
	StockStatusOutOfStock StockStatus = "out_of_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusAdequate   StockStatus = "adequate"
)

// Product описывает товар каталога
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewProduct(name, description string, price decimal.Decimal, stock int64, isActive bool) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		IsActive:    isActive,
	}
}

// StockValue возвращает стоимость остатка (цена × количество).
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(p.Stock))
}

// StockStatus классифицирует остаток товара.
func (p *Product) StockStatus() StockStatus {
	switch {
	case p.Stock == 0:
		return StockStatusOutOfStock
	case p.Stock <= LowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusAdequate
	}
}
