package domain

import "github.com/shopspring/decimal"

// PriceBucket — диапазон цен [From, Below) гистограммы распределения цен.
type PriceBucket struct {
	Key   string
	From  *decimal.Decimal
	Below *decimal.Decimal
}

// Filter возвращает фильтр товаров, попадающих в диапазон.
func (b PriceBucket) Filter() ProductFilter {
	return PriceRange(b.From, b.Below)
}

// PriceBuckets возвращает фиксированные пять диапазонов: <50, 50-100, 100-250, 250-500, >=500.
func PriceBuckets() []PriceBucket {
	var (
		b50  = decimal.NewFromInt(50)
		b100 = decimal.NewFromInt(100)
		b250 = decimal.NewFromInt(250)
		b500 = decimal.NewFromInt(500)
	)

	return []PriceBucket{
		{Key: "under_50", Below: &b50},
		{Key: "50_to_100", From: &b50, Below: &b100},
		{Key: "100_to_250", From: &b100, Below: &b250},
		{Key: "250_to_500", From: &b250, Below: &b500},
		{Key: "over_500", From: &b500},
	}
}
