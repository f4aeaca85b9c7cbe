package grpc

import (
	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/shopspring/decimal"
)

// Деньги в Struct передаются как double: другого числового типа в google.protobuf.Value нет.

func overviewFields(s *usecase.OverviewStats) map[string]any {
	return map[string]any{
		"total_products":        s.TotalProducts,
		"active_products":       s.ActiveProducts,
		"inactive_products":     s.InactiveProducts,
		"total_users":           s.TotalUsers,
		"total_stock_value":     money(s.TotalStockValue),
		"out_of_stock_products": s.OutOfStockProducts,
		"low_stock_products":    s.LowStockProducts,
	}
}

func productStatsFields(s *usecase.ProductStats) map[string]any {
	return map[string]any{
		"total_products":        s.TotalProducts,
		"active_products":       s.ActiveProducts,
		"inactive_products":     s.InactiveProducts,
		"average_price":         money(s.AveragePrice),
		"highest_price":         nullableMoney(s.HighestPrice),
		"lowest_price":          nullableMoney(s.LowestPrice),
		"total_stock":           s.TotalStock,
		"out_of_stock_products": s.OutOfStockProducts,
		"low_stock_products":    s.LowStockProducts,
		"total_stock_value":     money(s.TotalStockValue),
	}
}

func stockStatsFields(s *usecase.StockStats) map[string]any {
	critical := make([]any, len(s.CriticalProducts))
	for i, p := range s.CriticalProducts {
		critical[i] = map[string]any{
			"id":            p.ID,
			"name":          p.Name,
			"current_stock": p.CurrentStock,
			"price":         money(p.Price),
			"stock_value":   money(p.StockValue),
			"status":        string(p.Status),
		}
	}

	return map[string]any{
		"total_products":          s.TotalProducts,
		"out_of_stock_products":   s.OutOfStockProducts,
		"low_stock_products":      s.LowStockProducts,
		"adequate_stock_products": s.AdequateStockProducts,
		"total_stock":             s.TotalStock,
		"total_stock_value":       money(s.TotalStockValue),
		"critical_products":       critical,
	}
}

func pricingStatsFields(s *usecase.PricingStats) map[string]any {
	distribution := make(map[string]any, len(s.PriceDistribution))
	for _, b := range s.PriceDistribution {
		distribution[b.Key] = b.Count
	}

	return map[string]any{
		"total_products":        s.TotalProducts,
		"average_price":         money(s.AveragePrice),
		"median_price":          money(s.MedianPrice),
		"highest_price":         nullableMoney(s.HighestPrice),
		"lowest_price":          nullableMoney(s.LowestPrice),
		"price_range":           nullableMoney(s.PriceRange),
		"total_inventory_value": money(s.TotalInventoryValue),
		"price_distribution":    distribution,
	}
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// nullableMoney возвращает nil, который structpb превращает в NullValue.
func nullableMoney(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}

	return money(d.Decimal)
}
