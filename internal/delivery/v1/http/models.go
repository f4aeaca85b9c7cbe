package http

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/shopspring/decimal"
)

// REQUESTS

type createProductRequest struct {
	Name        string           `json:"name" example:"Office chair"`
	Description string           `json:"description" example:"Ergonomic, black"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number" example:"149.99"`
	Stock       int64            `json:"stock" example:"12"`
	IsActive    *bool            `json:"is_active" example:"true"`
}

type updateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty" swaggertype:"number"`
	Stock       *int64           `json:"stock,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// RESPONSES

type dataResponse struct {
	Data any `json:"data"`
}

type messageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type productResponse struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price" swaggertype:"number"`
	Stock       int64       `json:"stock"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type overviewResponse struct {
	TotalProducts      int64       `json:"total_products"`
	ActiveProducts     int64       `json:"active_products"`
	InactiveProducts   int64       `json:"inactive_products"`
	TotalUsers         int64       `json:"total_users"`
	TotalStockValue    json.Number `json:"total_stock_value" swaggertype:"number"`
	OutOfStockProducts int64       `json:"out_of_stock_products"`
	LowStockProducts   int64       `json:"low_stock_products"`
}

type productStatsResponse struct {
	TotalProducts      int64        `json:"total_products"`
	ActiveProducts     int64        `json:"active_products"`
	InactiveProducts   int64        `json:"inactive_products"`
	AveragePrice       json.Number  `json:"average_price" swaggertype:"number"`
	HighestPrice       *json.Number `json:"highest_price" swaggertype:"number" extensions:"x-nullable"`
	LowestPrice        *json.Number `json:"lowest_price" swaggertype:"number" extensions:"x-nullable"`
	TotalStock         int64        `json:"total_stock"`
	OutOfStockProducts int64        `json:"out_of_stock_products"`
	LowStockProducts   int64        `json:"low_stock_products"`
	TotalStockValue    json.Number  `json:"total_stock_value" swaggertype:"number"`
}

type criticalProductResponse struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	CurrentStock int64       `json:"current_stock"`
	Price        json.Number `json:"price" swaggertype:"number"`
	StockValue   json.Number `json:"stock_value" swaggertype:"number"`
	Status       string      `json:"status" enums:"out_of_stock,low_stock"`
}

type stockStatsResponse struct {
	TotalProducts         int64                     `json:"total_products"`
	OutOfStockProducts    int64                     `json:"out_of_stock_products"`
	LowStockProducts      int64                     `json:"low_stock_products"`
	AdequateStockProducts int64                     `json:"adequate_stock_products"`
	TotalStock            int64                     `json:"total_stock"`
	TotalStockValue       json.Number               `json:"total_stock_value" swaggertype:"number"`
	CriticalProducts      []criticalProductResponse `json:"critical_products"`
}

type pricingStatsResponse struct {
	TotalProducts       int64             `json:"total_products"`
	AveragePrice        json.Number       `json:"average_price" swaggertype:"number"`
	MedianPrice         json.Number       `json:"median_price" swaggertype:"number"`
	HighestPrice        *json.Number      `json:"highest_price" swaggertype:"number" extensions:"x-nullable"`
	LowestPrice         *json.Number      `json:"lowest_price" swaggertype:"number" extensions:"x-nullable"`
	PriceRange          *json.Number      `json:"price_range" swaggertype:"number" extensions:"x-nullable"`
	TotalInventoryValue json.Number       `json:"total_inventory_value" swaggertype:"number"`
	PriceDistribution   priceDistribution `json:"price_distribution" swaggertype:"object,integer"`
}

// priceDistribution сериализуется в объект с ключами в фиксированном порядке диапазонов.
type priceDistribution []usecase.PriceBucketCount

func (d priceDistribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(b.Count, 10))
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MAPPERS

func toProductResponse(p *usecase.ProductInfo) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money(p.Price),
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toArrProductResponse(products []usecase.ProductInfo) []productResponse {
	res := make([]productResponse, len(products))
	for i := range products {
		res[i] = toProductResponse(&products[i])
	}

	return res
}

func toOverviewResponse(s *usecase.OverviewStats) overviewResponse {
	return overviewResponse{
		TotalProducts:      s.TotalProducts,
		ActiveProducts:     s.ActiveProducts,
		InactiveProducts:   s.InactiveProducts,
		TotalUsers:         s.TotalUsers,
		TotalStockValue:    money(s.TotalStockValue),
		OutOfStockProducts: s.OutOfStockProducts,
		LowStockProducts:   s.LowStockProducts,
	}
}

func toProductStatsResponse(s *usecase.ProductStats) productStatsResponse {
	return productStatsResponse{
		TotalProducts:      s.TotalProducts,
		ActiveProducts:     s.ActiveProducts,
		InactiveProducts:   s.InactiveProducts,
		AveragePrice:       money(s.AveragePrice),
		HighestPrice:       nullableMoney(s.HighestPrice),
		LowestPrice:        nullableMoney(s.LowestPrice),
		TotalStock:         s.TotalStock,
		OutOfStockProducts: s.OutOfStockProducts,
		LowStockProducts:   s.LowStockProducts,
		TotalStockValue:    money(s.TotalStockValue),
	}
}

func toStockStatsResponse(s *usecase.StockStats) stockStatsResponse {
	critical := make([]criticalProductResponse, len(s.CriticalProducts))
	for i, p := range s.CriticalProducts {
		critical[i] = criticalProductResponse{
			ID:           p.ID,
			Name:         p.Name,
			CurrentStock: p.CurrentStock,
			Price:        money(p.Price),
			StockValue:   money(p.StockValue),
			Status:       string(p.Status),
		}
	}

	return stockStatsResponse{
		TotalProducts:         s.TotalProducts,
		OutOfStockProducts:    s.OutOfStockProducts,
		LowStockProducts:      s.LowStockProducts,
		AdequateStockProducts: s.AdequateStockProducts,
		TotalStock:            s.TotalStock,
		TotalStockValue:       money(s.TotalStockValue),
		CriticalProducts:      critical,
	}
}

func toPricingStatsResponse(s *usecase.PricingStats) pricingStatsResponse {
	return pricingStatsResponse{
		TotalProducts:       s.TotalProducts,
		AveragePrice:        money(s.AveragePrice),
		MedianPrice:         money(s.MedianPrice),
		HighestPrice:        nullableMoney(s.HighestPrice),
		LowestPrice:         nullableMoney(s.LowestPrice),
		PriceRange:          nullableMoney(s.PriceRange),
		TotalInventoryValue: money(s.TotalInventoryValue),
		PriceDistribution:   priceDistribution(s.PriceDistribution),
	}
}
