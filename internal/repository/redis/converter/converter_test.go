package converter

import (
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/shopspring/decimal"
)

func TestProductConverterKeepsPrecision(t *testing.T) {
	conv := NewProductConverter()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	product := &domain.Product{
		ID:        7,
		Name:      "Lamp",
		Price:     decimal.RequireFromString("1999.9"),
		Stock:     3,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	model := conv.ToRedisModel(product)
	if model.Price != "1999.90" {
		t.Fatalf("price = %q, want 1999.90", model.Price)
	}

	back, err := conv.ToEntity(model)
	if err != nil {
		t.Fatalf("ToEntity: %v", err)
	}
	if !back.Price.Equal(product.Price) || back.ID != 7 || back.Stock != 3 || !back.CreatedAt.Equal(now) {
		t.Fatalf("unexpected entity: %+v", back)
	}
}

func TestProductConverterRejectsBadPrice(t *testing.T) {
	if _, err := NewProductConverter().ToEntity(&ProductRedisModel{ID: 1, Price: "abc"}); err == nil {
		t.Fatal("expected error for malformed price")
	}
}
