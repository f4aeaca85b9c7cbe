package pgdb

import (
	"errors"
	"reflect"
	"testing"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/shopspring/decimal"
)

func TestBuildWhere(t *testing.T) {
	from := decimal.NewFromInt(50)
	below := decimal.NewFromInt(100)

	cases := []struct {
		name      string
		filter    domain.ProductFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "all products",
			filter:    domain.AllProducts(),
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "active",
			filter:    domain.ActiveProducts(),
			wantWhere: " WHERE is_active = $1",
			wantArgs:  []any{true},
		},
		{
			name:      "low stock",
			filter:    domain.LowStock(),
			wantWhere: " WHERE stock > $1 AND stock <= $2",
			wantArgs:  []any{int64(0), domain.LowStockThreshold},
		},
		{
			name:      "price range",
			filter:    domain.PriceRange(&from, &below),
			wantWhere: " WHERE price >= $1 AND price < $2",
			wantArgs:  []any{from, below},
		},
		{
			name:      "search reuses parameter",
			filter:    domain.ProductFilter{IsActive: new(bool), Search: "50%_off"},
			wantWhere: " WHERE is_active = $1 AND (name ILIKE $2 OR description ILIKE $2)",
			wantArgs:  []any{false, `%50\%\_off%`},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			where, args := buildWhere(c.filter)
			if where != c.wantWhere {
				t.Fatalf("where = %q, want %q", where, c.wantWhere)
			}
			if !reflect.DeepEqual(args, c.wantArgs) {
				t.Fatalf("args = %#v, want %#v", args, c.wantArgs)
			}
		})
	}
}

func TestBuildOrder(t *testing.T) {
	cases := []struct {
		order domain.ProductOrder
		want  string
	}{
		{domain.DefaultOrder(), " ORDER BY id ASC"},
		{domain.OrderBy(domain.SortByID, true), " ORDER BY id DESC"},
		{domain.OrderBy(domain.SortByStock, false), " ORDER BY stock ASC, id ASC"},
		{domain.OrderBy(domain.SortByPrice, true), " ORDER BY price DESC, id ASC"},
	}

	for _, c := range cases {
		got, err := buildOrder(c.order)
		if err != nil {
			t.Fatalf("buildOrder(%+v): %v", c.order, err)
		}
		if got != c.want {
			t.Fatalf("buildOrder(%+v) = %q, want %q", c.order, got, c.want)
		}
	}

	if _, err := buildOrder(domain.OrderBy("price; DROP TABLE products", false)); !errors.Is(err, e.ErrInvalidSort) {
		t.Fatalf("expected ErrInvalidSort, got %v", err)
	}
}

func TestAggregateExpr(t *testing.T) {
	got, err := aggregateExpr(domain.FieldStockValue)
	if err != nil || got != "price * stock" {
		t.Fatalf("aggregateExpr(stock_value) = %q, %v", got, err)
	}

	if _, err := aggregateExpr("password"); !errors.Is(err, e.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}
