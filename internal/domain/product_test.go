package domain

import (
	"errors"
	"testing"

	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/shopspring/decimal"
)

func product(price string, stock int64, active bool) *Product {
	return NewProduct("p", "", decimal.RequireFromString(price), stock, active)
}

func TestStockStatus(t *testing.T) {
	cases := []struct {
		stock int64
		want  StockStatus
	}{
		{0, StockStatusOutOfStock},
		{1, StockStatusLowStock},
		{10, StockStatusLowStock},
		{11, StockStatusAdequate},
	}
	for _, c := range cases {
		if got := product("1", c.stock, true).StockStatus(); got != c.want {
			t.Fatalf("stock %d: got %s, want %s", c.stock, got, c.want)
		}
	}
}

func TestStockValue(t *testing.T) {
	got := product("19.99", 3, true).StockValue()
	if !got.Equal(decimal.RequireFromString("59.97")) {
		t.Fatalf("unexpected stock value %s", got)
	}
}

func TestStockFiltersPartition(t *testing.T) {
	for stock := int64(0); stock <= 25; stock++ {
		p := product("10", stock, true)
		matched := 0
		for _, f := range []ProductFilter{OutOfStock(), LowStock(), AdequateStock()} {
			if f.Matches(p) {
				matched++
			}
		}
		if matched != 1 {
			t.Fatalf("stock %d matched %d stock filters", stock, matched)
		}
		if CriticalStock().Matches(p) != (stock <= LowStockThreshold) {
			t.Fatalf("critical filter mismatch for stock %d", stock)
		}
	}
}

func TestPriceBucketsPartition(t *testing.T) {
	for _, price := range []string{"0", "49.99", "50", "99.99", "100", "249.99", "250", "499.99", "500", "10000"} {
		p := product(price, 1, true)
		matched := 0
		for _, b := range PriceBuckets() {
			if b.Filter().Matches(p) {
				matched++
			}
		}
		if matched != 1 {
			t.Fatalf("price %s matched %d buckets", price, matched)
		}
	}
}

func TestFilterActiveAndSearch(t *testing.T) {
	p := NewProduct("Wireless Mouse", "Ergonomic", decimal.NewFromInt(49), 5, false)
	if ActiveProducts().Matches(p) || !InactiveProducts().Matches(p) {
		t.Fatalf("active filters mismatch")
	}
	if !(ProductFilter{Search: "mouse"}).Matches(p) {
		t.Fatalf("expected name search to match")
	}
	if !(ProductFilter{Search: "ERGO"}).Matches(p) {
		t.Fatalf("expected description search to match")
	}
	if (ProductFilter{Search: "keyboard"}).Matches(p) {
		t.Fatalf("unexpected search match")
	}
}

func TestParseProductOrder(t *testing.T) {
	o, err := ParseProductOrder("price:desc")
	if err != nil || o.Field != SortByPrice || !o.Desc {
		t.Fatalf("unexpected order %+v (%v)", o, err)
	}

	o, err = ParseProductOrder("name")
	if err != nil || o.Field != SortByName || o.Desc {
		t.Fatalf("unexpected order %+v (%v)", o, err)
	}

	o, err = ParseProductOrder("")
	if err != nil || o != DefaultOrder() {
		t.Fatalf("unexpected default order %+v (%v)", o, err)
	}

	for _, raw := range []string{"password:asc", "price;drop table products", "price:sideways", "price desc"} {
		if _, err := ParseProductOrder(raw); !errors.Is(err, e.ErrInvalidSort) {
			t.Fatalf("%q: expected ErrInvalidSort, got %v", raw, err)
		}
	}
}

func TestOrderCompareTieBreaksByID(t *testing.T) {
	a := product("10", 5, true)
	a.ID = 2
	b := product("10", 5, true)
	b.ID = 1

	if OrderBy(SortByStock, false).Compare(a, b) <= 0 {
		t.Fatalf("expected lower id first on equal stock")
	}
	if OrderBy(SortByStock, true).Compare(a, b) <= 0 {
		t.Fatalf("tie break must stay ascending for desc order")
	}
}
