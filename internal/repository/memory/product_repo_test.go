package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/shopspring/decimal"
)

func seed(t *testing.T, r *ProductRepo, items ...domain.Product) []domain.Product {
	t.Helper()
	res := make([]domain.Product, 0, len(items))
	for i := range items {
		created, err := r.Create(context.Background(), &items[i])
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		res = append(res, *created)
	}
	return res
}

func item(name, price string, stock int64) domain.Product {
	return *domain.NewProduct(name, "", decimal.RequireFromString(price), stock, true)
}

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepo()
	created := seed(t, r, item("a", "10.50", 3))[0]
	if created.ID != 1 || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected created product: %+v", created)
	}

	created.Stock = 7
	updated, err := r.Update(ctx, &created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Stock != 7 || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("unexpected updated product: %+v", updated)
	}

	got, err := r.GetByID(ctx, created.ID)
	if err != nil || got.Stock != 7 {
		t.Fatalf("get after update: %+v (%v)", got, err)
	}

	if err := r.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.GetByID(ctx, created.ID); !errors.Is(err, e.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := r.Delete(ctx, created.ID); !errors.Is(err, e.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
}

func TestAggregates(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepo()
	seed(t, r, item("a", "10", 2), item("b", "20.5", 0), item("c", "5", 4))

	sum, _ := r.Sum(ctx, domain.FieldStockValue, domain.AllProducts())
	if !sum.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("stock value = %s, want 40", sum)
	}
	stock, _ := r.Sum(ctx, domain.FieldStock, domain.LowStock())
	if !stock.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("low stock sum = %s, want 6", stock)
	}
	avg, _ := r.Avg(ctx, domain.FieldPrice)
	if !avg.Valid || !avg.Decimal.Equal(decimal.RequireFromString("11.8333333333333333")) {
		t.Fatalf("avg = %+v", avg)
	}
	lo, _ := r.Min(ctx, domain.FieldPrice)
	hi, _ := r.Max(ctx, domain.FieldPrice)
	if !lo.Decimal.Equal(decimal.NewFromInt(5)) || !hi.Decimal.Equal(decimal.RequireFromString("20.5")) {
		t.Fatalf("min/max = %s/%s", lo.Decimal, hi.Decimal)
	}
	n, _ := r.Count(ctx, domain.OutOfStock())
	if n != 1 {
		t.Fatalf("out of stock = %d, want 1", n)
	}
}

func TestAggregatesOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepo()

	if n, _ := r.Count(ctx, domain.AllProducts()); n != 0 {
		t.Fatalf("count = %d", n)
	}
	if s, _ := r.Sum(ctx, domain.FieldStockValue, domain.AllProducts()); !s.IsZero() {
		t.Fatalf("sum = %s", s)
	}
	for name, get := range map[string]func(context.Context, domain.AggregateField) (decimal.NullDecimal, error){
		"avg": r.Avg, "min": r.Min, "max": r.Max,
	} {
		v, err := get(ctx, domain.FieldPrice)
		if err != nil || v.Valid {
			t.Fatalf("%s on empty store = %+v (%v)", name, v, err)
		}
	}
}

func TestFetchAllOrderIsStable(t *testing.T) {
	r := NewProductRepo()
	seed(t, r, item("a", "1", 5), item("b", "1", 0), item("c", "1", 5), item("d", "1", 20), item("e", "1", 0))

	got, err := r.FetchAll(context.Background(), domain.CriticalStock(), domain.OrderBy(domain.SortByStock, false))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := []string{"b", "e", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %d products, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d: got %s, want %s", i, got[i].Name, name)
		}
	}
}

func TestUnknownAggregateField(t *testing.T) {
	r := NewProductRepo()
	seed(t, r, item("a", "1", 1))
	if _, err := r.Sum(context.Background(), "weight", domain.AllProducts()); !errors.Is(err, e.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestConcurrentCreates(t *testing.T) {
	r := NewProductRepo()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := item("p", "1", 1)
			_, _ = r.Create(context.Background(), &p)
		}()
	}
	wg.Wait()

	n, _ := r.Count(context.Background(), domain.AllProducts())
	if n != 50 {
		t.Fatalf("expected 50 products, got %d", n)
	}
}

func TestUserRepoCount(t *testing.T) {
	r := NewUserRepo()
	r.Add("Admin User", "admin@example.com")
	r.Add("Test User", "test@example.com")
	if n, _ := r.Count(context.Background()); n != 2 {
		t.Fatalf("expected 2 users, got %d", n)
	}
}
