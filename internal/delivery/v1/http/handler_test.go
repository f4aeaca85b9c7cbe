package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DRSN-tech/catalog-service/internal/repository/memory"
	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type testAPI struct {
	handler http.Handler
	users   *memory.UserRepo
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := logger.NewNop()
	products := memory.NewProductRepo()
	users := memory.NewUserRepo()

	prUC := usecase.NewProductUC(products, nil, memory.NewTransactor(), nil, nil, log)
	statsUC := usecase.NewStatisticsUC(products, users, log)

	mux := chi.NewRouter()
	NewRouter(mux, log).Init(prUC, statsUC, "/swagger/doc.json")

	return &testAPI{handler: mux, users: users}
}

func (a *testAPI) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("%s %s: invalid json %q: %v", method, path, rec.Body.String(), err)
	}

	return rec.Code, decoded
}

func (a *testAPI) seed(t *testing.T, bodies ...string) {
	t.Helper()
	for _, b := range bodies {
		if code, res := a.do(t, http.MethodPost, "/api/v1/products", b); code != http.StatusCreated {
			t.Fatalf("seed %s: %d %v", b, code, res)
		}
	}
}

func TestCreateAndGetProduct(t *testing.T) {
	api := newTestAPI(t)

	code, res := api.do(t, http.MethodPost, "/api/v1/products",
		`{"name":"Chair","description":"oak","price":"149.90","stock":12}`)
	if code != http.StatusCreated {
		t.Fatalf("create: %d %v", code, res)
	}
	if res["message"] != "Product created successfully" {
		t.Fatalf("unexpected message: %v", res["message"])
	}
	data := res["data"].(map[string]any)
	if data["id"] != float64(1) || data["price"] != 149.9 || data["is_active"] != true {
		t.Fatalf("unexpected product: %v", data)
	}

	code, res = api.do(t, http.MethodGet, "/api/v1/products/1", "")
	if code != http.StatusOK {
		t.Fatalf("get: %d %v", code, res)
	}
	if res["data"].(map[string]any)["name"] != "Chair" {
		t.Fatalf("unexpected product: %v", res)
	}
}

func TestCreateProductValidation(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		body string
		msg  string
	}{
		{`{"name":"","price":10}`, "product name is required"},
		{`{"name":"x"}`, "price must be a non-negative number"},
		{`{"name":"x","price":-1}`, "price must be a non-negative number"},
		{`{"name":"x","price":1.999}`, "price must have at most 2 decimal places"},
		{`{"name":"x","price":10000000000}`, "price must be less than 10000000000"},
		{`{"name":"x","price":1,"stock":-3}`, "stock must be a non-negative integer"},
		{`{"name":"x","price":1,"stock":2.5}`, "invalid request body"},
		{`not json`, "invalid request body"},
	}

	for _, c := range cases {
		code, res := api.do(t, http.MethodPost, "/api/v1/products", c.body)
		if code != http.StatusBadRequest || res["message"] != c.msg {
			t.Fatalf("%s: got %d %v, want 400 %q", c.body, code, res, c.msg)
		}
	}
}

func TestListProducts(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t,
		`{"name":"Red chair","price":80,"stock":4}`,
		`{"name":"Blue table","price":300,"stock":1,"is_active":false}`,
		`{"name":"Lamp","description":"red shade","price":25,"stock":9}`,
	)

	code, res := api.do(t, http.MethodGet, "/api/v1/products?sort=price:desc", "")
	if code != http.StatusOK {
		t.Fatalf("list: %d %v", code, res)
	}
	items := res["data"].([]any)
	if len(items) != 3 || items[0].(map[string]any)["name"] != "Blue table" {
		t.Fatalf("unexpected order: %v", items)
	}

	_, res = api.do(t, http.MethodGet, "/api/v1/products?search=red&is_active=true", "")
	if items := res["data"].([]any); len(items) != 2 {
		t.Fatalf("unexpected search result: %v", items)
	}

	for _, q := range []string{"sort=password:asc", "sort=price:sideways", "is_active=maybe"} {
		if code, res := api.do(t, http.MethodGet, "/api/v1/products?"+q, ""); code != http.StatusBadRequest {
			t.Fatalf("%s: got %d %v, want 400", q, code, res)
		}
	}
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t, `{"name":"Desk","price":120,"stock":5}`)

	code, res := api.do(t, http.MethodPatch, "/api/v1/products/1", `{"stock":0}`)
	if code != http.StatusOK || res["message"] != "Product updated successfully" {
		t.Fatalf("patch: %d %v", code, res)
	}
	data := res["data"].(map[string]any)
	if data["stock"] != float64(0) || data["name"] != "Desk" {
		t.Fatalf("unexpected product: %v", data)
	}

	if code, res := api.do(t, http.MethodPut, "/api/v1/products/7", `{"stock":1}`); code != http.StatusNotFound {
		t.Fatalf("put missing: %d %v", code, res)
	}

	code, res = api.do(t, http.MethodDelete, "/api/v1/products/1", "")
	if code != http.StatusOK || res["message"] != "Product deleted successfully" {
		t.Fatalf("delete: %d %v", code, res)
	}
	if code, _ := api.do(t, http.MethodGet, "/api/v1/products/1", ""); code != http.StatusNotFound {
		t.Fatalf("deleted product still served: %d", code)
	}
	if code, _ := api.do(t, http.MethodGet, "/api/v1/products/abc", ""); code != http.StatusBadRequest {
		t.Fatalf("invalid id: %d", code)
	}
}

func TestStatisticsEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.users.Add("Ann", "ann@example.com")
	api.seed(t,
		`{"name":"a","price":25,"stock":0}`,
		`{"name":"b","price":25,"stock":0}`,
		`{"name":"c","price":25,"stock":0}`,
		`{"name":"d","price":75,"stock":5}`,
		`{"name":"e","price":75,"stock":5,"is_active":false}`,
		`{"name":"f","price":150,"stock":5}`,
		`{"name":"g","price":150,"stock":5}`,
		`{"name":"h","price":300,"stock":20}`,
	)

	code, res := api.do(t, http.MethodGet, "/api/v1/statistics/overview", "")
	if code != http.StatusOK {
		t.Fatalf("overview: %d %v", code, res)
	}
	overview := res["data"].(map[string]any)
	if overview["total_products"] != float64(8) || overview["inactive_products"] != float64(1) ||
		overview["total_users"] != float64(1) || overview["out_of_stock_products"] != float64(3) {
		t.Fatalf("unexpected overview: %v", overview)
	}
	// 2*75*5 + 2*150*5 + 300*20
	if overview["total_stock_value"] != float64(8250) {
		t.Fatalf("unexpected stock value: %v", overview["total_stock_value"])
	}

	_, res = api.do(t, http.MethodGet, "/api/v1/statistics/products", "")
	products := res["data"].(map[string]any)
	if products["average_price"] != 103.125 || products["highest_price"] != float64(300) || products["total_stock"] != float64(40) {
		t.Fatalf("unexpected product stats: %v", products)
	}

	_, res = api.do(t, http.MethodGet, "/api/v1/statistics/stock", "")
	stock := res["data"].(map[string]any)
	critical := stock["critical_products"].([]any)
	if stock["adequate_stock_products"] != float64(1) || len(critical) != 5 {
		t.Fatalf("unexpected stock stats: %v", stock)
	}
	first := critical[0].(map[string]any)
	if first["status"] != "out_of_stock" || first["current_stock"] != float64(0) || first["stock_value"] != float64(0) {
		t.Fatalf("unexpected critical product: %v", first)
	}

	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/statistics/pricing", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("pricing: %d", rec.Code)
	}
	body := rec.Body.String()
	wantDistribution := `"price_distribution":{"under_50":3,"50_to_100":2,"100_to_250":2,"250_to_500":1,"over_500":0}`
	if !strings.Contains(body, wantDistribution) {
		t.Fatalf("distribution missing or out of order: %s", body)
	}
	for _, want := range []string{`"average_price":103.13`, `"median_price":75`, `"price_range":275`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}
}

func TestStatisticsOnEmptyCatalog(t *testing.T) {
	api := newTestAPI(t)

	_, res := api.do(t, http.MethodGet, "/api/v1/statistics/pricing", "")
	pricing := res["data"].(map[string]any)
	if pricing["average_price"] != float64(0) || pricing["median_price"] != float64(0) {
		t.Fatalf("unexpected pricing: %v", pricing)
	}
	for _, key := range []string{"highest_price", "lowest_price", "price_range"} {
		if v, ok := pricing[key]; !ok || v != nil {
			t.Fatalf("%s must be present and null, got %v", key, v)
		}
	}

	_, res = api.do(t, http.MethodGet, "/api/v1/statistics/stock", "")
	critical, ok := res["data"].(map[string]any)["critical_products"].([]any)
	if !ok || len(critical) != 0 {
		t.Fatalf("critical_products must be an empty array: %v", res)
	}
}

type failingStats struct{ usecase.StatisticsUC }

func (failingStats) Overview(context.Context) (*usecase.OverviewStats, error) {
	return nil, errors.New("connection reset by peer")
}

func TestStatisticsStoreFailure(t *testing.T) {
	log := logger.NewNop()
	mux := chi.NewRouter()
	NewRouter(mux, log).Init(nil, failingStats{}, "/swagger/doc.json")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/statistics/overview", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection reset") {
		t.Fatalf("internal error details leaked: %s", rec.Body.String())
	}
}
