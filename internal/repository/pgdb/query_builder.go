package pgdb

import (
	"fmt"
	"strings"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/pkg/e"
)

const productColumns = "id, name, description, price, stock, is_active, created_at, updated_at"

// orderColumns — разрешённые для ORDER BY колонки. Значение из запроса в SQL напрямую не попадает.
var orderColumns = map[domain.SortField]string{
	domain.SortByID:        "id",
	domain.SortByName:      "name",
	domain.SortByPrice:     "price",
	domain.SortByStock:     "stock",
	domain.SortByIsActive:  "is_active",
	domain.SortByCreatedAt: "created_at",
	domain.SortByUpdatedAt: "updated_at",
}

// whereBuilder собирает условия WHERE с позиционными параметрами $n.
type whereBuilder struct {
	conds []string
	args  []any
}

// add добавляет условие; cond содержит ровно одну ссылку на параметр в формате %[1]d.
func (b *whereBuilder) add(cond string, arg any) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, fmt.Sprintf(cond, len(b.args)))
}

func (b *whereBuilder) String() string {
	if len(b.conds) == 0 {
		return ""
	}

	return " WHERE " + strings.Join(b.conds, " AND ")
}

// buildWhere переводит фильтр товаров в SQL-условие и список аргументов.
func buildWhere(filter domain.ProductFilter) (string, []any) {
	var b whereBuilder

	if filter.IsActive != nil {
		b.add("is_active = $%[1]d", *filter.IsActive)
	}
	if filter.StockEquals != nil {
		b.add("stock = $%[1]d", *filter.StockEquals)
	}
	if filter.StockAbove != nil {
		b.add("stock > $%[1]d", *filter.StockAbove)
	}
	if filter.StockAtMost != nil {
		b.add("stock <= $%[1]d", *filter.StockAtMost)
	}
	if filter.PriceFrom != nil {
		b.add("price >= $%[1]d", *filter.PriceFrom)
	}
	if filter.PriceBelow != nil {
		b.add("price < $%[1]d", *filter.PriceBelow)
	}
	if filter.Search != "" {
		b.add("(name ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+escapeLike(filter.Search)+"%")
	}

	return b.String(), b.args
}

// buildOrder возвращает ORDER BY с добивкой по id для стабильного порядка.
func buildOrder(order domain.ProductOrder) (string, error) {
	column, ok := orderColumns[order.Field]
	if !ok {
		return "", e.Wrap("sort field "+string(order.Field), e.ErrInvalidSort)
	}

	direction := "ASC"
	if order.Desc {
		direction = "DESC"
	}

	if column == "id" {
		return fmt.Sprintf(" ORDER BY id %s", direction), nil
	}

	return fmt.Sprintf(" ORDER BY %s %s, id ASC", column, direction), nil
}

// aggregateExpr возвращает SQL-выражение для агрегируемого поля.
func aggregateExpr(field domain.AggregateField) (string, error) {
	switch field {
	case domain.FieldPrice:
		return "price", nil
	case domain.FieldStock:
		return "stock", nil
	case domain.FieldStockValue:
		return "price * stock", nil
	default:
		return "", e.Wrap("aggregate field "+string(field), e.ErrInvalidFilter)
	}
}

// escapeLike экранирует спецсимволы шаблона LIKE.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
