package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

// querier — общее подмножество pgxpool.Pool и pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// conn возвращает транзакцию из контекста, а если её нет — пул.
func conn(ctx context.Context, pool *pgxpool.Pool) querier {
	if tx, err := tr.TxFromCtx(ctx); err == nil {
		return tx
	}

	return pool
}

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (name, description, price, stock, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + productColumns

	row := conn(ctx, p.pool).QueryRow(ctx, query,
		model.Name, model.Description, model.Price, model.Stock, model.IsActive,
	)
	if err := scanProduct(row, model); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var model converter.ProductModel
	if err := scanProduct(conn(ctx, p.pool).QueryRow(ctx, query, id), &model); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), notFound(err))
	}

	return p.conv.ToEntity(&model), nil
}

// GetByIDForUpdate блокирует строку товара до конца транзакции. Транзакция обязательна.
func (p *ProductRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	var model converter.ProductModel
	if err := scanProduct(tx.QueryRow(ctx, query, id), &model); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), notFound(err))
	}

	return p.conv.ToEntity(&model), nil
}

func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	row := conn(ctx, p.pool).QueryRow(ctx, query,
		model.ID, model.Name, model.Description, model.Price, model.Stock, model.IsActive,
	)
	if err := scanProduct(row, model); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), notFound(err))
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := conn(ctx, p.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// FetchAll возвращает товары, подходящие под фильтр, в заданном порядке.
func (p *ProductRepo) FetchAll(ctx context.Context, filter domain.ProductFilter, order domain.ProductOrder) ([]domain.Product, error) {
	where, args := buildWhere(filter)
	orderBy, err := buildOrder(order)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	rows, err := conn(ctx, p.pool).Query(ctx, `SELECT `+productColumns+` FROM products`+where+orderBy, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]converter.ProductModel, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := scanProduct(rows, &model); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iterator error: %w", whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

func (p *ProductRepo) Count(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	where, args := buildWhere(filter)

	var count int64
	if err := conn(ctx, p.pool).QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&count); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return count, nil
}

// Sum на пустом наборе возвращает 0.
func (p *ProductRepo) Sum(ctx context.Context, field domain.AggregateField, filter domain.ProductFilter) (decimal.Decimal, error) {
	expr, err := aggregateExpr(field)
	if err != nil {
		return decimal.Zero, e.Wrap(whereami.WhereAmI(), err)
	}
	where, args := buildWhere(filter)

	var sum decimal.Decimal
	query := fmt.Sprintf(`SELECT COALESCE(SUM(%s), 0) FROM products`, expr) + where
	if err := conn(ctx, p.pool).QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, e.Wrap(whereami.WhereAmI(), err)
	}

	return sum, nil
}

func (p *ProductRepo) Avg(ctx context.Context, field domain.AggregateField) (decimal.NullDecimal, error) {
	return p.aggregate(ctx, "AVG", field)
}

func (p *ProductRepo) Min(ctx context.Context, field domain.AggregateField) (decimal.NullDecimal, error) {
	return p.aggregate(ctx, "MIN", field)
}

func (p *ProductRepo) Max(ctx context.Context, field domain.AggregateField) (decimal.NullDecimal, error) {
	return p.aggregate(ctx, "MAX", field)
}

// aggregate выполняет AVG/MIN/MAX по всем товарам; на пустой таблице результат NULL.
func (p *ProductRepo) aggregate(ctx context.Context, fn string, field domain.AggregateField) (decimal.NullDecimal, error) {
	expr, err := aggregateExpr(field)
	if err != nil {
		return decimal.NullDecimal{}, e.Wrap(whereami.WhereAmI(), err)
	}

	var res decimal.NullDecimal
	query := fmt.Sprintf(`SELECT %s(%s) FROM products`, fn, expr)
	if err := conn(ctx, p.pool).QueryRow(ctx, query).Scan(&res); err != nil {
		return decimal.NullDecimal{}, e.Wrap(whereami.WhereAmI(), err)
	}

	return res, nil
}

func scanProduct(row pgx.Row, model *converter.ProductModel) error {
	return row.Scan(
		&model.ID, &model.Name, &model.Description, &model.Price, &model.Stock,
		&model.IsActive, &model.CreatedAt, &model.UpdatedAt,
	)
}

// notFound переводит pgx.ErrNoRows в доменную ошибку.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return e.ErrProductNotFound
	}

	return err
}
