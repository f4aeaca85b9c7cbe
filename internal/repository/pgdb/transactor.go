package pgdb

import (
	"context"

	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/DRSN-tech/catalog-service/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// Transactor открывает транзакцию PostgreSQL и кладёт её в контекст для репозиториев.
type Transactor struct {
	dbPool transaction.Transactional
	logger logger.Logger
}

func NewTransactor(dbPool transaction.Transactional, logger logger.Logger) *Transactor {
	return &Transactor{dbPool: dbPool, logger: logger}
}

// WithinTransaction коммитит транзакцию, если fn вернула nil, иначе откатывает её.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	const op = "Transactor.WithinTransaction"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, t.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				t.logger.Errorf(rbErr, "Failed to rollback transaction")
			}
		}
	}()

	if err = fn(tr.WithTx(ctx, tx.Transaction())); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
