package tr

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/catalog-service/pkg/e"
)

func TestTxFromCtxMissing(t *testing.T) {
	if _, err := TxFromCtx(context.Background()); !errors.Is(err, e.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestTxFromCtxWrongType(t *testing.T) {
	ctx := WithTx(context.Background(), "not a tx")
	if _, err := TxFromCtx(ctx); !errors.Is(err, e.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}
