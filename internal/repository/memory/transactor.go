package memory

import (
	"context"
	"sync"
)

// Transactor сериализует транзакции над хранилищами в памяти.
// Отката нет: fn должна менять состояние только последним шагом.
type Transactor struct {
	mu sync.Mutex
}

func NewTransactor() *Transactor {
	return &Transactor{}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return fn(ctx)
}
