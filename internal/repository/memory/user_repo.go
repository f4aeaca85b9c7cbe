package memory

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/domain"
)

// UserRepo хранит пользователей в памяти; каталогу нужен только их счётчик.
type UserRepo struct {
	mu    sync.RWMutex
	users []domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{}
}

// Add регистрирует пользователя и возвращает его с присвоенным ID.
func (r *UserRepo) Add(name, email string) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := domain.User{
		ID:        int64(len(r.users) + 1),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	r.users = append(r.users, u)

	return u
}

func (r *UserRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.users)), nil
}
