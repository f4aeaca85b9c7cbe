package domain

import "time"

// User описывает зарегистрированного пользователя. Каталог только считает пользователей.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}
