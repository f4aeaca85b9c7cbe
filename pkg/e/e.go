package e

import (
	"errors"
	"fmt"
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = errors.New("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = errors.New("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest    = errors.New("bad request")
	ErrInvalidBody         = errors.New("invalid request body")
	ErrInvalidID           = errors.New("invalid product id")
	ErrProductNameRequired = errors.New("product name is required")
	ErrProductNameTooLong  = errors.New("product name is too long")
	ErrInvalidPrice        = errors.New("price must be a non-negative number")
	ErrPricePrecision      = errors.New("price must have at most 2 decimal places")
	ErrPriceTooLarge       = errors.New("price must be less than 10000000000")
	ErrNegativeStock       = errors.New("stock must be a non-negative integer")
	ErrInvalidSort         = errors.New("invalid sort parameter")
	ErrInvalidFilter       = errors.New("invalid filter parameter")

	// 404 Not Found
	ErrProductNotFound = errors.New("product not found")

	// 500 Internal Server Error
	ErrInternalServerError = errors.New("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
