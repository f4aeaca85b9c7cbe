package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// badRequestErrors — ошибки клиента, текст которых отдаётся как есть.
var badRequestErrors = []error{
	e.ErrInvalidBody,
	e.ErrInvalidID,
	e.ErrProductNameRequired,
	e.ErrProductNameTooLong,
	e.ErrInvalidPrice,
	e.ErrPricePrecision,
	e.ErrPriceTooLarge,
	e.ErrNegativeStock,
	e.ErrInvalidSort,
	e.ErrInvalidFilter,
	e.ErrStatusBadRequest,
}

func ToHTTPResponse(err error) (int, string) {
	if errors.Is(err, e.ErrProductNotFound) {
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, target.Error()
		}
	}

	return http.StatusInternalServerError, e.ErrInternalServerError.Error()
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst, ограничивая его размер.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return e.Wrap(whereami.WhereAmI()+": "+err.Error(), e.ErrInvalidBody)
	}

	return nil
}

// parseID достаёт положительный ID товара из пути.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap("id="+raw, e.ErrInvalidID)
	}

	return id, nil
}

// parseOptionalBool разбирает необязательный булев query-параметр.
func parseOptionalBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, e.Wrap(key+"="+raw, e.ErrInvalidFilter)
	}

	return &v, nil
}

// money выводит сумму JSON-числом без потери точности.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// nullableMoney выводит null для отсутствующего значения.
func nullableMoney(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}

	n := money(d.Decimal)
	return &n
}
