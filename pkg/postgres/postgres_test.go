package postgres

import (
	"testing"

	"github.com/DRSN-tech/catalog-service/internal/cfg"
)

func TestDSN(t *testing.T) {
	got := DSN(&cfg.PGDBCfg{
		Host:     "db",
		Port:     "5433",
		User:     "catalog",
		Password: "secret",
		DBName:   "catalog",
		SSLMode:  "disable",
	})
	want := "host=db port=5433 user=catalog password=secret dbname=catalog sslmode=disable"
	if got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}
}
