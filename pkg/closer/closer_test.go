package closer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCloseRunsInReverseOrder(t *testing.T) {
	c := NewCloser(0)

	var (
		mu    sync.Mutex
		order []string
	)
	for _, name := range []string{"db", "cache", "http"} {
		c.Add(name, func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}

	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if strings.Join(order, ",") != "http,cache,db" {
		t.Fatalf("order = %v", order)
	}

	// повторный вызов ничего не закрывает
	if err := c.Close(context.Background()); err != nil || len(order) != 3 {
		t.Fatalf("second Close: %v, order %v", err, order)
	}
}

func TestCloseCollectsErrors(t *testing.T) {
	c := NewCloser(0)
	c.Add("db", func(context.Context) error { return errors.New("boom") })
	c.Add("http", func(context.Context) error { return nil })

	err := c.Close(context.Background())
	if err == nil || !strings.Contains(err.Error(), "db: boom") {
		t.Fatalf("expected named error, got %v", err)
	}
}

func TestCloseForcesRemainingOnTimeout(t *testing.T) {
	c := NewCloser(time.Second)

	var dbClosed atomic.Int32
	c.Add("db", func(context.Context) error {
		dbClosed.Add(1)
		return nil
	})
	c.Add("slow", func(context.Context) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	if err == nil || !strings.Contains(err.Error(), "shutdown interrupted after 0/2") {
		t.Fatalf("expected interrupted shutdown, got %v", err)
	}
	if dbClosed.Load() != 1 {
		t.Fatalf("db closed %d times, want 1", dbClosed.Load())
	}
}
