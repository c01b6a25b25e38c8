package wshub

import (
	"context"
	"errors"
	"testing"

	"github.com/Harish01234/vahanseva/pkg/logger"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

func testHub() *ConnectionHub {
	return NewConnHub(logger.InitLogger("wshub-test", logger.LevelError))
}

func TestHub_AddAndGet(t *testing.T) {
	hub := testHub()
	id := uuid.New()
	conn := NewConn(context.Background(), id, nil)

	if err := hub.Add(conn); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := hub.GetConn(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != conn {
		t.Fatal("hub returned a different connection")
	}

	if _, err := hub.GetConn(uuid.New()); !errors.Is(err, ErrConnIsNotFound) {
		t.Fatalf("expected ErrConnIsNotFound, got %v", err)
	}
}

func TestHub_AddNil(t *testing.T) {
	hub := testHub()
	if err := hub.Add(nil); !errors.Is(err, ErrEmptyConn) {
		t.Fatalf("expected ErrEmptyConn, got %v", err)
	}
}

func TestHub_ReplaceThenRemoveStale(t *testing.T) {
	hub := testHub()
	id := uuid.New()

	first := NewConn(context.Background(), id, nil)
	second := NewConn(context.Background(), id, nil)

	if err := hub.Add(first); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if err := hub.Add(second); err != nil {
		t.Fatalf("add second: %v", err)
	}

	// The stale handler must not tear down the replacement.
	if err := hub.Remove(first); !errors.Is(err, ErrConnIsNotFound) {
		t.Fatalf("expected ErrConnIsNotFound for replaced conn, got %v", err)
	}

	got, err := hub.GetConn(id)
	if err != nil {
		t.Fatalf("replacement gone: %v", err)
	}
	if got != second {
		t.Fatal("expected the replacement connection to survive")
	}

	if err := hub.Remove(second); err != nil {
		t.Fatalf("remove current: %v", err)
	}
	if _, err := hub.GetConn(id); !errors.Is(err, ErrConnIsNotFound) {
		t.Fatalf("expected empty hub, got %v", err)
	}

	// Close must not block: every Add slot was released above.
	hub.Close()
}

func TestHub_DeleteUnknown(t *testing.T) {
	hub := testHub()
	if err := hub.Delete(uuid.New()); !errors.Is(err, ErrConnIsNotFound) {
		t.Fatalf("expected ErrConnIsNotFound, got %v", err)
	}
}
