package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string { return "session:access:" + accessID }

func TestSessionCreateHasRevoke(t *testing.T) {
	ctx := context.Background()
	m := &Manager{store: newFakeStore(), keyer: fakeKeyer{}, ttl: time.Minute}

	accessID := NewAccessID()
	if err := m.Create(ctx, accessID, uuid.New()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	ok, err := m.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session failed: %v", err)
	}
	if !ok {
		t.Fatal("expected active session")
	}

	if err := m.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	ok, err = m.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session after revoke failed: %v", err)
	}
	if ok {
		t.Fatal("expected session gone after revoke")
	}
}

func TestSessionRequiresAccessID(t *testing.T) {
	m := &Manager{store: newFakeStore(), keyer: fakeKeyer{}, ttl: time.Minute}
	if err := m.Create(context.Background(), " ", uuid.New()); err == nil {
		t.Fatal("expected blank access id to fail")
	}
	if _, err := m.HasSession(context.Background(), ""); err == nil {
		t.Fatal("expected blank access id to fail")
	}
}
