package memory

import (
	"context"
	"sync"

	"github.com/gosom/submitmyurl/kv"
)

type backend struct {
	mu    *sync.RWMutex
	items map[string][]byte
}

func New() kv.Backend {
	ans := backend{
		mu:    &sync.RWMutex{},
		items: make(map[string][]byte),
	}

	return &ans
}

func (b *backend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.items[key]
	if !ok {
		return nil, kv.ErrNotFound
	}

	cp := make([]byte, len(value))
	copy(cp, value)

	return cp, nil
}

func (b *backend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)

	b.items[key] = cp

	return nil
}
