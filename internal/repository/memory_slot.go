package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemorySlotStore is an in-process SlotStore with an injectable failure,
// used where no database is wanted.
type MemorySlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
	fail  error
}

func NewMemorySlotStore() *MemorySlotStore {
	return &MemorySlotStore{slots: make(map[string][]byte)}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (s *MemorySlotStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *MemorySlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fail != nil {
		return nil, s.fail
	}
	v, ok := s.slots[key]
	if !ok {
		return nil, fmt.Errorf("slot %q: %w", key, ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

func (s *MemorySlotStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail != nil {
		return s.fail
	}
	s.slots[key] = append([]byte{}, value...)
	return nil
}

func (s *MemorySlotStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail != nil {
		return s.fail
	}
	delete(s.slots, key)
	return nil
}

func (s *MemorySlotStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fail != nil {
		return nil, s.fail
	}
	var keys []string
	for k := range s.slots {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
