package store

import (
	"context"
	"sync"

	"amartaka-bot/internal/model"
)

// Memory keeps the encoded document in memory. Used by tests and for
// throwaway runs with store.driver=memory.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) View(ctx context.Context, fn func(doc *model.Document) error) error {
	m.mu.Lock()
	data := m.data
	m.mu.Unlock()

	doc, err := Decode(data)
	if err != nil {
		return err
	}
	return fn(doc)
}

func (m *Memory) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := Decode(m.data)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}

func (m *Memory) Close() error { return nil }
