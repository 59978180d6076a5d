package store

import (
	"context"
	"sync"

	"github.com/goliatone/go-settingsgen/pkg/model"
)

// Memory keeps the record in process. It is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	record model.Record
	closed bool
}

var _ Store = (*Memory)(nil)

// NewMemory returns a Memory store seeded with a copy of initial.
func NewMemory(initial model.Record) *Memory {
	record := make(model.Record, len(initial))
	for key, value := range initial {
		record[key] = normalizeValue(value)
	}
	return &Memory{record: record}
}

func (m *Memory) Load(ctx context.Context) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	return cloneRecord(m.record), nil
}

func (m *Memory) Save(ctx context.Context, record model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for key, value := range record {
		m.record[key] = normalizeValue(value)
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for _, key := range keys {
		delete(m.record, key)
	}
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
