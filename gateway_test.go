package debtbook

import (
	"bytes"
	"context"
	"fmt"
	"sync"
)

// memGateway is an in-memory Gateway for tests. It keeps insertion order so
// assertions about stable sorting are deterministic, counts writes and
// deletes, and can be told to fail specific operations.
type memGateway struct {
	mu      sync.Mutex
	order   map[string][]string
	records map[string]map[string][]byte

	upserts int
	deletes int

	failDelete func(collection, id string) error
	failUpsert func(collection, id string) error
}

func newMemGateway() *memGateway {
	return &memGateway{
		order:   make(map[string][]string),
		records: make(map[string]map[string][]byte),
	}
}

func (m *memGateway) ReadAll(_ context.Context, collection string) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out [][]byte
	for _, id := range m.order[collection] {
		out = append(out, bytes.Clone(m.records[collection][id]))
	}
	return out, nil
}

func (m *memGateway) Upsert(_ context.Context, collection, id string, record []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpsert != nil {
		if err := m.failUpsert(collection, id); err != nil {
			return err
		}
	}
	if m.records[collection] == nil {
		m.records[collection] = make(map[string][]byte)
		m.order[collection] = nil
	}
	if _, exists := m.records[collection][id]; !exists {
		m.order[collection] = append(m.order[collection], id)
	}
	m.records[collection][id] = bytes.Clone(record)
	m.upserts++
	return nil
}

func (m *memGateway) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete != nil {
		if err := m.failDelete(collection, id); err != nil {
			return err
		}
	}
	if _, exists := m.records[collection][id]; !exists {
		return nil
	}
	delete(m.records[collection], id)
	for i, key := range m.order[collection] {
		if key == id {
			m.order[collection] = append(m.order[collection][:i], m.order[collection][i+1:]...)
			break
		}
	}
	m.deletes++
	return nil
}

func (m *memGateway) has(collection, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[collection][id]
	return ok
}

func (m *memGateway) len(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records[collection])
}

// mustPut seeds a record and fails the test on error at the call site.
func mustPut(m *memGateway, collection, id string, record []byte) {
	if err := m.Upsert(context.Background(), collection, id, record); err != nil {
		panic(fmt.Sprintf("seeding %s/%s: %v", collection, id, err))
	}
}

var _ Gateway = (*memGateway)(nil)
