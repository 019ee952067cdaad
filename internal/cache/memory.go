package cache

import (
	"container/list"
	"sync"
)

// Memory is an LRU bounded by entry count.
type Memory struct {
	capacity int

	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List
}

type memoryEntry struct {
	key     string
	samples []float32
}

// NewMemory returns an LRU holding at most capacity waveforms.
func NewMemory(capacity int) *Memory {
	return &Memory{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the stored slice and marks it most recently used.
func (m *Memory) Get(key string) ([]float32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return nil, false
	}
	m.order.MoveToFront(elem)
	return elem.Value.(*memoryEntry).samples, true
}

// Put inserts or replaces key, evicting the least recently used entries.
func (m *Memory) Put(key string, samples []float32) {
	if m.capacity <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[key]; ok {
		elem.Value.(*memoryEntry).samples = samples
		m.order.MoveToFront(elem)
		return
	}
	for m.order.Len() >= m.capacity {
		oldest := m.order.Back()
		m.order.Remove(oldest)
		delete(m.items, oldest.Value.(*memoryEntry).key)
	}
	m.items[key] = m.order.PushFront(&memoryEntry{key: key, samples: samples})
}

// Len returns the number of stored waveforms.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
