package store

import "sync"

// MemoryStore is an in-memory rule store for testing and embedding.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	rules  []Rule
	byName map[string]int // name -> index into rules
	closed bool
}

// NewMemoryStore creates a new in-memory rule store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byName: make(map[string]int),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(rule Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	if _, exists := m.byName[rule.Name]; exists {
		return ErrNameExists
	}

	m.byName[rule.Name] = len(m.rules)
	m.rules = append(m.rules, rule)
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(name string) (Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Rule{}, ErrStoreClosed
	}
	i, ok := m.byName[name]
	if !ok {
		return Rule{}, ErrNotFound
	}
	return m.rules[i], nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	out := make([]Rule, len(m.rules))
	copy(out, m.rules)
	return out, nil
}

// Count implements Store.
func (m *MemoryStore) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrStoreClosed
	}
	return len(m.rules), nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	i, ok := m.byName[name]
	if !ok {
		return ErrNotFound
	}

	m.rules = append(m.rules[:i], m.rules[i+1:]...)
	delete(m.byName, name)
	for j := i; j < len(m.rules); j++ {
		m.byName[m.rules[j].Name] = j
	}
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
