package catalog

import "sync"

// StateMap holds one FilterState per key (set code, feed tab, ...).
// States are materialized lazily with the map's defaults on first access,
// so an unseen key is never an error. Safe for concurrent use: all
// mutation goes through Update, which holds the map's lock for the whole
// callback, and Get hands out snapshots rather than shared pointers.
type StateMap struct {
	mu          sync.Mutex
	states      map[string]*FilterState
	defaultSort string
	pageSize    int
}

// NewStateMap creates a state map whose lazily created states use the
// given default sort option and page size.
func NewStateMap(defaultSort string, pageSize int) *StateMap {
	return &StateMap{
		states:      make(map[string]*FilterState),
		defaultSort: defaultSort,
		pageSize:    pageSize,
	}
}

// get returns the live state for key. The caller must hold mu.
func (m *StateMap) get(key string) *FilterState {
	s, ok := m.states[key]
	if !ok {
		def := DefaultFilterState(m.defaultSort, m.pageSize)
		s = &def
		m.states[key] = s
	}
	return s
}

// Get returns a snapshot of the state for key, creating a default one if
// the key has not been seen before. The snapshot is the caller's own
// copy; mutating it has no effect on the stored state.
func (m *StateMap) Get(key string) FilterState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot(m.get(key))
}

// Update applies fn to the state for key under the map's lock, creating
// the state first if needed, and returns fn's error. Filtering work
// done inside fn is serialized per map, so callers may read, mutate and
// apply the state in one atomic step.
func (m *StateMap) Update(key string, fn func(*FilterState) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.get(key))
}

// Reset restores the state for key to defaults.
func (m *StateMap) Reset(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(key).Reset(m.defaultSort)
}

// snapshot copies a state, cloning the color filter slice so the copy
// shares no memory with the original.
func snapshot(s *FilterState) FilterState {
	out := *s
	out.ColorFilters = append([]string(nil), s.ColorFilters...)
	return out
}
