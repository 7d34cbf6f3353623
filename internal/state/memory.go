package state

import "time"

// MemoryStore is an in-memory Store used by tests and dry runs.
type MemoryStore struct {
	sources map[string]*SourceState
	alerts  *AlertState
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sources: map[string]*SourceState{}}
}

func (m *MemoryStore) source(name string) *SourceState {
	src, ok := m.sources[name]
	if !ok {
		src = &SourceState{Seen: SeenSet{}}
		m.sources[name] = src
	}
	return src
}

// LoadSeen implements Store.
func (m *MemoryStore) LoadSeen(sourceName string) (SeenSet, error) {
	src, ok := m.sources[sourceName]
	if !ok {
		return SeenSet{}, nil
	}
	out := make(SeenSet, len(src.Seen))
	for fp, t := range src.Seen {
		out[fp] = t
	}
	return out, nil
}

// SaveSeen implements Store.
func (m *MemoryStore) SaveSeen(sourceName string, seen SeenSet) error {
	cp := make(SeenSet, len(seen))
	for fp, t := range seen {
		cp[fp] = t
	}
	m.source(sourceName).Seen = cp
	return nil
}

// LoadAlertState implements Store.
func (m *MemoryStore) LoadAlertState() (*AlertState, error) {
	if m.alerts == nil {
		return &AlertState{}, nil
	}
	cp := *m.alerts
	return &cp, nil
}

// SaveAlertState implements Store.
func (m *MemoryStore) SaveAlertState(st *AlertState) error {
	cp := *st
	m.alerts = &cp
	return nil
}

// LastFetch implements Store.
func (m *MemoryStore) LastFetch(sourceName string) (time.Time, bool, error) {
	src, ok := m.sources[sourceName]
	if !ok || src.LastFetch == nil {
		return time.Time{}, false, nil
	}
	return *src.LastFetch, true, nil
}

// SetLastFetch implements Store.
func (m *MemoryStore) SetLastFetch(sourceName string, t time.Time) error {
	m.source(sourceName).LastFetch = &t
	return nil
}

// ZeroRuns implements Store.
func (m *MemoryStore) ZeroRuns(sourceName string) (int, error) {
	src, ok := m.sources[sourceName]
	if !ok {
		return 0, nil
	}
	return src.ZeroRuns, nil
}

// SetZeroRuns implements Store.
func (m *MemoryStore) SetZeroRuns(sourceName string, n int) error {
	m.source(sourceName).ZeroRuns = n
	return nil
}
