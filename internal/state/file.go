package state

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/terry-li-hm/lustro/internal/atomicfile"
)

// fileState is the on-disk layout of the single state file.
type fileState struct {
	Version int                     `json:"version"`
	Sources map[string]*SourceState `json:"sources"`
	Alerts  *AlertState             `json:"alerts,omitempty"`
}

// FileStore persists state in one JSON file. It is the sole writer of that
// file; every save rewrites it via temp-file-and-atomic-replace.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store backed by the given file path. The file is
// created lazily on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) load() (*fileState, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return &fileState{Version: 1, Sources: map[string]*SourceState{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, &CorruptError{Path: f.path, Err: err}
	}
	if st.Sources == nil {
		st.Sources = map[string]*SourceState{}
	}
	return &st, nil
}

func (f *FileStore) save(st *fileState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return atomicfile.WriteFile(f.path, append(data, '\n'), 0o644)
}

func (f *FileStore) source(st *fileState, name string) *SourceState {
	src, ok := st.Sources[name]
	if !ok {
		src = &SourceState{Seen: SeenSet{}}
		st.Sources[name] = src
	}
	if src.Seen == nil {
		src.Seen = SeenSet{}
	}
	return src
}

// LoadSeen implements Store.
func (f *FileStore) LoadSeen(sourceName string) (SeenSet, error) {
	st, err := f.load()
	if err != nil {
		return nil, err
	}
	src, ok := st.Sources[sourceName]
	if !ok || src.Seen == nil {
		return SeenSet{}, nil
	}
	return src.Seen, nil
}

// SaveSeen implements Store.
func (f *FileStore) SaveSeen(sourceName string, seen SeenSet) error {
	st, err := f.load()
	if err != nil {
		return err
	}
	f.source(st, sourceName).Seen = seen
	return f.save(st)
}

// LoadAlertState implements Store.
func (f *FileStore) LoadAlertState() (*AlertState, error) {
	st, err := f.load()
	if err != nil {
		return nil, err
	}
	if st.Alerts == nil {
		return &AlertState{}, nil
	}
	return st.Alerts, nil
}

// SaveAlertState implements Store.
func (f *FileStore) SaveAlertState(alerts *AlertState) error {
	st, err := f.load()
	if err != nil {
		return err
	}
	st.Alerts = alerts
	return f.save(st)
}

// LastFetch implements Store.
func (f *FileStore) LastFetch(sourceName string) (time.Time, bool, error) {
	st, err := f.load()
	if err != nil {
		return time.Time{}, false, err
	}
	src, ok := st.Sources[sourceName]
	if !ok || src.LastFetch == nil {
		return time.Time{}, false, nil
	}
	return *src.LastFetch, true, nil
}

// SetLastFetch implements Store.
func (f *FileStore) SetLastFetch(sourceName string, t time.Time) error {
	st, err := f.load()
	if err != nil {
		return err
	}
	f.source(st, sourceName).LastFetch = &t
	return f.save(st)
}

// ZeroRuns implements Store.
func (f *FileStore) ZeroRuns(sourceName string) (int, error) {
	st, err := f.load()
	if err != nil {
		return 0, err
	}
	src, ok := st.Sources[sourceName]
	if !ok {
		return 0, nil
	}
	return src.ZeroRuns, nil
}

// SetZeroRuns implements Store.
func (f *FileStore) SetZeroRuns(sourceName string, n int) error {
	st, err := f.load()
	if err != nil {
		return err
	}
	f.source(st, sourceName).ZeroRuns = n
	return f.save(st)
}

// Summary returns per-source counts for the status command.
func (f *FileStore) Summary() (sources int, fingerprints int, err error) {
	st, err := f.load()
	if err != nil {
		return 0, 0, err
	}
	for _, src := range st.Sources {
		sources++
		fingerprints += len(src.Seen)
	}
	return sources, fingerprints, nil
}
