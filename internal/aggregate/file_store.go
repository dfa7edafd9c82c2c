package aggregate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/DjordjeVuckovic/mcqa-filter/pkg/fileutil"
)

const DefaultPath = "score.json"

// FileStore persists a RunAggregate as a JSON document. Unreadable content is
// replaced by the empty aggregate instead of failing the run.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored aggregate. A missing, empty, malformed or
// inconsistent file yields the empty aggregate.
func (s *FileStore) Load() (RunAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Append merges delta into the stored aggregate and atomically replaces the
// file. It returns the cumulative aggregate.
func (s *FileStore) Append(delta RunAggregate) (RunAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return RunAggregate{}, err
	}
	merged := existing.Merge(delta)
	if err := fileutil.WriteJSONAtomic(s.path, merged); err != nil {
		return RunAggregate{}, fmt.Errorf("failed to save score aggregate: %w", err)
	}
	return merged, nil
}

func (s *FileStore) load() (RunAggregate, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return RunAggregate{}, fmt.Errorf("failed to read score aggregate %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return New(), nil
	}

	agg, err := decode(data)
	if err != nil {
		slog.Warn("Score aggregate is corrupt, starting from empty", "path", s.path, "error", err)
		return New(), nil
	}
	if !agg.Consistent() {
		slog.Warn("Score aggregate is inconsistent, starting from empty",
			"path", s.path,
			"all", len(agg.All),
			"passed", len(agg.Passed),
			"filtered", len(agg.Filtered))
		return New(), nil
	}
	return agg, nil
}

func decode(data []byte) (RunAggregate, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return RunAggregate{}, err
	}
	if fields == nil {
		return RunAggregate{}, errors.New("score aggregate is not an object")
	}

	agg := New()
	for key, dst := range map[string]*[]float64{"all": &agg.All, "passed": &agg.Passed, "filtered": &agg.Filtered} {
		raw, ok := fields[key]
		if !ok || string(bytes.TrimSpace(raw)) == "null" {
			continue
		}
		var scores []float64
		if err := json.Unmarshal(raw, &scores); err != nil {
			return RunAggregate{}, fmt.Errorf("field %q: %w", key, err)
		}
		*dst = append(*dst, scores...)
	}
	return agg, nil
}
