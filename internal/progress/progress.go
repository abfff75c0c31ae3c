// Package progress persists which levels a player has cleared and the viewer
// settings, behind a small key-value port.
package progress

import (
	"context"
	"encoding/json"
	"maps"
	"sort"
	"strconv"
	"sync"
)

// Key is the document key the progress map is stored under.
const Key = "nanobreach.progress"

// Settings holds player preferences.
type Settings struct {
	Predict bool `json:"predict"`
}

// Progress is the persisted player document.
type Progress struct {
	Cleared  map[int]bool `json:"progress"`
	Settings Settings     `json:"settings"`
}

// Default returns empty progress with the growth preview enabled.
func Default() Progress {
	return Progress{Cleared: map[int]bool{}, Settings: Settings{Predict: true}}
}

// ClearedCount returns how many levels are cleared.
func (p Progress) ClearedCount() int {
	n := 0
	for _, ok := range p.Cleared {
		if ok {
			n++
		}
	}
	return n
}

// ClearedIDs lists cleared level IDs in ascending order.
func (p Progress) ClearedIDs() []int {
	ids := make([]int, 0, len(p.Cleared))
	for id, ok := range p.Cleared {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func (p Progress) clone() Progress {
	p.Cleared = maps.Clone(p.Cleared)
	if p.Cleared == nil {
		p.Cleared = map[int]bool{}
	}
	return p
}

// Store loads and saves progress.
type Store interface {
	Load(ctx context.Context) (Progress, error)
	Save(ctx context.Context, p Progress) error
	MarkCleared(ctx context.Context, levelID int) error
}

// Decode parses a stored document. Unreadable documents come back as default
// progress so a corrupt save never blocks play.
func Decode(raw []byte) Progress {
	p := Default()
	if len(raw) == 0 {
		return p
	}
	var doc struct {
		Progress map[string]bool `json:"progress"`
		Settings *Settings       `json:"settings"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return p
	}
	for k, v := range doc.Progress {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		p.Cleared[id] = v
	}
	if doc.Settings != nil {
		p.Settings = *doc.Settings
	}
	return p
}

// Encode renders p in the stored document format.
func Encode(p Progress) ([]byte, error) {
	return json.Marshal(p)
}

// MemoryStore keeps progress in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	doc []byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(context.Context) (Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Decode(m.doc), nil
}

func (m *MemoryStore) Save(_ context.Context, p Progress) error {
	raw, err := Encode(p.clone())
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.doc = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) MarkCleared(ctx context.Context, levelID int) error {
	return markCleared(ctx, m, levelID)
}

func markCleared(ctx context.Context, s Store, levelID int) error {
	p, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if p.Cleared[levelID] {
		return nil
	}
	p = p.clone()
	p.Cleared[levelID] = true
	return s.Save(ctx, p)
}
