package levels

import (
	"embed"
	"fmt"
	"maps"
	"path"
	"slices"
	"sort"
	"sync"

	"nanobreach/internal/sims/nano"
)

//go:embed data/*.yaml
var builtinFS embed.FS

// Catalog is an ordered, ID-indexed set of levels.
type Catalog struct {
	levels []nano.Level
	index  map[int]int
}

// NewCatalog orders levels by ID and rejects duplicates.
func NewCatalog(list []nano.Level) (*Catalog, error) {
	sorted := slices.Clone(list)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	c := &Catalog{levels: sorted, index: make(map[int]int, len(sorted))}
	for i, l := range sorted {
		if _, dup := c.index[l.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate level id %d", ErrInvalidLevel, l.ID)
		}
		c.index[l.ID] = i
	}
	return c, nil
}

var (
	builtinOnce sync.Once
	builtin     *Catalog
	builtinErr  error
)

// Builtin returns the catalog embedded in the binary.
func Builtin() (*Catalog, error) {
	builtinOnce.Do(func() {
		entries, err := builtinFS.ReadDir("data")
		if err != nil {
			builtinErr = err
			return
		}
		list := make([]nano.Level, 0, len(entries))
		for _, e := range entries {
			raw, err := builtinFS.ReadFile(path.Join("data", e.Name()))
			if err != nil {
				builtinErr = err
				return
			}
			level, err := Parse(raw)
			if err != nil {
				builtinErr = fmt.Errorf("%s: %w", e.Name(), err)
				return
			}
			list = append(list, level)
		}
		builtin, builtinErr = NewCatalog(list)
	})
	return builtin, builtinErr
}

// Len returns the number of levels.
func (c *Catalog) Len() int { return len(c.levels) }

// All returns copies of every level in ID order.
func (c *Catalog) All() []nano.Level {
	out := make([]nano.Level, len(c.levels))
	for i, l := range c.levels {
		out[i] = Clone(l)
	}
	return out
}

// ByID returns a copy of the level with the given ID.
func (c *Catalog) ByID(id int) (nano.Level, error) {
	i, ok := c.index[id]
	if !ok {
		return nano.Level{}, fmt.Errorf("%w: %d", ErrUnknownLevel, id)
	}
	return Clone(c.levels[i]), nil
}

// First returns the lowest-ID level.
func (c *Catalog) First() (nano.Level, bool) {
	if len(c.levels) == 0 {
		return nano.Level{}, false
	}
	return Clone(c.levels[0]), true
}

// Next returns the level following id, if any.
func (c *Catalog) Next(id int) (nano.Level, bool) {
	i, ok := c.index[id]
	if !ok || i+1 >= len(c.levels) {
		return nano.Level{}, false
	}
	return Clone(c.levels[i+1]), true
}

// Clone deep copies a level definition.
func Clone(l nano.Level) nano.Level {
	l.Walls = slices.Clone(l.Walls)
	l.Goals = slices.Clone(l.Goals)
	l.Nanos = slices.Clone(l.Nanos)
	l.Tools = maps.Clone(l.Tools)
	return l
}
