package levels

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"nanobreach/internal/sims/nano"
)

//go:embed level.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func levelSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("level.schema.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("level schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile("level.schema.json")
	})
	return schema, schemaErr
}

type document struct {
	ID     int      `yaml:"id"`
	Name   string   `yaml:"name"`
	Width  int      `yaml:"width"`
	Height int      `yaml:"height"`
	Board  []string `yaml:"board"`

	Walls [][2]int `yaml:"walls"`
	Goals [][2]int `yaml:"goals"`
	Nanos [][2]int `yaml:"nanos"`

	Tools map[string]int `yaml:"tools"`
	Rules struct {
		DiagonalGrowth bool `yaml:"diagonal_growth"`
		PurgeCooldown  int  `yaml:"purge_cooldown"`
	} `yaml:"rules"`
	Win struct {
		SurviveTurns     int  `yaml:"survive_turns"`
		EradicateAll     bool `yaml:"eradicate_all"`
		ProtectGoalTurns int  `yaml:"protect_goal_turns"`
	} `yaml:"win"`
	Lose struct {
		MaxNanoRatio float64 `yaml:"max_nano_ratio"`
		MaxTurns     int     `yaml:"max_turns"`
		StuckLose    bool    `yaml:"stuck_lose"`
	} `yaml:"lose"`
}

// Parse decodes one YAML level document, checks it against the level schema
// and validates the resulting board.
func Parse(raw []byte) (nano.Level, error) {
	if err := checkSchema(raw); err != nil {
		return nano.Level{}, err
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nano.Level{}, fmt.Errorf("decode level: %w", err)
	}
	level, err := doc.level()
	if err != nil {
		return nano.Level{}, err
	}
	if err := Validate(level); err != nil {
		return nano.Level{}, err
	}
	return level, nil
}

// checkSchema converts the YAML tree to plain JSON values so the validator
// sees the same types it would for a JSON document.
func checkSchema(raw []byte) error {
	s, err := levelSchema()
	if err != nil {
		return err
	}
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("decode level: %w", err)
	}
	js, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("level to json: %w", err)
	}
	var v any
	if err := json.Unmarshal(js, &v); err != nil {
		return fmt.Errorf("level to json: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	return nil
}

func (d document) level() (nano.Level, error) {
	level := nano.Level{
		ID:     d.ID,
		Name:   d.Name,
		Width:  d.Width,
		Height: d.Height,
		Walls:  points(d.Walls),
		Goals:  points(d.Goals),
		Nanos:  points(d.Nanos),
		Tools:  make(map[nano.Tool]int, len(d.Tools)),
		Rules: nano.Rules{
			DiagonalGrowth: d.Rules.DiagonalGrowth,
			PurgeCooldown:  d.Rules.PurgeCooldown,
		},
		Win: nano.WinRules{
			SurviveTurns:     d.Win.SurviveTurns,
			EradicateAll:     d.Win.EradicateAll,
			ProtectGoalTurns: d.Win.ProtectGoalTurns,
		},
		Lose: nano.LoseRules{
			MaxNanoRatio: d.Lose.MaxNanoRatio,
			MaxTurns:     d.Lose.MaxTurns,
			StuckLose:    d.Lose.StuckLose,
		},
	}
	for name, n := range d.Tools {
		level.Tools[nano.Tool(name)] = n
	}
	for _, t := range nano.Tools {
		if _, ok := level.Tools[t]; !ok {
			level.Tools[t] = 0
		}
	}

	if len(d.Board) > 0 {
		w, h, walls, goals, nanos, err := nano.ParseBoard(d.Board)
		if err != nil {
			return nano.Level{}, fmt.Errorf("level %d board: %w", d.ID, err)
		}
		if (d.Width != 0 && d.Width != w) || (d.Height != 0 && d.Height != h) {
			return nano.Level{}, fmt.Errorf("%w: level %d board is %dx%d but declares %dx%d", ErrInvalidLevel, d.ID, w, h, d.Width, d.Height)
		}
		level.Width, level.Height = w, h
		level.Walls = append(level.Walls, walls...)
		level.Goals = append(level.Goals, goals...)
		level.Nanos = append(level.Nanos, nanos...)
	}
	return level, nil
}

func points(raw [][2]int) []nano.Point {
	if len(raw) == 0 {
		return nil
	}
	pts := make([]nano.Point, len(raw))
	for i, p := range raw {
		pts[i] = nano.Point{X: p[0], Y: p[1]}
	}
	return pts
}

// Load reads a single level file.
func Load(path string) (nano.Level, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nano.Level{}, err
	}
	level, err := Parse(raw)
	if err != nil {
		return nano.Level{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return level, nil
}

// LoadDir reads every .yaml/.yml file in dir into a catalog.
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var errs []error
	list := make([]nano.Level, 0, len(names))
	for _, name := range names {
		level, err := Load(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		list = append(list, level)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return NewCatalog(list)
}
