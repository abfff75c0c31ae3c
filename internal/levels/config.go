package levels

import (
	"strconv"

	"nanobreach/internal/sims/nano"
)

// Config selects a level and optional rule overrides from flag-style options.
type Config struct {
	// LevelID picks a catalog level; 0 means the first one.
	LevelID int
	// Generate switches to a procedurally generated level built from Seed.
	Generate bool
	Seed     int64
	Gen      GenOptions

	// Overrides applied on top of the selected level; nil keeps the level's.
	Diagonal      *bool
	PurgeCooldown *int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Seed: 1337, Gen: DefaultGenOptions()}
}

// FromMap populates the config from a string map (flag-style key/value
// pairs). Unparsable values are ignored.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["level"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.LevelID = parsed
		}
	}
	if v, ok := cfg["generate"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Generate = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
			c.Generate = true
		}
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Gen.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Gen.Height = parsed
		}
	}
	if v, ok := cfg["wall_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Gen.WallChance = parsed
		}
	}
	if v, ok := cfg["diagonal"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Diagonal = &parsed
			c.Gen.Diagonal = parsed
		}
	}
	if v, ok := cfg["purge_cooldown"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.PurgeCooldown = &parsed
		}
	}
	return c
}

// Resolve returns the level described by c, taken from cat unless c asks for
// a generated one.
func Resolve(cat *Catalog, c Config) (nano.Level, error) {
	var level nano.Level
	switch {
	case c.Generate:
		level = Generate(c.Seed, c.Gen)
	case c.LevelID == 0:
		first, ok := cat.First()
		if !ok {
			return nano.Level{}, ErrUnknownLevel
		}
		level = first
	default:
		l, err := cat.ByID(c.LevelID)
		if err != nil {
			return nano.Level{}, err
		}
		level = l
	}
	if c.Diagonal != nil {
		level.Rules.DiagonalGrowth = *c.Diagonal
	}
	if c.PurgeCooldown != nil {
		level.Rules.PurgeCooldown = *c.PurgeCooldown
	}
	return level, nil
}
