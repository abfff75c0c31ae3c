package app

import (
	"flag"
	"strconv"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	Level    int
	Seed     int64
	Scale    int
	TPS      int
	Panel    int
	Progress string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 32, TPS: 3, Panel: 240, Progress: "var/progress.sqlite"}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Level, "level", c.Level, "level id to start on (0 = first)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "play a generated level from this seed instead (0 = catalog)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "turns per second in watch mode")
	fs.IntVar(&c.Panel, "panel", c.Panel, "status panel width in pixels")
	fs.StringVar(&c.Progress, "progress", c.Progress, "sqlite progress file (empty = in memory)")
}

// LevelOptions converts the level selection into levels.FromMap options.
func (c *Config) LevelOptions() map[string]string {
	opts := map[string]string{"level": strconv.Itoa(c.Level)}
	if c.Seed != 0 {
		opts["seed"] = strconv.FormatInt(c.Seed, 10)
	}
	return opts
}
