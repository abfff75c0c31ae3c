//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"nanobreach/internal/app"
	"nanobreach/internal/levels"
	"nanobreach/internal/progress"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	cat, err := levels.Builtin()
	if err != nil {
		log.Fatalf("load levels: %v", err)
	}
	level, err := levels.Resolve(cat, levels.FromMap(cfg.LevelOptions()))
	if err != nil {
		log.Fatalf("select level: %v", err)
	}

	var store progress.Store = progress.NewMemoryStore()
	if cfg.Progress != "" {
		sqlStore, err := progress.OpenSQLite(cfg.Progress)
		if err != nil {
			log.Fatalf("open progress: %v", err)
		}
		defer sqlStore.Close()
		store = sqlStore
	}

	logger := log.New(os.Stderr, "nanogrid ", log.LstdFlags)
	game := app.New(cat, level, store, cfg, logger)
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
