// Command nano-replay checks that a parquet turn log still reproduces under
// the current rules.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"nanobreach/internal/levels"
	"nanobreach/internal/replay"
)

func main() {
	in := flag.String("in", "", "parquet turn log to verify")
	levelDir := flag.String("levels", "", "directory of level YAML files (default: built-in catalog)")
	seed := flag.Int64("seed", 0, "first seed passed to nano-sweep -generated; level 1000+i is rebuilt from seed+i")
	flag.Parse()
	if *in == "" {
		log.Fatalf("-in is required")
	}

	var (
		cat *levels.Catalog
		err error
	)
	if *levelDir == "" {
		cat, err = levels.Builtin()
	} else {
		cat, err = levels.LoadDir(*levelDir)
	}
	if err != nil {
		log.Fatalf("load levels: %v", err)
	}

	rows, err := replay.ReadFile(*in)
	if err != nil {
		log.Fatalf("read %s: %v", *in, err)
	}

	sessions := replay.Sessions(rows)
	ids := make([]string, 0, len(sessions))
	for id := range sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	failed := 0
	for _, id := range ids {
		turns := sessions[id]
		levelID := int(turns[0].LevelID)
		level, err := cat.ByID(levelID)
		if err != nil && *seed != 0 && levelID >= 1000 {
			opts := levels.DefaultGenOptions()
			opts.ID = levelID
			level, err = levels.Generate(*seed+int64(levelID-1000), opts), nil
		}
		if err == nil {
			err = replay.Verify(level, turns)
		}
		if err != nil {
			failed++
			fmt.Printf("FAIL %s level %d: %v\n", id, levelID, err)
			continue
		}
		fmt.Printf("ok   %s level %d (%d rows)\n", id, levelID, len(turns))
	}
	fmt.Printf("%d/%d sessions verified\n", len(ids)-failed, len(ids))
	if failed > 0 {
		os.Exit(1)
	}
}
