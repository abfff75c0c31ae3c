// Command nano-sweep plays every catalog level, plus optional generated
// ones, with each autoplay policy and prints an outcome table.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"nanobreach/internal/autoplay"
	"nanobreach/internal/levels"
	"nanobreach/internal/replay"
	"nanobreach/internal/session"
	"nanobreach/internal/sims/nano"
)

type job struct {
	level  nano.Level
	policy autoplay.Policy
}

func main() {
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	generated := flag.Int("generated", 0, "also play this many generated levels")
	seed := flag.Int64("seed", 1337, "first seed for generated levels")
	out := flag.String("out", "", "directory for per-run parquet turn logs (empty = none)")
	flag.Parse()

	cat, err := levels.Builtin()
	if err != nil {
		log.Fatalf("load levels: %v", err)
	}
	list := cat.All()
	for i := 0; i < *generated; i++ {
		opts := levels.DefaultGenOptions()
		opts.ID = 1000 + i
		list = append(list, levels.Generate(*seed+int64(i), opts))
	}

	policies := autoplay.Policies()
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)

	var jobsList []job
	for _, lvl := range list {
		for _, name := range names {
			jobsList = append(jobsList, job{level: lvl, policy: policies[name]})
		}
	}
	fmt.Printf("Sweeping %d runs (%d levels x %d policies, %d workers)\n", len(jobsList), len(list), len(names), *workers)

	jobs := make(chan job)
	results := make(chan autoplay.Run)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- runJob(j, *out)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, j := range jobsList {
			jobs <- j
		}
		close(jobs)
	}()

	start := time.Now()
	var all []autoplay.Run
	for res := range results {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].LevelID != all[j].LevelID {
			return all[i].LevelID < all[j].LevelID
		}
		return all[i].Policy < all[j].Policy
	})

	fmt.Printf("\n%-6s %-8s %-6s %-6s %-6s %-8s %s\n", "level", "policy", "turns", "nanos", "ratio", "refused", "result")
	wins := 0
	for _, r := range all {
		result := "unfinished"
		switch {
		case r.Outcome.Won:
			result = "won"
			wins++
		case r.Outcome.Lost:
			result = "lost"
		}
		if r.Err != nil {
			result += " (" + r.Err.Error() + ")"
		}
		fmt.Printf("%-6d %-8s %-6d %-6d %-6.2f %-8d %s\n",
			r.LevelID, r.Policy, r.Turns, r.Outcome.NanoCount, r.Outcome.NanoRatio, r.Rejected, result)
	}
	fmt.Printf("\n%d/%d runs won (elapsed %s)\n", wins, len(all), time.Since(start).Round(time.Millisecond))
}

func runJob(j job, outDir string) autoplay.Run {
	if outDir == "" {
		return autoplay.Play(j.level, j.policy, 0)
	}
	rec := replay.NewRecorder()
	run := autoplay.Play(j.level, j.policy, 0, session.WithRecorder(rec))
	path := filepath.Join(outDir, fmt.Sprintf("level%04d_%s.parquet", j.level.ID, j.policy.Name()))
	if err := rec.Flush(path); err != nil {
		log.Printf("write %s: %v", path, err)
	}
	return run
}
