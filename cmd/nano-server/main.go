// Command nano-server serves game sessions over websocket with persistent
// progress.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nanobreach/internal/levels"
	"nanobreach/internal/progress"
	"nanobreach/internal/replay"
	"nanobreach/internal/transport/ws"
)

func main() {
	var (
		addr      = flag.String("addr", ":8080", "http listen address")
		levelDir  = flag.String("levels", "", "directory of level YAML files (default: built-in catalog)")
		dbPath    = flag.String("progress", "./data/progress.sqlite", "sqlite progress file")
		replayOut = flag.String("replay", "", "parquet file receiving every played turn on shutdown (empty to disable)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[nano-server] ", log.LstdFlags|log.Lmicroseconds)

	cat, err := loadCatalog(*levelDir)
	if err != nil {
		logger.Fatalf("load levels: %v", err)
	}
	logger.Printf("loaded %d levels", cat.Len())

	store, err := progress.OpenSQLite(*dbPath)
	if err != nil {
		logger.Fatalf("open progress: %v", err)
	}
	defer store.Close()

	var rec *replay.Recorder
	if *replayOut != "" {
		rec = replay.NewRecorder()
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           ws.NewServer(cat, store, rec, logger).Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signalContext()
	defer cancel()
	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}

	if rec != nil {
		n := rec.Len()
		if err := rec.Flush(*replayOut); err != nil {
			logger.Printf("write replay: %v", err)
		} else {
			logger.Printf("wrote %d turns to %s", n, *replayOut)
		}
	}
}

func loadCatalog(dir string) (*levels.Catalog, error) {
	if dir == "" {
		return levels.Builtin()
	}
	return levels.LoadDir(dir)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
