// Command bench measures how the note store behaves as the collection
// grows, per storage adapter. The whole collection is one blob, so write
// cost scales with collection size; this makes that cost visible.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/TheReal-Flo/SaveMyMind/internal/platform"
	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
	"github.com/TheReal-Flo/SaveMyMind/pkg/store"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	adapter := flag.String("adapter", "badger", "Storage adapter: badger, sqlite, fs, memory")
	keep := flag.Bool("keep", false, "Keep the benchmark data dir after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "savemymind_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	blob, err := platform.NewBlobStore(*adapter, benchDir, logger)
	if err != nil {
		panic(err)
	}
	defer blob.Close()

	ctx := context.Background()
	s := store.New(blob, store.WithLogger(logger))
	if _, err := s.Load(ctx); err != nil {
		panic(err)
	}

	fmt.Printf("Creating %d notes via %s in %s...\n", *count, *adapter, benchDir)
	startCreate := time.Now()
	for i := 0; i < *count; i++ {
		_, err := s.Create(ctx, core.NoteInput{
			Content: fmt.Sprintf("Benchmark note %d\nGenerated at %s.", i, time.Now().Format(time.RFC3339)),
		})
		if err != nil {
			panic(err)
		}
	}
	createDur := time.Since(startCreate)

	// Reload simulates a fresh app start over the grown collection.
	s2 := store.New(blob, store.WithLogger(logger))
	startLoad := time.Now()
	notes, err := s2.Load(ctx)
	if err != nil {
		panic(err)
	}
	loadDur := time.Since(startLoad)

	startView := time.Now()
	view := s2.Categorized("")
	viewDur := time.Since(startView)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes, %s adapter):\n", *count, *adapter)
	fmt.Printf("  Create total: %v (%v per note)\n", createDur, createDur/time.Duration(*count))
	fmt.Printf("  Reload:       %v (Items: %d)\n", loadDur, len(notes))
	fmt.Printf("  Categorize:   %v (Items: %d)\n", viewDur, view.Total())
	fmt.Printf("--------------------------------------------------\n")
}
