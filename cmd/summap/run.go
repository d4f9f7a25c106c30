package main

import (
	"context"
	"log"
	"sync"

	"naturaledit/internal/pipeline"
	"naturaledit/internal/sink"
	"naturaledit/internal/summary"
	"naturaledit/internal/tasksrc"
)

// checkpointEvery controls how often the contiguous completed prefix is
// flushed to <out>.temp.
const checkpointEvery = 10

// run processes tasks with up to parallel workers. Tasks are independent, so
// ordering is restored by index; checkpoints persist only the contiguous
// completed prefix so the temp file is always a valid, ordered snapshot.
func run(ctx context.Context, proc *pipeline.PairProcessor, tasks []tasksrc.Task, parallel int, out *sink.FileSink, pg *sink.PGSink) []summary.PairResult {
	if parallel < 1 {
		parallel = 1
	}

	results := make([]summary.PairResult, len(tasks))
	done := make([]bool, len(tasks))

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		completed int
	)
	sem := make(chan struct{}, parallel)

	for i, t := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, t tasksrc.Task) {
			defer wg.Done()
			defer func() { <-sem }()

			log.Printf("processing pair %d/%d: %s", i+1, len(tasks), t.ID)
			r := proc.ProcessPair(ctx, t.OldCode, t.NewCode, t.FileContext, t.ID)

			if pg != nil {
				if err := pg.Upsert(ctx, r); err != nil {
					log.Printf("pg upsert %s: %v", t.ID, err)
				}
			}

			mu.Lock()
			results[i] = r
			done[i] = true
			completed++
			if completed%checkpointEvery == 0 {
				if err := out.Checkpoint(completedPrefix(results, done)); err != nil {
					log.Printf("checkpoint: %v", err)
				} else {
					log.Printf("saved intermediate results (%d completed)", completed)
				}
			}
			mu.Unlock()
		}(i, t)
	}
	wg.Wait()

	return results
}

func completedPrefix(results []summary.PairResult, done []bool) []summary.PairResult {
	n := 0
	for n < len(done) && done[n] {
		n++
	}
	return results[:n]
}
