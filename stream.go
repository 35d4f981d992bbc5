package loglog

import (
	"context"
	"runtime"
	"sync"
)

// InsertChan records every value received on ch until ch is closed or ctx is
// done. It returns ctx.Err() if ctx ends first; values already received stay
// in the sketch.
func (s *Sketch) InsertChan(ctx context.Context, ch <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case b, ok := <-ch:
			if !ok {
				return nil
			}
			s.InsertBytes(b)
		}
	}
}

// ShardOptions tunes Sharded.
type ShardOptions struct {
	// Workers is the number of goroutines, each owning one sketch. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int
	// FlushEvery makes each worker publish a snapshot of its sketch after this
	// many values. Zero publishes only the final sketch.
	FlushEvery int
	// Partial, if set, is called by the merging goroutine with the running
	// union after each published snapshot is folded in.
	Partial func(union *Sketch)
}

// Sharded builds a sketch for cfg from the values received on src, spreading
// the work over several goroutines. Each worker fills a private sketch and
// sends snapshots of it to a single merging goroutine; no sketch is shared.
// Snapshots are cumulative, which is safe because merging is idempotent.
//
// Sharded returns once src is closed and all workers have finished, or with
// ctx.Err() if ctx ends first.
func Sharded(ctx context.Context, cfg Config, src <-chan []byte, opts ShardOptions) (*Sketch, error) {
	cfg, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snapshots := make(chan *Sketch, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			shardWorker(ctx, newSketch(cfg), src, snapshots, opts.FlushEvery)
		}()
	}
	go func() {
		wg.Wait()
		close(snapshots)
	}()

	union := newSketch(cfg)
	for snap := range snapshots {
		union.regs.maxWith(snap.regs, union.m)
		if opts.Partial != nil {
			opts.Partial(union)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return union, nil
}

func shardWorker(ctx context.Context, s *Sketch, src <-chan []byte, out chan<- *Sketch, flushEvery int) {
	n := 0
	for {
		select {
		case <-ctx.Done():
			return
		case b, ok := <-src:
			if !ok {
				out <- s
				return
			}
			s.InsertBytes(b)
			n++
			if flushEvery > 0 && n%flushEvery == 0 {
				select {
				case out <- s.Clone():
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
