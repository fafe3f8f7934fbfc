package bot

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Supervisor runs one goroutine per worker, observes terminations, and
// restarts any worker that stops while the process is still supposed to be
// running.
type Supervisor struct {
	workers      []*Worker
	restartDelay time.Duration
}

func NewSupervisor(workers []*Worker, restartDelay time.Duration) *Supervisor {
	if restartDelay <= 0 {
		restartDelay = 5 * time.Second
	}
	return &Supervisor{
		workers:      workers,
		restartDelay: restartDelay,
	}
}

// Run blocks until ctx is canceled and every worker goroutine has wound down.
func (s *Supervisor) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, w := range s.workers {
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			s.supervise(ctx, w)
		}(w)
	}
	wg.Wait()
}

func (s *Supervisor) supervise(ctx context.Context, w *Worker) {
	for {
		err := s.runOnce(ctx, w)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Printf("worker %s: stopped: %v; restarting in %s", w.source.ID, err, s.restartDelay)
		} else {
			log.Printf("worker %s: stopped unexpectedly; restarting in %s", w.source.ID, s.restartDelay)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.restartDelay):
		}
	}
}

// runOnce runs the worker, converting a panic into an error so one poisoned
// update cannot take down the whole process.
func (s *Supervisor) runOnce(ctx context.Context, w *Worker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker panic: %v", r)
		}
	}()
	return w.Run(ctx)
}
