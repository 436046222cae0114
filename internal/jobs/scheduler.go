// Package jobs runs recurring maintenance: provider quota sampling and
// project state reconciliation.
package jobs

import (
	"context"
	"sync"
	"time"

	pkgLog "webhook-gateway/pkg/log"
)

// Task is one recurring unit of work.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler drives each registered task on its own ticker. A failing run is
// logged and the ticker keeps going.
type Scheduler struct {
	tasks []Task
	l     pkgLog.Logger
}

func NewScheduler(l pkgLog.Logger, tasks ...Task) *Scheduler {
	return &Scheduler{tasks: tasks, l: l}
}

// Run blocks until ctx is cancelled and all task loops have drained.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, t := range s.tasks {
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			s.loop(ctx, t)
		}(t)
	}
	wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, t Task) {
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	s.l.Infof(ctx, "recurring task started: name=%s interval=%s", t.Name, t.Interval)
	for {
		select {
		case <-ctx.Done():
			s.l.Infof(ctx, "recurring task stopped: name=%s", t.Name)
			return
		case <-ticker.C:
			if err := t.Run(ctx); err != nil {
				s.l.Errorf(ctx, "recurring task failed: name=%s err=%v", t.Name, err)
			}
		}
	}
}
