// Package task runs leader-gated background operations on a fixed interval.
package task

import (
	"context"
	"log/slog"
	"time"

	"dokumentporten/internal/platform/leader"
)

// DefaultInterval is the pause between successive runs of an operation.
const DefaultInterval = 5 * time.Minute

// Operation is one unit of background work.
type Operation func(ctx context.Context) error

// Task invokes its operation on a fixed interval, but only while this
// replica holds the cluster leadership lease. Operation failures are logged
// and never escape the loop; the next interval retries.
type Task struct {
	name     string
	elector  leader.Elector
	interval time.Duration
	op       Operation
	log      *slog.Logger
}

func New(name string, elector leader.Elector, interval time.Duration, op Operation, log *slog.Logger) *Task {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Task{name: name, elector: elector, interval: interval, op: op, log: log}
}

// Run loops until the context is cancelled. The interval sleep is
// unconditional, also after skipped runs on non-leader replicas.
func (t *Task) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if t.elector.IsLeader(ctx) {
			if err := t.op(ctx); err != nil {
				t.log.ErrorContext(ctx, "task run failed", "task", t.name, "error", err)
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
