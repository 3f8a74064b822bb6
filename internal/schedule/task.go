// Package schedule runs reconciliation jobs on a single serial queue: a job
// enqueued after another one never starts before it completes, which keeps
// filesystem and registry mutations of consecutive library events ordered.
package schedule

import (
	"context"
	"time"
)

type runPolicy int

const (
	runInOrder runPolicy = iota
	runImmediately
	runAfter
)

type ExecuteFn func(ctx context.Context)

type Task struct {
	// Group unites tasks which belong to one series, for cancellation
	Group string
	Fn    ExecuteFn

	run runPolicy
	dur time.Duration

	timeout time.Duration

	scheduledAt time.Time
}

// Immediately puts the task ahead of the ordered queue
func (t *Task) Immediately() *Task {
	t.run = runImmediately
	return t
}

// After delays the task start for at least d
func (t *Task) After(d time.Duration) *Task {
	t.run = runAfter
	t.dur = d
	return t
}

func (t *Task) WithTimeout(timeout time.Duration) *Task {
	t.timeout = timeout
	return t
}
