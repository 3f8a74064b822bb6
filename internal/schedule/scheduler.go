package schedule

import (
	"context"
	"sync"
	"time"
)

const maxNotifications = 1000
const tickInterval = time.Second
const maxTaskTimeout = 10 * time.Minute

type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc

	wg sync.WaitGroup

	notifies chan struct{}

	mu sync.Mutex
	q  queue
}

func New() *Scheduler {
	s := Scheduler{
		notifies: make(chan struct{}, maxNotifications),
		q:        newQueue(),
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.process()
	}()

	return &s
}

func (s *Scheduler) process() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.notifies:
			s.processQueue()
		case <-ticker.C:
			s.processQueue()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) processQueue() {
	for {
		now := time.Now()
		s.mu.Lock()
		t := s.q.pop(now)
		s.mu.Unlock()

		if t == nil {
			return
		}

		s.run(t)
	}
}

// Cancel drops all pending tasks of a group. The task being executed is not
// interrupted mid-run.
func (s *Scheduler) Cancel(group string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.q.removeByGroup(group)
}

func (s *Scheduler) Add(t *Task) bool {
	if t == nil || t.Fn == nil {
		return false
	}

	s.mu.Lock()
	s.q.push(t)
	s.mu.Unlock()

	s.notifies <- struct{}{}
	return true
}

func (s *Scheduler) run(t *Task) {
	timeout := maxTaskTimeout
	if t.timeout != 0 {
		timeout = t.timeout
	}

	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	t.Fn(ctx)
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.notifies)
}
