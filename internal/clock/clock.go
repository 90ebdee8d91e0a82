// Package clock provides a single-threaded virtual-time scheduler.
// Timers only fire inside Advance/AdvanceTo, on the caller's goroutine,
// so game callbacks and frame ticks interleave without running in parallel.
package clock

import (
	"container/heap"
	"time"
)

// Scheduler owns virtual time and the set of pending timers.
// It is not safe for concurrent use; drive it from one goroutine.
type Scheduler struct {
	start time.Time
	now   time.Time
	queue timerQueue
	seq   uint64 // Scheduling order, breaks deadline ties
}

// Timer is a pending callback created by AfterFunc.
type Timer struct {
	sched    *Scheduler
	deadline time.Time
	fn       func()
	seq      uint64
	index    int // Position in the heap, -1 once fired or stopped
}

// New creates a scheduler whose virtual time starts at start.
func New(start time.Time) *Scheduler {
	return &Scheduler{
		start: start,
		now:   start,
	}
}

// Now returns the current virtual time. Inside a timer callback this is
// exactly the timer's deadline.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// Elapsed returns virtual time passed since the scheduler was created.
func (s *Scheduler) Elapsed() time.Duration {
	return s.now.Sub(s.start)
}

// Pending returns the number of timers that have not fired or been stopped.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// AfterFunc schedules fn to run once d has elapsed. Negative durations
// are treated as zero; the callback still waits for the next Advance.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	t := &Timer{
		sched:    s,
		deadline: s.now.Add(d),
		fn:       fn,
		seq:      s.seq,
	}
	s.seq++
	heap.Push(&s.queue, t)
	return t
}

// Advance moves virtual time forward by d, firing due timers.
func (s *Scheduler) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	s.AdvanceTo(s.now.Add(d))
}

// AdvanceTo moves virtual time forward to target, firing every timer whose
// deadline is not after target in deadline order. Timers scheduled by a
// callback that fall inside the window fire in the same call. An earlier
// target is ignored.
func (s *Scheduler) AdvanceTo(target time.Time) {
	if target.Before(s.now) {
		return
	}
	for len(s.queue) > 0 {
		next := s.queue[0]
		if next.deadline.After(target) {
			break
		}
		heap.Pop(&s.queue)
		s.now = next.deadline
		next.fn()
	}
	s.now = target
}

// Stop cancels the timer. It reports whether the timer was still pending.
// Stopping a nil, fired or already stopped timer is a no-op.
func (t *Timer) Stop() bool {
	if t == nil || t.index < 0 {
		return false
	}
	heap.Remove(&t.sched.queue, t.index)
	return true
}

// Active reports whether the timer is still waiting to fire.
func (t *Timer) Active() bool {
	return t != nil && t.index >= 0
}

// timerQueue is a min-heap ordered by deadline, then scheduling order.
type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].deadline.Equal(q[j].deadline) {
		return q[i].seq < q[j].seq
	}
	return q[i].deadline.Before(q[j].deadline)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
