package blackjack

import (
	"container/heap"
	"sync"
	"time"
)

// Scheduler runs callbacks later, in order of due time and then registration.
type Scheduler interface {
	RegisterTimeout(fn func(), delay time.Duration)
}

type timeout struct {
	at  time.Duration
	seq uint64
	fn  func()
}

type timeoutQueue []timeout

func (q timeoutQueue) Len() int { return len(q) }
func (q timeoutQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}
func (q timeoutQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *timeoutQueue) Push(x any)   { *q = append(*q, x.(timeout)) }
func (q *timeoutQueue) Pop() any {
	old := *q
	t := old[len(old)-1]
	*q = old[:len(old)-1]
	return t
}

// ManualScheduler is a Scheduler on a logical clock that only moves when the
// caller advances it.
type ManualScheduler struct {
	now   time.Duration
	seq   uint64
	queue timeoutQueue
}

// NewManualScheduler returns a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// RegisterTimeout queues fn to run delay after the current logical time.
func (m *ManualScheduler) RegisterTimeout(fn func(), delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	m.seq++
	heap.Push(&m.queue, timeout{at: m.now + delay, seq: m.seq, fn: fn})
}

// Advance moves the clock forward by d, running every callback that becomes
// due, including callbacks registered by earlier ones. It returns the number
// of callbacks run.
func (m *ManualScheduler) Advance(d time.Duration) int {
	until := m.now + d
	ran := 0
	for len(m.queue) > 0 && m.queue[0].at <= until {
		t := heap.Pop(&m.queue).(timeout)
		m.now = t.at
		t.fn()
		ran++
	}
	m.now = until
	return ran
}

// RunNext jumps to the next due callback and runs it.
func (m *ManualScheduler) RunNext() bool {
	if len(m.queue) == 0 {
		return false
	}
	t := heap.Pop(&m.queue).(timeout)
	m.now = t.at
	t.fn()
	return true
}

// Pending returns the number of queued callbacks.
func (m *ManualScheduler) Pending() int {
	return len(m.queue)
}

// Now returns the logical time.
func (m *ManualScheduler) Now() time.Duration {
	return m.now
}

// TimerScheduler is a wall clock Scheduler. Callbacks run one at a time on a
// single goroutine.
type TimerScheduler struct {
	mu      sync.Mutex
	start   time.Time
	seq     uint64
	queue   timeoutQueue
	wake    chan struct{}
	quit    chan struct{}
	done    chan struct{}
	stopped bool
}

// NewTimerScheduler starts a wall clock scheduler. Stop must be called to
// release its goroutine.
func NewTimerScheduler() *TimerScheduler {
	s := &TimerScheduler{
		start: time.Now(),
		wake:  make(chan struct{}, 1),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

// RegisterTimeout queues fn to run after delay.
func (s *TimerScheduler) RegisterTimeout(fn func(), delay time.Duration) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.seq++
	heap.Push(&s.queue, timeout{at: time.Since(s.start) + delay, seq: s.seq, fn: fn})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Stop discards pending callbacks and waits for a running one to return.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.queue = nil
	s.mu.Unlock()
	close(s.quit)
	<-s.done
}

func (s *TimerScheduler) run() {
	defer close(s.done)
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		s.mu.Lock()
		var (
			next func()
			wait = time.Hour
		)
		if len(s.queue) > 0 {
			if d := s.queue[0].at - time.Since(s.start); d <= 0 {
				next = heap.Pop(&s.queue).(timeout).fn
			} else {
				wait = d
			}
		}
		s.mu.Unlock()

		if next != nil {
			next()
			continue
		}

		timer.Reset(wait)
		select {
		case <-timer.C:
		case <-s.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-s.quit:
			return
		}
	}
}
