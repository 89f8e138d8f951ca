package scheduler

import "container/heap"

// TimerToken identifies a scheduled continuation for cancellation. The zero
// token is never issued.
type TimerToken uint64

// timerEntry is one pending continuation on the frame-driven timer queue.
type timerEntry struct {
	at        float64 // absolute queue time
	token     TimerToken
	fn        func()
	cancelled bool
	heapIndex int
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	// Tokens are monotonic, so equal deadlines fire in schedule order.
	return h[i].token < h[j].token
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *timerHeap) Push(x interface{}) {
	entry := x.(*timerEntry)
	entry.heapIndex = len(*h)
	*h = append(*h, entry)
}

func (h *timerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return entry
}

// timerQueue emulates suspension on the single-threaded tick: continuations
// are scheduled against queue time and resumed by Advance, never by
// goroutines. Cancellation marks the entry; the heap drops it lazily.
type timerQueue struct {
	now       float64
	entries   timerHeap
	byToken   map[TimerToken]*timerEntry
	lastToken TimerToken
}

func newTimerQueue() *timerQueue {
	return &timerQueue{
		byToken: make(map[TimerToken]*timerEntry),
	}
}

// Now returns the current queue time in seconds.
func (q *timerQueue) Now() float64 { return q.now }

// Pending returns the number of live (not cancelled) continuations.
func (q *timerQueue) Pending() int { return len(q.byToken) }

// Schedule registers fn to run delay seconds from now. Negative delays fire
// on the next Advance.
func (q *timerQueue) Schedule(delay float64, fn func()) TimerToken {
	if delay < 0 {
		delay = 0
	}
	q.lastToken++
	entry := &timerEntry{
		at:    q.now + delay,
		token: q.lastToken,
		fn:    fn,
	}
	heap.Push(&q.entries, entry)
	q.byToken[entry.token] = entry
	return entry.token
}

// Cancel marks the continuation as cancelled. Returns false if the token
// already fired, was cancelled, or was never issued.
func (q *timerQueue) Cancel(token TimerToken) bool {
	entry, ok := q.byToken[token]
	if !ok {
		return false
	}
	entry.cancelled = true
	delete(q.byToken, token)
	return true
}

// Advance moves queue time forward and runs every continuation that came
// due, in deadline order. Queue time steps to each firing deadline before
// its callback runs, so a continuation scheduled from inside a callback is
// offset from the firing timer's logical time, not from the window end;
// chained continuations run in the same Advance when already due.
func (q *timerQueue) Advance(dt float64) {
	if dt < 0 {
		dt = 0
	}
	target := q.now + dt
	for len(q.entries) > 0 && q.entries[0].at <= target {
		entry := heap.Pop(&q.entries).(*timerEntry)
		if entry.cancelled {
			continue
		}
		delete(q.byToken, entry.token)
		q.now = entry.at
		entry.fn()
	}
	q.now = target
}

// Reset drops every pending continuation without running it. Queue time is
// preserved so records admitted afterwards still see monotonic time.
func (q *timerQueue) Reset() {
	q.entries = nil
	q.byToken = make(map[TimerToken]*timerEntry)
}
