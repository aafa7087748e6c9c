package field

import "sync"

// Clock hands out frame ticks. Schedule registers fn to run once on the
// next tick, like a browser's requestAnimationFrame.
type Clock interface {
	Schedule(fn func())
}

// FrameQueue is a Clock driven by its host: whatever calls Tick (ebiten's
// Update, a ticker, a test) decides when a frame happens. Callbacks
// scheduled while a tick is running wait for the following tick.
type FrameQueue struct {
	mu      sync.Mutex
	pending []func()
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

func (q *FrameQueue) Schedule(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Tick runs every callback scheduled since the previous tick and returns
// how many ran.
func (q *FrameQueue) Tick() int {
	q.mu.Lock()
	due := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range due {
		fn()
	}
	return len(due)
}

// Pending reports how many callbacks wait for the next tick.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
