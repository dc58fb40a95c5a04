package suspicion

// Ring is a bounded FIFO buffer that overwrites its oldest entry when full.
type Ring[T any] struct {
	buf   []T
	start int
	n     int
}

// NewRing creates a ring holding at most size items.
func NewRing[T any](size int) *Ring[T] {
	if size < 1 {
		size = 1
	}
	return &Ring[T]{buf: make([]T, size)}
}

// Push appends v, dropping the oldest item when the ring is full.
func (r *Ring[T]) Push(v T) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = v
		r.n++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

// Len returns the number of items held.
func (r *Ring[T]) Len() int {
	return r.n
}

// Items returns the items oldest first.
func (r *Ring[T]) Items() []T {
	out := make([]T, 0, r.n)
	for i := 0; i < r.n; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}

// Keep drops all but the newest n items.
func (r *Ring[T]) Keep(n int) {
	if n >= r.n {
		return
	}
	if n < 0 {
		n = 0
	}
	r.start = (r.start + r.n - n) % len(r.buf)
	r.n = n
}

// Clear empties the ring.
func (r *Ring[T]) Clear() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.start, r.n = 0, 0
}
