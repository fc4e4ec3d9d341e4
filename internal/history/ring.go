package history

// Ring is a bounded FIFO buffer. Pushing onto a full ring evicts the
// oldest element.
type Ring[T any] struct {
	items []T
	start int
	size  int
}

// NewRing creates a ring holding at most capacity elements. Capacity
// below 1 is raised to 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends v and reports whether an element was evicted.
func (r *Ring[T]) Push(v T) bool {
	if r.size < len(r.items) {
		r.items[(r.start+r.size)%len(r.items)] = v
		r.size++
		return false
	}

	r.items[r.start] = v
	r.start = (r.start + 1) % len(r.items)
	return true
}

// Len returns the number of stored elements.
func (r *Ring[T]) Len() int { return r.size }

// Cap returns the capacity.
func (r *Ring[T]) Cap() int { return len(r.items) }

// At returns the i-th element, oldest first.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.size {
		panic("history: ring index out of range")
	}
	return r.items[(r.start+i)%len(r.items)]
}

// Last returns the newest element.
func (r *Ring[T]) Last() (T, bool) {
	if r.size == 0 {
		var zero T
		return zero, false
	}
	return r.At(r.size - 1), true
}

// Items returns a copy of the stored elements, oldest first.
func (r *Ring[T]) Items() []T {
	out := make([]T, r.size)
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}
