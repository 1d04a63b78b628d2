package render

// FragmentCapacity bounds the fragments produced while clipping one
// triangle against four edges. Each edge at most doubles the count, so
// 2^4 is always enough.
const FragmentCapacity = 16

// FragmentDeque is a fixed-capacity ring buffer of in-flight clip
// fragments. It never allocates; pushes beyond capacity are dropped and
// counted.
type FragmentDeque struct {
	buf     [FragmentCapacity]Triangle2D
	head    int
	size    int
	dropped int
}

// Len returns the number of queued fragments.
func (d *FragmentDeque) Len() int {
	return d.size
}

// Dropped returns how many pushes were rejected since the last Reset.
func (d *FragmentDeque) Dropped() int {
	return d.dropped
}

// Reset empties the deque and clears the drop counter.
func (d *FragmentDeque) Reset() {
	d.head, d.size, d.dropped = 0, 0, 0
}

// PushBack appends t, or drops it when the deque is full.
func (d *FragmentDeque) PushBack(t Triangle2D) bool {
	if d.size == FragmentCapacity {
		d.dropped++
		return false
	}
	d.buf[(d.head+d.size)%FragmentCapacity] = t
	d.size++
	return true
}

// PopFront removes and returns the oldest fragment.
func (d *FragmentDeque) PopFront() (Triangle2D, bool) {
	if d.size == 0 {
		return Triangle2D{}, false
	}
	t := d.buf[d.head]
	d.head = (d.head + 1) % FragmentCapacity
	d.size--
	return t, true
}

// At returns the i-th fragment from the front.
func (d *FragmentDeque) At(i int) Triangle2D {
	return d.buf[(d.head+i)%FragmentCapacity]
}

// DefaultQueueCapacity is the triangle budget of one frame.
const DefaultQueueCapacity = 1500

// TriangleQueue holds the projected triangles of one frame. Its capacity
// is fixed at construction; triangles pushed past it are dropped and
// counted.
type TriangleQueue struct {
	items   []Triangle2D
	dropped int
}

// NewTriangleQueue allocates a queue holding at most capacity triangles.
func NewTriangleQueue(capacity int) *TriangleQueue {
	return &TriangleQueue{items: make([]Triangle2D, 0, capacity)}
}

// Push appends t in submission order. It reports false when the queue is
// full and t was dropped.
func (q *TriangleQueue) Push(t Triangle2D) bool {
	if len(q.items) == cap(q.items) {
		q.dropped++
		return false
	}
	q.items = append(q.items, t)
	return true
}

// Len returns the number of queued triangles.
func (q *TriangleQueue) Len() int {
	return len(q.items)
}

// Cap returns the fixed capacity.
func (q *TriangleQueue) Cap() int {
	return cap(q.items)
}

// At returns the i-th triangle in submission order.
func (q *TriangleQueue) At(i int) Triangle2D {
	return q.items[i]
}

// Dropped returns the number of triangles rejected since the last Reset.
func (q *TriangleQueue) Dropped() int {
	return q.dropped
}

// Reset empties the queue for the next frame. The backing array is kept.
func (q *TriangleQueue) Reset() {
	q.items = q.items[:0]
	q.dropped = 0
}
