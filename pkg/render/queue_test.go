package render

import (
	"image"
	"testing"
)

func TestFragmentDequeWraps(t *testing.T) {
	var dq FragmentDeque

	// Cycle more items than the capacity through the ring.
	for i := range FragmentCapacity * 3 {
		if !dq.PushBack(Triangle2D{Light: uint8(i)}) {
			t.Fatalf("push %d rejected", i)
		}
		got, ok := dq.PopFront()
		if !ok || got.Light != uint8(i) {
			t.Fatalf("pop %d = %d, %v", i, got.Light, ok)
		}
	}
	if _, ok := dq.PopFront(); ok {
		t.Error("pop from empty deque succeeded")
	}
}

func TestFragmentDequeOverflow(t *testing.T) {
	var dq FragmentDeque
	for i := range FragmentCapacity {
		dq.PushBack(Triangle2D{Light: uint8(i)})
	}
	if dq.PushBack(Triangle2D{}) {
		t.Error("push past capacity accepted")
	}
	if dq.Len() != FragmentCapacity || dq.Dropped() != 1 {
		t.Errorf("len=%d dropped=%d", dq.Len(), dq.Dropped())
	}
	if dq.At(FragmentCapacity-1).Light != FragmentCapacity-1 {
		t.Error("existing fragments were overwritten")
	}

	dq.Reset()
	if dq.Len() != 0 || dq.Dropped() != 0 {
		t.Errorf("after reset len=%d dropped=%d", dq.Len(), dq.Dropped())
	}
}

func TestTriangleQueue(t *testing.T) {
	q := NewTriangleQueue(3)
	for i := range 5 {
		q.Push(Triangle2D{P: [3]image.Point{{X: i}}})
	}

	if q.Len() != 3 || q.Cap() != 3 {
		t.Fatalf("len=%d cap=%d, want 3/3", q.Len(), q.Cap())
	}
	if q.Dropped() != 2 {
		t.Errorf("dropped=%d, want 2", q.Dropped())
	}
	for i := range q.Len() {
		if q.At(i).P[0].X != i {
			t.Errorf("item %d out of submission order", i)
		}
	}

	q.Reset()
	if q.Len() != 0 || q.Dropped() != 0 || q.Cap() != 3 {
		t.Errorf("after reset len=%d dropped=%d cap=%d", q.Len(), q.Dropped(), q.Cap())
	}
	if !q.Push(Triangle2D{}) {
		t.Error("push after reset rejected")
	}
}
