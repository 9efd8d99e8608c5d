package store

import (
	"container/heap"
	"time"

	"github.com/emberdb/ember/pkg/invariant"
)

// expiryEntry is a sweep hint: (key, scheduled instant). The heap tolerates stale entries whose key no
// longer exists, or whose expiration was replaced or cancelled; the sweeper revalidates against the
// live table before deleting anything.
type expiryEntry struct {
	key string
	at  time.Time
}

// expiryHeap is a min-heap ordered by soonest expiration instant. It implements heap.Interface and is
// only ever driven through the container/heap package functions.
type expiryHeap []*expiryEntry

var _ heap.Interface = (*expiryHeap)(nil)

func (h expiryHeap) Len() int { return len(h) }

func (h expiryHeap) Less(i, j int) bool { return h[i].at.Before(h[j].at) }

func (h expiryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *expiryHeap) Push(x any) {
	entry, ok := x.(*expiryEntry)
	if !ok {
		invariant.Raise("store", "pushed_invalid_type", "An item with invalid type was pushed to the expiry heap.")
		return
	}
	*h = append(*h, entry)
}

func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	if n == 0 {
		invariant.Raise("store", "pop_empty_heap", "Pop was called on an empty expiry heap.")
		return nil
	}
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// peek returns the soonest-to-expire entry without removing it, or nil if the heap is empty.
func (h expiryHeap) peek() *expiryEntry {
	if len(h) == 0 {
		return nil
	}
	return h[0]
}

func heapPush(h *expiryHeap, e *expiryEntry) { heap.Push(h, e) }

func heapPop(h *expiryHeap) *expiryEntry { return heap.Pop(h).(*expiryEntry) }
