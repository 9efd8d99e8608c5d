package queue

import (
	"runtime"
	"sync/atomic"

	"github.com/emberdb/ember/pkg/invariant"
)

// DisruptorQueue is a lock-free ring buffer sized to a fixed power of two, with three monotonically
// increasing sequence counters:
//   - head: last slot consumed
//   - tail: last slot committed as produced
//   - nextSlot: next sequence to claim
//
// Producers race on nextSlot with a compare-and-swap to claim a private slot (claim), write their
// payload into it, then spin a compare-and-swap on tail to publish commits in sequence order even
// though claims themselves are concurrent (commit). The single consumer spins while tail == head,
// then reads and clears the next slot and advances head. Since the ring size is a power of two, the slot for a
// sequence is the low bits of the sequence (mask = size-1).
type DisruptorQueue[T any] struct {
	head     atomic.Uint64
	tail     atomic.Uint64
	nextSlot atomic.Uint64
	ring     []T
	mask     uint64
}

var _ JobQueue[int] = (*DisruptorQueue[int])(nil)

// NewDisruptorQueue returns a DisruptorQueue with the given ring size, which must be a power of two.
func NewDisruptorQueue[T any](size int) *DisruptorQueue[T] {
	if size <= 0 || size&(size-1) != 0 {
		invariant.Raise("queue", "invalid_disruptor_size",
			"Disruptor queue requires a power-of-two size.", "size", size)
		size = 1024
	}
	d := &DisruptorQueue[T]{ring: make([]T, size), mask: uint64(size - 1)}
	d.nextSlot.Store(1) // The next sequence we will enqueue; 0 is reserved to mean "none enqueued yet".
	return d
}

func (d *DisruptorQueue[T]) isFull() bool {
	nextSlot := d.nextSlot.Load()
	head := d.head.Load()
	return nextSlot-head-1 == uint64(len(d.ring))
}

func (d *DisruptorQueue[T]) isEmpty() bool {
	return d.tail.Load() == d.head.Load()
}

func (d *DisruptorQueue[T]) slot(seq uint64) uint64 { return seq & d.mask }

// claimSequence reserves the next sequence number for this producer. It spins while the ring is full
// and CAS-loops nextSlot since multiple producers claim concurrently.
func (d *DisruptorQueue[T]) claimSequence() uint64 {
	for {
		for d.isFull() {
			runtime.Gosched()
		}
		current := d.nextSlot.Load()
		if current-d.head.Load()-1 >= uint64(len(d.ring)) {
			continue // Another producer took the last free slot after the isFull check.
		}
		if d.nextSlot.CompareAndSwap(current, current+1) {
			return current
		}
	}
}

// commit publishes newTail. If an earlier sequence hasn't committed yet, this spins until it has, so
// that commits become visible to the consumer strictly in sequence order.
func (d *DisruptorQueue[T]) commit(newTail uint64) {
	for !d.tail.CompareAndSwap(newTail-1, newTail) {
		runtime.Gosched()
	}
}

func (d *DisruptorQueue[T]) Enqueue(item T) {
	seq := d.claimSequence()
	d.ring[d.slot(seq)] = item
	d.commit(seq)
}

func (d *DisruptorQueue[T]) Dequeue() T {
	for d.isEmpty() {
		runtime.Gosched()
	}
	// There is only one consumer, so head is not contended. The slot is read and cleared before head
	// advances, so no producer can claim it again while it is still being read.
	next := d.head.Load() + 1
	idx := d.slot(next)
	item := d.ring[idx]
	var zero T
	d.ring[idx] = zero
	d.head.Store(next)
	return item
}

// Len reports the approximate number of committed-but-undelivered items, for metrics.
func (d *DisruptorQueue[T]) Len() int {
	return int(d.tail.Load() - d.head.Load())
}
