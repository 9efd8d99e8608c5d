// Package queue implements the multi-producer/single-consumer job queue that sits between connection
// handlers and the dispatcher. Three implementations satisfy the same contract — a mutex+condvar deque,
// a Go channel wrapper, and a lock-free ring-buffer "disruptor" — and are interchangeable: swapping one
// for another changes throughput and latency characteristics only, never correctness.
package queue

// JobQueue is satisfied by every queue implementation in this package. Many producers call Enqueue
// concurrently; exactly one consumer calls Dequeue, which blocks until an item is available.
type JobQueue[T any] interface {
	Enqueue(item T)
	Dequeue() T
}
