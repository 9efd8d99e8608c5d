package queue

// ChannelQueue wraps a buffered Go channel. The receive side is meant to be held by a single consumer;
// Enqueue may be called from any number of goroutines.
type ChannelQueue[T any] struct {
	ch chan T
}

var _ JobQueue[int] = (*ChannelQueue[int])(nil)

// NewChannelQueue returns a ChannelQueue with the given buffer capacity. A capacity of 0 makes Enqueue
// synchronous with a matching Dequeue.
func NewChannelQueue[T any](capacity int) *ChannelQueue[T] {
	return &ChannelQueue[T]{ch: make(chan T, capacity)}
}

func (q *ChannelQueue[T]) Enqueue(item T) { q.ch <- item }

func (q *ChannelQueue[T]) Dequeue() T { return <-q.ch }

// Len reports the number of items currently buffered in the channel, for metrics.
func (q *ChannelQueue[T]) Len() int { return len(q.ch) }
