// Package cell holds a single value written by one owner and read by many.
// Readers either Load the latest value or Subscribe to a channel that always
// carries the most recent value; intermediate values may be skipped.
package cell

import "sync"

// Cell is a versioned value cell.
type Cell[T any] struct {
	mu      sync.RWMutex
	val     T
	version uint64
	subs    map[int]chan T
	nextSub int
}

// New creates a cell holding initial at version 0.
func New[T any](initial T) *Cell[T] {
	return &Cell[T]{
		val:  initial,
		subs: make(map[int]chan T),
	}
}

// Load returns the current value.
func (c *Cell[T]) Load() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.val
}

// Version returns how many times the cell has been written.
func (c *Cell[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Store replaces the value and hands it to every subscriber. A subscriber
// that has not consumed the previous value gets it replaced.
func (c *Cell[T]) Store(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.val = v
	c.version++
	for _, ch := range c.subs {
		offer(ch, v)
	}
}

// Subscribe returns a channel primed with the current value and a function
// that detaches and closes it.
func (c *Cell[T]) Subscribe() (<-chan T, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan T, 1)
	ch <- c.val
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
