package core

import (
	"fmt"
	"sync"
)

// ModelLimiter caps the total number of model calls a run may make across
// all agents. It complements the graph's step ceiling: the ceiling bounds
// node activations, the limiter bounds model round trips inside them.
type ModelLimiter struct {
	mu    sync.Mutex
	max   int
	count int
}

// NewModelLimiter creates a limiter allowing at most max calls. A max of 0
// means unlimited.
func NewModelLimiter(max int) *ModelLimiter {
	return &ModelLimiter{max: max}
}

// Increment consumes one call slot and errors once the limit is exceeded.
func (ml *ModelLimiter) Increment() error {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	ml.count++
	if ml.max > 0 && ml.count > ml.max {
		return fmt.Errorf("exceeded max model calls: %d", ml.max)
	}
	return nil
}

// Count reports the number of calls consumed so far.
func (ml *ModelLimiter) Count() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return ml.count
}

// Remaining reports the call slots left, or -1 when unlimited.
func (ml *ModelLimiter) Remaining() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if ml.max == 0 {
		return -1
	}
	return ml.max - ml.count
}
