package statemachine

import (
	"sync"
	"sync/atomic"
)

// StateFn represents a state function following Rob Pike's pattern
type StateFn[T any] func(*T) StateFn[T]

// StateMachine wraps an entity and its current state function. State functions
// are the states themselves, and each returns the next state function.
//
// Dispatch is guarded against reentrancy: a Dispatch issued while a state
// function is still running (for example from a callback fired inside that
// state) is dropped instead of running the same state twice.
type StateMachine[T any] struct {
	entity  *T
	stateFn StateFn[T]
	mutex   sync.RWMutex

	processing atomic.Bool
}

// NewStateMachine creates a new state machine for the given entity
func NewStateMachine[T any](entity *T, initialStateFn StateFn[T]) *StateMachine[T] {
	return &StateMachine[T]{
		entity:  entity,
		stateFn: initialStateFn,
	}
}

// Dispatch calls the current state function once and transitions to the
// returned state. It reports false when the call was dropped, either because
// another dispatch is in flight or because there is no current state.
func (sm *StateMachine[T]) Dispatch() bool {
	if !sm.processing.CompareAndSwap(false, true) {
		return false
	}
	defer sm.processing.Store(false)

	sm.mutex.RLock()
	currentStateFn := sm.stateFn
	sm.mutex.RUnlock()

	if currentStateFn == nil {
		return false
	}

	nextStateFn := currentStateFn(sm.entity)

	sm.mutex.Lock()
	sm.stateFn = nextStateFn
	sm.mutex.Unlock()
	return true
}

// Processing reports whether a state function is currently executing.
func (sm *StateMachine[T]) Processing() bool {
	return sm.processing.Load()
}
