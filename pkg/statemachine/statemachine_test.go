package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	visits []string
	sm     *StateMachine[counter]
	nested bool
}

func stateA(c *counter) StateFn[counter] {
	c.visits = append(c.visits, "a")
	return stateB
}

func stateB(c *counter) StateFn[counter] {
	c.visits = append(c.visits, "b")
	return nil
}

func stateReentrant(c *counter) StateFn[counter] {
	c.visits = append(c.visits, "r")
	// A nested dispatch must be dropped.
	c.nested = c.sm.Dispatch()
	return stateA
}

func TestDispatchAdvancesThroughStates(t *testing.T) {
	c := &counter{}
	sm := NewStateMachine(c, stateA)

	require.True(t, sm.Dispatch())
	require.True(t, sm.Dispatch())
	assert.False(t, sm.Dispatch(), "nil state must not dispatch")
	assert.Equal(t, []string{"a", "b"}, c.visits)
}

func TestDispatchIgnoresReentrantCalls(t *testing.T) {
	c := &counter{}
	c.sm = NewStateMachine(c, stateReentrant)

	require.True(t, c.sm.Dispatch())
	assert.False(t, c.nested)
	assert.Equal(t, []string{"r"}, c.visits)
	assert.False(t, c.sm.Processing())

	require.True(t, c.sm.Dispatch())
	assert.Equal(t, []string{"r", "a"}, c.visits)
}

func TestNilInitialState(t *testing.T) {
	c := &counter{}
	sm := NewStateMachine[counter](c, nil)
	assert.False(t, sm.Dispatch())
	assert.False(t, sm.Processing())
	assert.Empty(t, c.visits)
}
