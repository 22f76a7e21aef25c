package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusShipped, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusPending, false},
		{StatusShipped, StatusCancelled, false},
		{StatusShipped, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusShipped, false},
		{Status("unknown"), StatusShipped, false},
		{StatusPending, Status("unknown"), false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTerminalStates(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusShipped.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, Status("unknown").Terminal())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusShipped.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("paid").Valid())
}
