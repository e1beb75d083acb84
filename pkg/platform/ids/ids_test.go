package ids

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventIDIsMonotonic(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	prev := NewEventID(at)
	for range 100 {
		next := NewEventID(at)
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestEventTimeRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	got, err := EventTime(NewEventID(at))
	require.NoError(t, err)
	assert.True(t, at.Equal(got))

	_, err = EventTime("not-a-ulid")
	assert.Error(t, err)
}
