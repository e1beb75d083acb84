// Package ids generates sortable event identifiers.
package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewEventID returns a ULID stamped with at. IDs generated within the same
// millisecond are strictly increasing.
func NewEventID(at time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), entropy).String()
}

// EventTime recovers the timestamp embedded in an event id.
func EventTime(eventID string) (time.Time, error) {
	u, err := ulid.ParseStrict(eventID)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
