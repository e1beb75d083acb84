package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kycmint/pkg/platform/audit"
)

// Entry is a pending event in the outbox table. It is written in the same
// transaction as the state change it describes.
type Entry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte     // JSON-encoded audit.Event
	CreatedAt     time.Time
	ProcessedAt   *time.Time // nil until published
}

func (e *Entry) IsPending() bool {
	return e.ProcessedAt == nil
}

func NewEntry(aggregateType, aggregateID, eventType string, payload []byte, createdAt time.Time) *Entry {
	return &Entry{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     createdAt,
	}
}

// FromEvent encodes ev into an entry keyed by its contract.
func FromEvent(ev audit.Event) (*Entry, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode audit event: %w", err)
	}
	return NewEntry(audit.AggregateType, ev.Contract.String(), string(ev.Action), payload, ev.Timestamp), nil
}
