// Package events publishes household ledger domain events.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types. The type doubles as the AMQP routing key.
const (
	TransactionCreated  = "transaction.created"
	TransactionDeleted  = "transaction.deleted"
	MemberCreated       = "member.created"
	MemberDeleted       = "member.deleted"
	MemberPasswordReset = "member.password_reset"
	SetupCompleted      = "household.setup_completed"
)

// Event is a lightweight notification. Consumers fetch full records themselves.
type Event struct {
	ID         uuid.UUID         `json:"id"`
	Type       string            `json:"type"`
	ActorID    uuid.UUID         `json:"actorId"`
	SubjectID  uuid.UUID         `json:"subjectId"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// New creates an event of eventType about subjectID performed by actorID.
func New(eventType string, actorID, subjectID uuid.UUID, attributes map[string]string) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		ActorID:    actorID,
		SubjectID:  subjectID,
		Attributes: attributes,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON creates an event from JSON bytes
func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}
