package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is the subject prefix for published audit events.
const DefaultSubjectPrefix = "isnad.audit"

// NATSSink publishes audit events to a NATS subject per event type:
// <prefix>.<event_type>.
type NATSSink struct {
	conn          *nats.Conn
	subjectPrefix string
}

// NewNATSSink creates a sink over an established NATS connection. An
// empty subjectPrefix uses DefaultSubjectPrefix.
func NewNATSSink(conn *nats.Conn, subjectPrefix string) *NATSSink {
	if subjectPrefix == "" {
		subjectPrefix = DefaultSubjectPrefix
	}
	return &NATSSink{conn: conn, subjectPrefix: subjectPrefix}
}

// Emit publishes the event. Marshal and publish failures both wrap
// ErrSinkFailure so callers can distinguish audit-channel loss from
// everything else.
func (s *NATSSink) Emit(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event %s: %v", ErrSinkFailure, event.ID, err)
	}
	subject := fmt.Sprintf("%s.%s", s.subjectPrefix, event.Type)
	if err := s.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("%w: publish to %s: %v", ErrSinkFailure, subject, err)
	}
	return nil
}
