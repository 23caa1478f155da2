// Package audit defines the audit channel of the adjudication engine.
//
// Every orchestrated run emits a trail of events through a Sink. The
// channel is load-bearing: a sink failure is a distinguished error the
// engine never swallows, because an adjudication that cannot be audited
// must not appear to have succeeded.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSinkFailure is the distinguished audit-channel failure. Sinks wrap
// their transport errors with it; the engine propagates it unmodified.
var ErrSinkFailure = errors.New("audit sink failure")

// EventType identifies an audit event.
type EventType string

const (
	EventRunStarted     EventType = "run_started"
	EventAgentCompleted EventType = "agent_completed"
	EventAgentFailed    EventType = "agent_failed"
	EventRunCompleted   EventType = "run_completed"
	EventRunFailed      EventType = "run_failed"
)

// Event is one entry in the audit trail of a run.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	TenantID  string    `json:"tenant_id"`
	DealID    string    `json:"deal_id"`
	AgentID   string    `json:"agent_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent builds an event with a fresh id and timestamp.
func NewEvent(eventType EventType, runID, tenantID, dealID string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RunID:     runID,
		TenantID:  tenantID,
		DealID:    dealID,
		Timestamp: time.Now().UTC(),
	}
}

// Sink receives audit events. Implementations must return an error
// wrapping ErrSinkFailure when delivery fails.
type Sink interface {
	Emit(ctx context.Context, event Event) error
}
