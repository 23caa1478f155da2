package adjudication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sanadworks/isnad/internal/evidence"
	"github.com/sanadworks/isnad/internal/validate"
)

// ErrUnknownAgent marks a run request naming an unregistered agent.
var ErrUnknownAgent = errors.New("unknown agent")

// ErrDeliverableBlocked marks a run refused because of open FATAL
// defects on material claims.
var ErrDeliverableBlocked = errors.New("deliverable blocked by open fatal defects")

// Agent is a pluggable analysis agent, model-backed or fixed stub.
type Agent interface {
	// ID is the unique agent identifier.
	ID() string

	// Type categorizes the agent (financial, legal, market, ...).
	Type() string

	// Run produces the agent's output for the given run context.
	Run(ctx context.Context, rc RunContext) (*evidence.AgentOutput, error)
}

// RunContext is the full, immutable context handed to every agent and
// validator in a run. Each invocation receives its own context; the
// engine keeps no state between runs.
type RunContext struct {
	// DealID is the deal under adjudication.
	DealID string

	// TenantID is the owning organization.
	TenantID string

	// AgentIDs are the agents to run, in any order. Execution order is
	// always (agent-type, agent-id).
	AgentIDs []string

	// Registries are the known claim, calc and enrichment ids.
	Registries validate.Registries

	// Claims are the graded claims of the deal, used for the
	// deliverable-blocking defect check.
	Claims []evidence.Claim
}

// Validate rejects a structurally unusable run context. Every claim
// must satisfy its own invariants before it can feed the blocker gate
// or an agent prompt.
func (rc RunContext) Validate() error {
	if rc.DealID == "" {
		return fmt.Errorf("deal id is required")
	}
	if rc.TenantID == "" {
		return fmt.Errorf("tenant id is required")
	}
	if len(rc.AgentIDs) == 0 {
		return fmt.Errorf("at least one agent id is required")
	}
	seen := make(map[string]struct{}, len(rc.AgentIDs))
	for _, id := range rc.AgentIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate agent id %q", id)
		}
		seen[id] = struct{}{}
	}
	for i := range rc.Claims {
		if err := rc.Claims[i].Validate(); err != nil {
			return fmt.Errorf("invalid claim: %w", err)
		}
	}
	return nil
}

// AgentReport is the validated product of one agent within a run.
type AgentReport struct {
	AgentID     string                `json:"agent_id"`
	AgentType   string                `json:"agent_type"`
	Output      *evidence.AgentOutput `json:"output"`
	Grounding   validate.Result       `json:"grounding"`
	Muhasabah   validate.Result       `json:"muhasabah"`
	CompletedAt time.Time             `json:"completed_at"`
}

// AnalysisBundle is the assembled result of a successful run.
type AnalysisBundle struct {
	DealID    string        `json:"deal_id"`
	TenantID  string        `json:"tenant_id"`
	RunID     string        `json:"run_id"`
	Reports   []AgentReport `json:"reports"`
	Timestamp time.Time     `json:"timestamp"`
}

// Registry holds the known agents.
type Registry struct {
	agents map[string]Agent
}

// NewRegistry creates an empty agent registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]Agent)}
}

// Register adds an agent. Duplicate ids are rejected.
func (r *Registry) Register(agent Agent) error {
	if agent == nil || agent.ID() == "" {
		return fmt.Errorf("agent with empty id cannot be registered")
	}
	if _, exists := r.agents[agent.ID()]; exists {
		return fmt.Errorf("agent %s already registered", agent.ID())
	}
	r.agents[agent.ID()] = agent
	return nil
}

// Resolve returns the agent with the given id.
func (r *Registry) Resolve(id string) (Agent, bool) {
	agent, ok := r.agents[id]
	return agent, ok
}
