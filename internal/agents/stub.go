package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sanadworks/isnad/internal/adjudication"
	"github.com/sanadworks/isnad/internal/evidence"
)

// StubAgent returns a fixed output on every run. It backs tests, demos
// and dry runs where no model should be called.
type StubAgent struct {
	id        string
	agentType string
	output    evidence.AgentOutput
}

// NewStubAgent creates a stub returning a copy of the given output.
func NewStubAgent(id, agentType string, output evidence.AgentOutput) *StubAgent {
	return &StubAgent{id: id, agentType: agentType, output: output}
}

// NewStubAgentFromFile creates a stub whose output is loaded from a JSON
// fixture file.
func NewStubAgentFromFile(id, agentType, path string) (*StubAgent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var output evidence.AgentOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return NewStubAgent(id, agentType, output), nil
}

// ID implements adjudication.Agent.
func (a *StubAgent) ID() string { return a.id }

// Type implements adjudication.Agent.
func (a *StubAgent) Type() string { return a.agentType }

// Run returns the canned output stamped with the agent's identity.
func (a *StubAgent) Run(ctx context.Context, rc adjudication.RunContext) (*evidence.AgentOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := a.output
	out.AgentID = a.id
	out.AgentType = a.agentType
	return &out, nil
}
