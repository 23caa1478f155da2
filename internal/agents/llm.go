package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/sanadworks/isnad/internal/adjudication"
	"github.com/sanadworks/isnad/internal/evidence"
)

const llmSystemPrompt = `You are a due-diligence analysis agent. Analyze the deal using ONLY the
claims listed below. Cite claims by their exact ids; never invent facts
or ids. Respond with a single JSON object matching this shape:

{
  "sections": {"<section name>": "<narrative>"},
  "risks": [{"title": "...", "detail": "...", "evidence_refs": ["<claim id>"]}],
  "claim_refs": ["<claim id>"],
  "confidence": 0.0,
  "muhasabah": {
    "supported_claim_ids": ["<claim id>"],
    "evidence_summary": "...",
    "counter_hypothesis": "...",
    "falsifiability_tests": ["..."],
    "uncertainties": [{"description": "...", "impact": "HIGH|MEDIUM|LOW"}],
    "failure_modes": ["..."],
    "confidence": 0.0
  }
}`

// LLMAgent asks a language model for a structured analysis of the
// deal's claims. The model's output is parsed but never trusted: the
// orchestrator's validators decide whether it stands.
type LLMAgent struct {
	id          string
	agentType   string
	model       llms.Model
	temperature float64
}

// NewLLMAgent creates a model-backed agent.
func NewLLMAgent(id, agentType string, model llms.Model) (*LLMAgent, error) {
	if model == nil {
		return nil, fmt.Errorf("llm agent %s: model is required", id)
	}
	return &LLMAgent{id: id, agentType: agentType, model: model, temperature: 0.2}, nil
}

// ID implements adjudication.Agent.
func (a *LLMAgent) ID() string { return a.id }

// Type implements adjudication.Agent.
func (a *LLMAgent) Type() string { return a.agentType }

// Run prompts the model with the run's claims and parses its JSON reply
// into an agent output.
func (a *LLMAgent) Run(ctx context.Context, rc adjudication.RunContext) (*evidence.AgentOutput, error) {
	reply, err := llms.GenerateFromSinglePrompt(ctx, a.model, a.buildPrompt(rc),
		llms.WithTemperature(a.temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("llm agent %s: generate: %w", a.id, err)
	}

	out, hasMuhasabah, err := parseModelOutput(reply)
	if err != nil {
		return nil, fmt.Errorf("llm agent %s: %w", a.id, err)
	}

	out.AgentID = a.id
	out.AgentType = a.agentType
	// Backfill the timestamp only on a record the model actually
	// produced. An omitted record must stay zero-valued so the
	// orchestrator sees it as missing and fails closed.
	if hasMuhasabah && out.Muhasabah.Timestamp.IsZero() {
		out.Muhasabah.Timestamp = time.Now().UTC()
	}
	return out, nil
}

func (a *LLMAgent) buildPrompt(rc adjudication.RunContext) string {
	var b strings.Builder
	b.WriteString(llmSystemPrompt)
	b.WriteString("\n\nAgent focus: ")
	b.WriteString(a.agentType)
	b.WriteString("\nDeal: ")
	b.WriteString(rc.DealID)
	b.WriteString("\n\nClaims:\n")
	for _, c := range rc.Claims {
		fmt.Fprintf(&b, "- [%s] (%s, %s, grade %s) %s\n",
			c.ID, c.Kind, c.Materiality, c.Grade, c.Statement)
	}
	return b.String()
}

// parseModelOutput decodes the model reply, stripping a surrounding
// markdown code fence if the model added one. The second return value
// reports whether the reply carried a muhasabah record at all, so that
// an omitted record is not mistaken for a present-but-empty one.
func parseModelOutput(reply string) (*evidence.AgentOutput, bool, error) {
	trimmed := strings.TrimSpace(reply)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var out evidence.AgentOutput
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return nil, false, fmt.Errorf("parse model output: %w", err)
	}

	var presence struct {
		Muhasabah json.RawMessage `json:"muhasabah"`
	}
	if err := json.Unmarshal([]byte(trimmed), &presence); err != nil {
		return nil, false, fmt.Errorf("parse model output: %w", err)
	}
	hasMuhasabah := len(presence.Muhasabah) > 0 && string(presence.Muhasabah) != "null"

	return &out, hasMuhasabah, nil
}
