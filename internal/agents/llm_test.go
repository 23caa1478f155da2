package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/sanadworks/isnad/internal/adjudication"
	"github.com/sanadworks/isnad/internal/audit"
	"github.com/sanadworks/isnad/internal/evidence"
	"github.com/sanadworks/isnad/internal/validate"
)

// fakeModel returns a canned reply and captures the prompt it was given.
type fakeModel struct {
	reply  string
	err    error
	prompt string
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.prompt += text.Text
			}
		}
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.reply}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.prompt = prompt
	return m.reply, nil
}

const modelReply = `{
	"sections": {"financials": "ARR of $4.2M per claim-1"},
	"risks": [{"title": "customer concentration", "evidence_refs": ["claim-1"]}],
	"claim_refs": ["claim-1"],
	"confidence": 0.6,
	"muhasabah": {
		"supported_claim_ids": ["claim-1"],
		"falsifiability_tests": ["reconcile ARR against billing exports"],
		"uncertainties": [{"description": "pre-audit figures", "impact": "MEDIUM"}],
		"confidence": 0.6
	}
}`

func llmRunContext() adjudication.RunContext {
	return adjudication.RunContext{
		DealID:   "deal-1",
		TenantID: "acme",
		Claims: []evidence.Claim{{
			ID: "claim-1", Kind: evidence.KindPrimary, Grade: evidence.GradeA,
			Statement: "ARR is $4.2M", Materiality: evidence.MaterialityHigh,
		}},
	}
}

func TestNewLLMAgent_RequiresModel(t *testing.T) {
	_, err := NewLLMAgent("fin-1", "financial", nil)
	assert.Error(t, err)
}

func TestLLMAgent_Run(t *testing.T) {
	model := &fakeModel{reply: modelReply}
	agent, err := NewLLMAgent("fin-1", "financial", model)
	require.NoError(t, err)

	out, err := agent.Run(context.Background(), llmRunContext())

	require.NoError(t, err)
	assert.Equal(t, "fin-1", out.AgentID)
	assert.Equal(t, "financial", out.AgentType)
	assert.Equal(t, []string{"claim-1"}, out.ClaimRefs)
	require.Len(t, out.Risks, 1)
	assert.Equal(t, []string{"claim-1"}, out.Risks[0].EvidenceRefs)
	assert.False(t, out.Muhasabah.Timestamp.IsZero())

	assert.Contains(t, model.prompt, "claim-1")
	assert.Contains(t, model.prompt, "ARR is $4.2M")
	assert.Contains(t, model.prompt, "financial")
}

func TestLLMAgent_Run_StripsCodeFence(t *testing.T) {
	model := &fakeModel{reply: "```json\n" + modelReply + "\n```"}
	agent, err := NewLLMAgent("fin-1", "financial", model)
	require.NoError(t, err)

	out, err := agent.Run(context.Background(), llmRunContext())

	require.NoError(t, err)
	assert.Equal(t, []string{"claim-1"}, out.ClaimRefs)
}

func TestLLMAgent_Run_ModelError(t *testing.T) {
	model := &fakeModel{err: errors.New("rate limited")}
	agent, err := NewLLMAgent("fin-1", "financial", model)
	require.NoError(t, err)

	_, err = agent.Run(context.Background(), llmRunContext())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fin-1")
}

func TestLLMAgent_Run_OmittedMuhasabahStaysMissing(t *testing.T) {
	model := &fakeModel{reply: `{
		"sections": {"summary": "the founding team appears capable and focused"},
		"claim_refs": ["claim-1"],
		"confidence": 0.3
	}`}
	agent, err := NewLLMAgent("fin-1", "financial", model)
	require.NoError(t, err)

	out, err := agent.Run(context.Background(), llmRunContext())

	require.NoError(t, err)
	assert.True(t, out.Muhasabah.Timestamp.IsZero(),
		"an omitted record must not be backfilled into a present one")
}

func TestLLMAgent_Run_NullMuhasabahStaysMissing(t *testing.T) {
	model := &fakeModel{reply: `{"claim_refs": ["claim-1"], "muhasabah": null}`}
	agent, err := NewLLMAgent("fin-1", "financial", model)
	require.NoError(t, err)

	out, err := agent.Run(context.Background(), llmRunContext())

	require.NoError(t, err)
	assert.True(t, out.Muhasabah.Timestamp.IsZero())
}

func TestLLMAgent_OmittedMuhasabahFailsOrchestration(t *testing.T) {
	model := &fakeModel{reply: `{
		"sections": {"summary": "the founding team appears capable and focused"},
		"claim_refs": ["claim-1"],
		"confidence": 0.3
	}`}
	agent, err := NewLLMAgent("fin-1", "financial", model)
	require.NoError(t, err)

	registry := adjudication.NewRegistry()
	require.NoError(t, registry.Register(agent))
	orchestrator, err := adjudication.NewOrchestrator(registry, audit.NewMemorySink())
	require.NoError(t, err)

	rc := llmRunContext()
	rc.AgentIDs = []string{"fin-1"}
	rc.Registries = validate.NewRegistries([]string{"claim-1"}, nil, nil)

	_, err = orchestrator.Run(context.Background(), rc)

	require.Error(t, err, "output without a self-accounting record must fail closed")
	assert.Contains(t, err.Error(), validate.CodeNilRecord)
}

func TestLLMAgent_Run_MalformedReply(t *testing.T) {
	model := &fakeModel{reply: "I cannot answer in JSON, sorry."}
	agent, err := NewLLMAgent("fin-1", "financial", model)
	require.NoError(t, err)

	_, err = agent.Run(context.Background(), llmRunContext())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse model output")
}
