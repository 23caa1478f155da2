package evidence

import (
	"sort"
	"strings"
	"time"
)

// ImpactLevel rates how much an uncertainty could move the conclusion.
type ImpactLevel string

const (
	ImpactHigh   ImpactLevel = "HIGH"
	ImpactMedium ImpactLevel = "MEDIUM"
	ImpactLow    ImpactLevel = "LOW"
)

// Valid reports whether the impact level is one of the known values.
func (l ImpactLevel) Valid() bool {
	return l == ImpactHigh || l == ImpactMedium || l == ImpactLow
}

// Uncertainty is one acknowledged unknown in a muhasabah record.
type Uncertainty struct {
	Description string      `json:"description"`
	Impact      ImpactLevel `json:"impact"`
}

// Risk is a risk finding in an agent output. Every risk must carry at
// least one evidence reference; the grounding validator enforces this.
type Risk struct {
	Title        string   `json:"title"`
	Detail       string   `json:"detail,omitempty"`
	EvidenceRefs []string `json:"evidence_refs"`
}

// EnrichmentRef references externally sourced enrichment data. Provider
// and Source must be non-empty for the reference to be admissible.
type EnrichmentRef struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
	Source   string `json:"source"`
}

// Muhasabah is the mandatory self-accounting record embedded in every
// agent output: what the agent relied on, what would falsify it, and
// how confident it is.
type Muhasabah struct {
	// SupportedClaimIDs are the claims the output's conclusions rest on.
	SupportedClaimIDs []string `json:"supported_claim_ids,omitempty"`

	// SupportedCalcIDs are the computations the conclusions rest on.
	SupportedCalcIDs []string `json:"supported_calc_ids,omitempty"`

	// EvidenceSummary summarizes the evidence relied upon.
	EvidenceSummary string `json:"evidence_summary,omitempty"`

	// CounterHypothesis is the strongest alternative explanation the
	// agent considered.
	CounterHypothesis string `json:"counter_hypothesis,omitempty"`

	// FalsifiabilityTests are concrete checks that would disprove the
	// conclusion.
	FalsifiabilityTests []string `json:"falsifiability_tests,omitempty"`

	// Uncertainties are acknowledged unknowns with their impact.
	Uncertainties []Uncertainty `json:"uncertainties,omitempty"`

	// FailureModes are ways the analysis itself could be wrong.
	FailureModes []string `json:"failure_modes,omitempty"`

	// Confidence is the agent's calibrated confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	// Timestamp is when the record was produced.
	Timestamp time.Time `json:"timestamp"`

	// Subjective marks outputs that are opinion rather than factual
	// assertion, relaxing the grounding requirement.
	Subjective bool `json:"subjective"`
}

// AgentOutput is the structured product of one analysis agent run.
type AgentOutput struct {
	// AgentID identifies the producing agent.
	AgentID string `json:"agent_id"`

	// AgentType categorizes the agent (financial, legal, market, ...).
	AgentType string `json:"agent_type"`

	// Sections are the named narrative sections of the report.
	Sections map[string]string `json:"sections,omitempty"`

	// Risks are the risk findings.
	Risks []Risk `json:"risks,omitempty"`

	// ClaimRefs are claim ids the output relies on.
	ClaimRefs []string `json:"claim_refs,omitempty"`

	// CalcRefs are computation ids the output relies on.
	CalcRefs []string `json:"calc_refs,omitempty"`

	// EnrichmentRefs are enrichment data references.
	EnrichmentRefs []EnrichmentRef `json:"enrichment_refs,omitempty"`

	// Confidence is the agent's overall confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	// Muhasabah is the embedded self-accounting record. Exactly one
	// per output.
	Muhasabah Muhasabah `json:"muhasabah"`
}

// Text returns the concatenated narrative text of the output, used by
// the muhasabah validator's factual-pattern detection.
func (o *AgentOutput) Text() string {
	if o == nil {
		return ""
	}
	var b strings.Builder
	for _, section := range sortedKeys(o.Sections) {
		b.WriteString(o.Sections[section])
		b.WriteString("\n")
	}
	for _, r := range o.Risks {
		b.WriteString(r.Title)
		b.WriteString("\n")
		b.WriteString(r.Detail)
		b.WriteString("\n")
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
