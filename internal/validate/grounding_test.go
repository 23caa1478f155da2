package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanadworks/isnad/internal/evidence"
)

func testRegistries() Registries {
	return NewRegistries(
		[]string{"clm-1", "clm-2"},
		[]string{"calc-1"},
		[]string{"enr-1"},
	)
}

func groundedOutput() *evidence.AgentOutput {
	return &evidence.AgentOutput{
		AgentID:   "agent-financial",
		AgentType: "financial",
		ClaimRefs: []string{"clm-1"},
		CalcRefs:  []string{"calc-1"},
		EnrichmentRefs: []evidence.EnrichmentRef{
			{ID: "enr-1", Provider: "marketdata", Source: "q2-dataset"},
		},
		Risks: []evidence.Risk{
			{Title: "Customer concentration", EvidenceRefs: []string{"clm-2"}},
		},
		Muhasabah: evidence.Muhasabah{
			SupportedClaimIDs: []string{"clm-1"},
			SupportedCalcIDs:  []string{"calc-1"},
		},
	}
}

func TestGrounding_Validate_Passes(t *testing.T) {
	v := NewGrounding(testRegistries())

	res := v.Validate(groundedOutput())

	assert.True(t, res.Passed)
	assert.Empty(t, res.Errors)
}

func TestGrounding_Validate_NilFailsClosed(t *testing.T) {
	v := NewGrounding(testRegistries())

	res := v.Validate(nil)

	assert.False(t, res.Passed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, CodeNilOutput, res.Errors[0].Code)
}

func TestGrounding_Validate_CollectsAllViolations(t *testing.T) {
	v := NewGrounding(testRegistries())
	out := groundedOutput()
	out.ClaimRefs = append(out.ClaimRefs, "clm-ghost")
	out.CalcRefs = append(out.CalcRefs, "calc-ghost")
	out.Muhasabah.SupportedClaimIDs = append(out.Muhasabah.SupportedClaimIDs, "clm-phantom")

	res := v.Validate(out)

	assert.False(t, res.Passed)
	require.Len(t, res.Errors, 3, "all violations must be collected, not just the first")

	codes := make(map[string]int)
	paths := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		codes[e.Code]++
		paths = append(paths, e.Path)
	}
	assert.Equal(t, 2, codes[CodeUnknownClaim])
	assert.Equal(t, 1, codes[CodeUnknownCalc])
	assert.Contains(t, paths, "claim_refs[1]")
	assert.Contains(t, paths, "calc_refs[1]")
	assert.Contains(t, paths, "muhasabah.supported_claim_ids[1]")
}

func TestGrounding_Validate_RiskWithoutEvidence(t *testing.T) {
	v := NewGrounding(testRegistries())
	out := groundedOutput()
	out.Risks = append(out.Risks, evidence.Risk{Title: "Unsupported risk"})

	res := v.Validate(out)

	assert.False(t, res.Passed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, CodeRiskWithoutEvidence, res.Errors[0].Code)
	assert.Equal(t, "risks[1].evidence_refs", res.Errors[0].Path)
}

func TestGrounding_Validate_RiskEvidenceAnyRegistry(t *testing.T) {
	v := NewGrounding(testRegistries())
	out := groundedOutput()
	out.Risks = []evidence.Risk{
		{Title: "calc-backed", EvidenceRefs: []string{"calc-1"}},
		{Title: "enrichment-backed", EvidenceRefs: []string{"enr-1"}},
		{Title: "ghost-backed", EvidenceRefs: []string{"ev-ghost"}},
	}

	res := v.Validate(out)

	assert.False(t, res.Passed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, CodeUnknownEvidenceRef, res.Errors[0].Code)
	assert.Equal(t, "risks[2].evidence_refs[0]", res.Errors[0].Path)
}

func TestGrounding_Validate_EnrichmentRequiresProviderAndSource(t *testing.T) {
	v := NewGrounding(testRegistries())
	out := groundedOutput()
	out.EnrichmentRefs = []evidence.EnrichmentRef{{ID: "enr-1"}}

	res := v.Validate(out)

	assert.False(t, res.Passed)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, CodeEnrichmentNoProvider, res.Errors[0].Code)
	assert.Equal(t, CodeEnrichmentNoSource, res.Errors[1].Code)
}

func TestGrounding_Validate_UnknownEnrichment(t *testing.T) {
	v := NewGrounding(testRegistries())
	out := groundedOutput()
	out.EnrichmentRefs = []evidence.EnrichmentRef{
		{ID: "enr-ghost", Provider: "p", Source: "s"},
	}

	res := v.Validate(out)

	assert.False(t, res.Passed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, CodeUnknownEnrichment, res.Errors[0].Code)
}

func TestGrounding_Validate_EmptyOutputPasses(t *testing.T) {
	v := NewGrounding(NewRegistries(nil, nil, nil))

	res := v.Validate(&evidence.AgentOutput{AgentID: "a", AgentType: "t"})

	assert.True(t, res.Passed)
}
