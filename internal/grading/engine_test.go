package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanadworks/isnad/internal/dabt"
	"github.com/sanadworks/isnad/internal/evidence"
	"github.com/sanadworks/isnad/internal/reliability"
)

func ptr(v float64) *float64 { return &v }

func perfectDims() dabt.Dimensions {
	return dabt.Dimensions{
		Documentation: ptr(1.0),
		Transmission:  ptr(1.0),
		Temporal:      ptr(1.0),
	}
}

func TestBaseGrade(t *testing.T) {
	tests := []struct {
		tier reliability.Tier
		want evidence.Grade
	}{
		{reliability.TierAudited, evidence.GradeA},
		{reliability.TierAttested, evidence.GradeA},
		{reliability.TierVersionedInternal, evidence.GradeB},
		{reliability.TierFounderStatement, evidence.GradeB},
		{reliability.TierThirdPartyEstimate, evidence.GradeC},
		{reliability.TierAnalystGuess, evidence.GradeC},
		{reliability.Tier("bogus"), evidence.GradeC},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, BaseGrade(tc.tier), "tier %s", tc.tier)
	}
}

func TestGrade_PrecisionCap(t *testing.T) {
	poor := dabt.Score(dabt.Dimensions{Documentation: ptr(0.3), Transmission: ptr(0.3), Temporal: ptr(0.3)})
	require.True(t, poor.CapsGradeAtB())

	assert.Equal(t, evidence.GradeB, Grade(reliability.TierAudited, poor))
	assert.Equal(t, evidence.GradeB, Grade(reliability.TierVersionedInternal, poor))
	// The cap never improves a grade.
	assert.Equal(t, evidence.GradeC, Grade(reliability.TierAnalystGuess, poor))
}

func TestCorroboration(t *testing.T) {
	tests := []struct {
		corroborators int
		wantLevel     evidence.CorroborationLevel
		wantCount     int
	}{
		{0, evidence.Ahad1, 1},
		{1, evidence.Ahad2, 2},
		{2, evidence.Ahad2, 3},
		{3, evidence.Mutawatir, 4},
		{7, evidence.Mutawatir, 8},
		{-2, evidence.Ahad1, 1},
	}
	for _, tc := range tests {
		level, count := Corroboration(tc.corroborators)
		assert.Equal(t, tc.wantLevel, level, "corroborators=%d", tc.corroborators)
		assert.Equal(t, tc.wantCount, count, "corroborators=%d", tc.corroborators)
	}
}

func TestAssess_AuditedPerfectUncorroborated(t *testing.T) {
	got, err := Assess(Input{
		Source:      evidence.SourceDescriptor{SourceType: "audited_financials"},
		Materiality: evidence.MaterialityCritical,
		Dimensions:  perfectDims(),
	})

	require.NoError(t, err)
	assert.Equal(t, reliability.TierAudited, got.Tier)
	assert.Equal(t, evidence.GradeA, got.Grade)
	assert.Equal(t, evidence.Ahad1, got.Corroboration)
	assert.Equal(t, 1, got.ChainCount)
	assert.Equal(t, evidence.VerdictAccepted, got.Verdict)
	assert.Equal(t, evidence.ActionUse, got.Action)
}

func TestAssess_SupportOnlyPrimaryRejected(t *testing.T) {
	_, err := Assess(Input{
		Source:      evidence.SourceDescriptor{SourceType: "market_report"},
		Materiality: evidence.MaterialityHigh,
		Dimensions:  perfectDims(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "inadmissible primary evidence")
}

func TestAssess_UnknownSourceLowMateriality(t *testing.T) {
	got, err := Assess(Input{
		Source:      evidence.SourceDescriptor{SourceType: "somebody_said_so"},
		Materiality: evidence.MaterialityLow,
		Dimensions:  perfectDims(),
		Corroborators: 4,
	})

	require.NoError(t, err)
	assert.Equal(t, reliability.TierAnalystGuess, got.Tier)
	assert.Equal(t, evidence.GradeC, got.Grade, "corroboration must not upgrade the grade")
	assert.Equal(t, evidence.Mutawatir, got.Corroboration)
	assert.Equal(t, evidence.VerdictConditional, got.Verdict)
}

func TestAssess_OpenFatalDefectForcesD(t *testing.T) {
	got, err := Assess(Input{
		Source:          evidence.SourceDescriptor{SourceType: "audited_financials"},
		Materiality:     evidence.MaterialityHigh,
		Dimensions:      perfectDims(),
		OpenFatalDefect: true,
	})

	require.NoError(t, err)
	assert.Equal(t, evidence.GradeD, got.Grade)
	assert.Equal(t, evidence.VerdictRejected, got.Verdict)
	assert.Equal(t, evidence.ActionExclude, got.Action)
}

func TestApply(t *testing.T) {
	claim := &evidence.Claim{ID: "clm-1"}
	sanad := &evidence.Sanad{ID: "snd-1"}
	a := Assessment{
		Grade:         evidence.GradeB,
		Verdict:       evidence.VerdictAccepted,
		Action:        evidence.ActionUse,
		Corroboration: evidence.Ahad2,
		ChainCount:    2,
	}

	Apply(a, claim, sanad)

	assert.Equal(t, evidence.GradeB, claim.Grade)
	assert.Equal(t, evidence.GradeB, sanad.Grade)
	assert.Equal(t, evidence.Ahad2, sanad.Corroboration)
	assert.Equal(t, 2, sanad.ChainCount)

	// Nil targets are tolerated.
	Apply(a, nil, nil)
}
