// Package grading derives the letter grade and corroboration level of a
// claim from its source tier, precision score and corroborating
// evidence. Corroboration never upgrades a grade; defects and low
// precision only ever drag it down.
package grading

import (
	"fmt"

	"github.com/sanadworks/isnad/internal/dabt"
	"github.com/sanadworks/isnad/internal/evidence"
	"github.com/sanadworks/isnad/internal/reliability"
)

// BaseGrade maps a reliability tier to its base letter grade.
func BaseGrade(t reliability.Tier) evidence.Grade {
	switch t {
	case reliability.TierAudited, reliability.TierAttested:
		return evidence.GradeA
	case reliability.TierVersionedInternal, reliability.TierFounderStatement:
		return evidence.GradeB
	case reliability.TierThirdPartyEstimate, reliability.TierAnalystGuess:
		return evidence.GradeC
	}
	// Unknown tier fails closed to the support-only grade.
	return evidence.GradeC
}

// Grade combines the tier's base grade with the precision cap.
func Grade(t reliability.Tier, precision dabt.Result) evidence.Grade {
	g := BaseGrade(t)
	if precision.CapsGradeAtB() {
		g = g.Worse(evidence.GradeB)
	}
	return g
}

// Corroboration maps a corroborator count to the corroboration level
// and the independent chain count.
func Corroboration(corroborators int) (evidence.CorroborationLevel, int) {
	if corroborators < 0 {
		corroborators = 0
	}
	count := corroborators + 1
	switch {
	case corroborators == 0:
		return evidence.Ahad1, count
	case corroborators <= 2:
		return evidence.Ahad2, count
	default:
		return evidence.Mutawatir, count
	}
}

// VerdictFor maps a grade to its acceptance verdict.
func VerdictFor(g evidence.Grade) evidence.Verdict {
	switch g {
	case evidence.GradeA, evidence.GradeB:
		return evidence.VerdictAccepted
	case evidence.GradeC:
		return evidence.VerdictConditional
	default:
		return evidence.VerdictRejected
	}
}

// ActionFor maps a grade to its recommended handling.
func ActionFor(g evidence.Grade) evidence.Action {
	switch g {
	case evidence.GradeA, evidence.GradeB:
		return evidence.ActionUse
	case evidence.GradeC:
		return evidence.ActionCorroborate
	default:
		return evidence.ActionExclude
	}
}

// Assessment is the full grading outcome for one claim.
type Assessment struct {
	Tier          reliability.Tier            `json:"tier"`
	Precision     dabt.Result                 `json:"precision"`
	Grade         evidence.Grade              `json:"grade"`
	Verdict       evidence.Verdict            `json:"verdict"`
	Action        evidence.Action             `json:"action"`
	Corroboration evidence.CorroborationLevel `json:"corroboration"`
	ChainCount    int                         `json:"chain_count"`
}

// Input carries everything needed to assess one claim.
type Input struct {
	// Source describes the primary evidence item.
	Source evidence.SourceDescriptor

	// Materiality is the claim's materiality, gating admissibility.
	Materiality evidence.Materiality

	// Dimensions are the precision dimension values.
	Dimensions dabt.Dimensions

	// Corroborators is the number of corroborating evidence items.
	Corroborators int

	// OpenFatalDefect marks a claim with an uncured, unwaived FATAL
	// defect. Forces grade D regardless of tier and precision.
	OpenFatalDefect bool
}

// Assess runs the full pipeline: classify the source, check primary
// admissibility, score precision, grade, and derive corroboration. An
// inadmissible primary source is an error, not a low grade: the claim
// must be re-evidenced, not quietly downgraded.
func Assess(in Input) (Assessment, error) {
	tier := reliability.Classify(in.Source)

	if ok, reason := reliability.Admissible(tier, in.Materiality); !ok {
		return Assessment{}, fmt.Errorf("inadmissible primary evidence: %s", reason)
	}

	precision := dabt.Score(in.Dimensions)
	grade := Grade(tier, precision)
	if in.OpenFatalDefect {
		grade = evidence.GradeD
	}

	level, count := Corroboration(in.Corroborators)

	return Assessment{
		Tier:          tier,
		Precision:     precision,
		Grade:         grade,
		Verdict:       VerdictFor(grade),
		Action:        ActionFor(grade),
		Corroboration: level,
		ChainCount:    count,
	}, nil
}

// Apply copies an assessment onto a claim and its sanad.
func Apply(a Assessment, claim *evidence.Claim, sanad *evidence.Sanad) {
	if claim != nil {
		claim.Grade = a.Grade
		claim.Verdict = a.Verdict
		claim.Action = a.Action
	}
	if sanad != nil {
		sanad.Grade = a.Grade
		sanad.Corroboration = a.Corroboration
		sanad.ChainCount = a.ChainCount
	}
}
