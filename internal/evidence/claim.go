package evidence

import (
	"fmt"
	"time"
)

// ClaimKind distinguishes claims extracted from source documents from
// claims produced by a computation.
type ClaimKind string

const (
	// KindPrimary is a claim extracted directly from source documents.
	KindPrimary ClaimKind = "PRIMARY"
	// KindDerived is a claim produced by a computation over other claims.
	KindDerived ClaimKind = "DERIVED"
)

// Valid reports whether the kind is one of the known values.
func (k ClaimKind) Valid() bool {
	return k == KindPrimary || k == KindDerived
}

// Materiality ranks the business importance of a claim. It gates which
// evidence tiers are admissible as primary support and whether open
// fatal defects block deliverable generation.
type Materiality string

const (
	MaterialityLow      Materiality = "LOW"
	MaterialityMedium   Materiality = "MEDIUM"
	MaterialityHigh     Materiality = "HIGH"
	MaterialityCritical Materiality = "CRITICAL"
)

// Valid reports whether the materiality is one of the known values.
func (m Materiality) Valid() bool {
	switch m {
	case MaterialityLow, MaterialityMedium, MaterialityHigh, MaterialityCritical:
		return true
	}
	return false
}

// Material reports whether the claim sits in the tier where strict
// admissibility and deliverable-blocking rules apply.
func (m Materiality) Material() bool {
	return m == MaterialityHigh || m == MaterialityCritical
}

// Grade is the letter grade assigned to a claim's evidence chain.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// gradeRank orders grades best (0) to worst (3). Unknown grades rank
// worst so that a malformed grade never outranks a real one.
func gradeRank(g Grade) int {
	switch g {
	case GradeA:
		return 0
	case GradeB:
		return 1
	case GradeC:
		return 2
	case GradeD:
		return 3
	}
	return 4
}

// Worse returns the lower of the two grades.
func (g Grade) Worse(other Grade) Grade {
	if gradeRank(other) > gradeRank(g) {
		return other
	}
	return g
}

// AtLeastAsBadAs reports whether g is the same grade as other or worse.
func (g Grade) AtLeastAsBadAs(other Grade) bool {
	return gradeRank(g) >= gradeRank(other)
}

// CorroborationLevel describes how many independent evidence chains
// support a claim.
type CorroborationLevel string

const (
	// Ahad1 is a single uncorroborated chain.
	Ahad1 CorroborationLevel = "AHAD_1"
	// Ahad2 is a claim with one or two corroborating chains.
	Ahad2 CorroborationLevel = "AHAD_2"
	// Mutawatir is a claim with three or more corroborating chains.
	Mutawatir CorroborationLevel = "MUTAWATIR"
)

// Verdict is the acceptance outcome computed from the grade.
type Verdict string

const (
	VerdictAccepted    Verdict = "ACCEPTED"
	VerdictConditional Verdict = "CONDITIONAL"
	VerdictRejected    Verdict = "REJECTED"
)

// Action is the recommended handling computed from the grade.
type Action string

const (
	ActionUse         Action = "USE"
	ActionCorroborate Action = "CORROBORATE"
	ActionExclude     Action = "EXCLUDE"
)

// Value is an optional typed value attached to a claim.
type Value struct {
	// Text is the raw textual form of the value.
	Text string `json:"text"`

	// Number is the parsed numeric form, if the value is numeric.
	Number *float64 `json:"number,omitempty"`

	// Unit qualifies Number (currency code, "%", "months", ...).
	Unit string `json:"unit,omitempty"`

	// AsOf is the point in time the value refers to.
	AsOf *time.Time `json:"as_of,omitempty"`
}

// Claim is a single factual assertion about a deal, backed by a Sanad.
type Claim struct {
	// ID is the unique identifier for this claim.
	ID string `json:"id"`

	// TenantID is the organization this claim belongs to.
	TenantID string `json:"tenant_id"`

	// DealID is the deal this claim belongs to.
	DealID string `json:"deal_id"`

	// Statement is the assertion text.
	Statement string `json:"statement"`

	// Category groups claims by subject (financial, legal, market, ...).
	Category string `json:"category"`

	// Kind is PRIMARY or DERIVED.
	Kind ClaimKind `json:"kind"`

	// Value is the optional typed value of the assertion.
	Value *Value `json:"value,omitempty"`

	// SanadID links the claim to its evidence chain.
	SanadID string `json:"sanad_id"`

	// Grade is the computed letter grade. Recomputed whenever the
	// sanad or attached defects change.
	Grade Grade `json:"grade,omitempty"`

	// Verdict is the acceptance outcome computed from Grade.
	Verdict Verdict `json:"verdict,omitempty"`

	// Action is the recommended handling computed from Grade.
	Action Action `json:"action,omitempty"`

	// Materiality ranks business importance.
	Materiality Materiality `json:"materiality"`

	// DefectIDs are defects recorded against this claim.
	DefectIDs []string `json:"defect_ids,omitempty"`

	// ProducedByCalcID identifies the computation that produced a
	// DERIVED claim. Empty for PRIMARY claims.
	ProducedByCalcID string `json:"produced_by_calc_id,omitempty"`

	// CreatedAt is when the claim was created.
	CreatedAt time.Time `json:"created_at"`
}

// Validate enforces the structural invariants of a claim. A DERIVED
// claim always carries its producing computation id; a PRIMARY claim
// never does.
func (c *Claim) Validate() error {
	if c == nil {
		return fmt.Errorf("claim is nil")
	}
	if c.ID == "" {
		return fmt.Errorf("claim id is required")
	}
	if c.Statement == "" {
		return fmt.Errorf("claim %s: statement is required", c.ID)
	}
	if !c.Kind.Valid() {
		return fmt.Errorf("claim %s: unknown kind %q", c.ID, c.Kind)
	}
	if !c.Materiality.Valid() {
		return fmt.Errorf("claim %s: unknown materiality %q", c.ID, c.Materiality)
	}
	switch c.Kind {
	case KindPrimary:
		if c.ProducedByCalcID != "" {
			return fmt.Errorf("claim %s: PRIMARY claim must not carry a producing calc id", c.ID)
		}
	case KindDerived:
		if c.ProducedByCalcID == "" {
			return fmt.Errorf("claim %s: DERIVED claim must carry a producing calc id", c.ID)
		}
	}
	return nil
}
