package defect

import "time"

// Type categorizes a fault found in a claim's evidence chain.
type Type string

const (
	// TypeBrokenChain is a gap in the chain of custody.
	TypeBrokenChain Type = "BROKEN_CHAIN"
	// TypeHiddenFlaw is a subtle flaw discovered only on close comparison
	// of chains.
	TypeHiddenFlaw Type = "HIDDEN_FLAW"
	// TypeContradiction is a claim contradicted by better evidence.
	TypeContradiction Type = "CONTRADICTION"
	// TypeAnachronism is evidence dated after the event it attests.
	TypeAnachronism Type = "ANACHRONISM"
	// TypeForgerySuspected is suspected fabrication of evidence.
	TypeForgerySuspected Type = "FORGERY_SUSPECTED"
	// TypeStaleEvidence is evidence too old for the claim's period.
	TypeStaleEvidence Type = "STALE_EVIDENCE"
	// TypeUnreliableActor is a chain hop through an actor with a known
	// accuracy problem.
	TypeUnreliableActor Type = "UNRELIABLE_ACTOR"
	// TypeTamperedDocument is a document with signs of alteration.
	TypeTamperedDocument Type = "TAMPERED_DOCUMENT"
	// TypeExtractionCorruption is text mangled during extraction.
	TypeExtractionCorruption Type = "EXTRACTION_CORRUPTION"
	// TypeUnitMismatch is a value whose unit disagrees with its source.
	TypeUnitMismatch Type = "UNIT_MISMATCH"
	// TypeOverclaimedPrecision is a value stated more precisely than its
	// source supports.
	TypeOverclaimedPrecision Type = "OVERCLAIMED_PRECISION"
	// TypeCircularDerivation is a derived claim resting on itself.
	TypeCircularDerivation Type = "CIRCULAR_DERIVATION"
	// TypeScopeMismatch is evidence about a different entity or period.
	TypeScopeMismatch Type = "SCOPE_MISMATCH"
	// TypeUndisclosedConflict is evidence from a source with an
	// undisclosed interest in the outcome.
	TypeUndisclosedConflict Type = "UNDISCLOSED_CONFLICT"
)

// AllTypes returns every known defect type.
func AllTypes() []Type {
	return []Type{
		TypeBrokenChain,
		TypeHiddenFlaw,
		TypeContradiction,
		TypeAnachronism,
		TypeForgerySuspected,
		TypeStaleEvidence,
		TypeUnreliableActor,
		TypeTamperedDocument,
		TypeExtractionCorruption,
		TypeUnitMismatch,
		TypeOverclaimedPrecision,
		TypeCircularDerivation,
		TypeScopeMismatch,
		TypeUndisclosedConflict,
	}
}

// Valid reports whether the type is one of the known defect types.
func (t Type) Valid() bool {
	for _, known := range AllTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Severity ranks how damaging a defect is.
type Severity string

const (
	SeverityFatal Severity = "FATAL"
	SeverityMajor Severity = "MAJOR"
	SeverityMinor Severity = "MINOR"
)

// Valid reports whether the severity is one of the known values.
func (s Severity) Valid() bool {
	return s == SeverityFatal || s == SeverityMajor || s == SeverityMinor
}

// CureProtocol is the mandated remediation action for a defect.
type CureProtocol string

const (
	CureObtainPrimaryDocument    CureProtocol = "OBTAIN_PRIMARY_DOCUMENT"
	CureIndependentCorroboration CureProtocol = "INDEPENDENT_CORROBORATION"
	CureFounderAttestation       CureProtocol = "FOUNDER_ATTESTATION"
	CureRecomputeFromSource      CureProtocol = "RECOMPUTE_FROM_SOURCE"
	CureExpertReview             CureProtocol = "EXPERT_REVIEW"
)

// Valid reports whether the cure protocol is one of the known values.
func (c CureProtocol) Valid() bool {
	switch c {
	case CureObtainPrimaryDocument, CureIndependentCorroboration,
		CureFounderAttestation, CureRecomputeFromSource, CureExpertReview:
		return true
	}
	return false
}

// Status is the lifecycle state of a defect. Defects are never deleted.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusCured  Status = "CURED"
	StatusWaived Status = "WAIVED"
)

// Defect is a structured fault recorded against one or more claims.
type Defect struct {
	// ID is the unique identifier for this defect.
	ID string `json:"id"`

	// Type is the categorical fault.
	Type Type `json:"type"`

	// Severity ranks the damage.
	Severity Severity `json:"severity"`

	// CureProtocol is the mandated remediation action.
	CureProtocol CureProtocol `json:"cure_protocol"`

	// Status is OPEN, CURED or WAIVED.
	Status Status `json:"status"`

	// AffectedClaimIDs are the claims this defect taints.
	AffectedClaimIDs []string `json:"affected_claim_ids"`

	// EvidenceRefs are the evidence items that exposed the defect.
	EvidenceRefs []string `json:"evidence_refs,omitempty"`

	// DetectedBy identifies the detector (agent id, rule id, human).
	DetectedBy string `json:"detected_by"`

	// CureEvidence references the remediation evidence for a cure.
	CureEvidence string `json:"cure_evidence,omitempty"`

	// WaiveReason records why the defect was waived.
	WaiveReason string `json:"waive_reason,omitempty"`

	// WaivedBy records who approved the waiver.
	WaivedBy string `json:"waived_by,omitempty"`

	// CreatedAt is when the defect was recorded.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the defect last changed status.
	UpdatedAt time.Time `json:"updated_at"`
}

// Open reports whether the defect still needs remediation.
func (d *Defect) Open() bool {
	return d.Status == StatusOpen
}
