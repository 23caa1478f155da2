package evidence

import (
	"fmt"
	"time"
)

// ActorType categorizes a link in the transmission chain.
type ActorType string

const (
	ActorHuman     ActorType = "HUMAN"
	ActorSystem    ActorType = "SYSTEM"
	ActorModel     ActorType = "MODEL"
	ActorConnector ActorType = "CONNECTOR"
)

// SourceDescriptor describes where a piece of evidence came from. It is
// stateless and consumed once by the reliability classifier.
type SourceDescriptor struct {
	// SourceType is the tag the classifier maps to a tier. An unknown
	// or empty tag classifies to the lowest tier.
	SourceType string `json:"source_type"`

	// Provenance is free-text detail about the origin.
	Provenance string `json:"provenance,omitempty"`
}

// TransmissionLink is one hop in the chain of custody of a piece of
// evidence.
type TransmissionLink struct {
	// Actor identifies who or what handled the evidence.
	Actor string `json:"actor"`

	// ActorType categorizes the actor.
	ActorType ActorType `json:"actor_type"`

	// Timestamp is when the hop occurred.
	Timestamp time.Time `json:"timestamp"`

	// InputRef references what the actor received.
	InputRef string `json:"input_ref,omitempty"`

	// OutputRef references what the actor produced.
	OutputRef string `json:"output_ref,omitempty"`
}

// Sanad is the evidentiary chain backing exactly one claim: the primary
// evidence item, corroborating items, and the ordered chain of custody.
// A sanad is immutable after creation except for defect attachment.
type Sanad struct {
	// ID is the unique identifier for this sanad.
	ID string `json:"id"`

	// ClaimID is the claim this sanad backs.
	ClaimID string `json:"claim_id"`

	// PrimaryEvidenceID is the primary evidence item.
	PrimaryEvidenceID string `json:"primary_evidence_id"`

	// CorroboratingIDs are independent corroborating evidence items.
	CorroboratingIDs []string `json:"corroborating_ids,omitempty"`

	// Chain is the ordered chain of custody, oldest hop first.
	Chain []TransmissionLink `json:"chain,omitempty"`

	// Grade is the computed letter grade for this chain.
	Grade Grade `json:"grade,omitempty"`

	// Corroboration is the computed corroboration level.
	Corroboration CorroborationLevel `json:"corroboration,omitempty"`

	// ChainCount is the number of independent chains (1 + corroborators).
	ChainCount int `json:"chain_count,omitempty"`

	// DefectIDs are defects attached to this sanad.
	DefectIDs []string `json:"defect_ids,omitempty"`
}

// Validate enforces the structural invariants of a sanad.
func (s *Sanad) Validate() error {
	if s == nil {
		return fmt.Errorf("sanad is nil")
	}
	if s.ID == "" {
		return fmt.Errorf("sanad id is required")
	}
	if s.ClaimID == "" {
		return fmt.Errorf("sanad %s: claim id is required", s.ID)
	}
	if s.PrimaryEvidenceID == "" {
		return fmt.Errorf("sanad %s: primary evidence id is required", s.ID)
	}
	seen := map[string]struct{}{s.PrimaryEvidenceID: {}}
	for _, id := range s.CorroboratingIDs {
		if id == "" {
			return fmt.Errorf("sanad %s: empty corroborating evidence id", s.ID)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("sanad %s: duplicate evidence id %s", s.ID, id)
		}
		seen[id] = struct{}{}
	}
	for i := 1; i < len(s.Chain); i++ {
		if s.Chain[i].Timestamp.Before(s.Chain[i-1].Timestamp) {
			return fmt.Errorf("sanad %s: transmission chain out of order at hop %d", s.ID, i)
		}
	}
	return nil
}

// IndependentChains returns the number of independent evidence chains.
func (s *Sanad) IndependentChains() int {
	return 1 + len(s.CorroboratingIDs)
}

// AttachDefect records a defect against the sanad. This is the only
// permitted mutation after creation.
func (s *Sanad) AttachDefect(defectID string) error {
	if defectID == "" {
		return fmt.Errorf("sanad %s: empty defect id", s.ID)
	}
	for _, id := range s.DefectIDs {
		if id == defectID {
			return nil
		}
	}
	s.DefectIDs = append(s.DefectIDs, defectID)
	return nil
}
