package validate

import (
	"fmt"

	"github.com/sanadworks/isnad/internal/evidence"
)

// Grounding violation codes.
const (
	CodeNilOutput            = "GROUND_NIL_OUTPUT"
	CodeUnknownClaim         = "GROUND_UNKNOWN_CLAIM"
	CodeUnknownCalc          = "GROUND_UNKNOWN_CALC"
	CodeUnknownEnrichment    = "GROUND_UNKNOWN_ENRICHMENT"
	CodeUnknownEvidenceRef   = "GROUND_UNKNOWN_EVIDENCE_REF"
	CodeRiskWithoutEvidence  = "GROUND_RISK_NO_EVIDENCE"
	CodeEnrichmentNoProvider = "GROUND_ENRICHMENT_NO_PROVIDER"
	CodeEnrichmentNoSource   = "GROUND_ENRICHMENT_NO_SOURCE"
)

// Registries are the immutable known-id sets supplied per call.
type Registries struct {
	claims      map[string]struct{}
	calcs       map[string]struct{}
	enrichments map[string]struct{}
}

// NewRegistries builds registries from id lists.
func NewRegistries(claimIDs, calcIDs, enrichmentIDs []string) Registries {
	return Registries{
		claims:      toSet(claimIDs),
		calcs:       toSet(calcIDs),
		enrichments: toSet(enrichmentIDs),
	}
}

// KnownClaim reports whether the claim id is registered.
func (r Registries) KnownClaim(id string) bool {
	_, ok := r.claims[id]
	return ok
}

// KnownCalc reports whether the calc id is registered.
func (r Registries) KnownCalc(id string) bool {
	_, ok := r.calcs[id]
	return ok
}

// KnownEnrichment reports whether the enrichment id is registered.
func (r Registries) KnownEnrichment(id string) bool {
	_, ok := r.enrichments[id]
	return ok
}

// knownAny reports whether the id exists in any registry. Risk evidence
// references may point at claims, calcs or enrichment data alike.
func (r Registries) knownAny(id string) bool {
	return r.KnownClaim(id) || r.KnownCalc(id) || r.KnownEnrichment(id)
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Grounding is the no-free-facts validator: every factual reference in
// an agent output must resolve against a registry.
type Grounding struct {
	registries Registries
}

// NewGrounding creates a grounding validator over the given registries.
func NewGrounding(registries Registries) *Grounding {
	return &Grounding{registries: registries}
}

// Validate checks every claim, calc and enrichment reference in the
// output: the top-level lists, each risk, and the embedded muhasabah
// record. All violations are collected before returning; only a nil
// output short-circuits, failing closed with a single generic error.
func (g *Grounding) Validate(out *evidence.AgentOutput) Result {
	if out == nil {
		return resultFrom([]Violation{{
			Code:    CodeNilOutput,
			Message: "agent output is missing",
		}})
	}

	var violations []Violation

	for i, id := range out.ClaimRefs {
		if !g.registries.KnownClaim(id) {
			violations = append(violations, Violation{
				Code:    CodeUnknownClaim,
				Message: fmt.Sprintf("claim %q is not in the claim registry", id),
				Path:    fmt.Sprintf("claim_refs[%d]", i),
			})
		}
	}

	for i, id := range out.CalcRefs {
		if !g.registries.KnownCalc(id) {
			violations = append(violations, Violation{
				Code:    CodeUnknownCalc,
				Message: fmt.Sprintf("calc %q is not in the calc registry", id),
				Path:    fmt.Sprintf("calc_refs[%d]", i),
			})
		}
	}

	for i, ref := range out.EnrichmentRefs {
		if !g.registries.KnownEnrichment(ref.ID) {
			violations = append(violations, Violation{
				Code:    CodeUnknownEnrichment,
				Message: fmt.Sprintf("enrichment %q is not in the enrichment registry", ref.ID),
				Path:    fmt.Sprintf("enrichment_refs[%d]", i),
			})
		}
		if ref.Provider == "" {
			violations = append(violations, Violation{
				Code:    CodeEnrichmentNoProvider,
				Message: fmt.Sprintf("enrichment %q has no provider identifier", ref.ID),
				Path:    fmt.Sprintf("enrichment_refs[%d].provider", i),
			})
		}
		if ref.Source == "" {
			violations = append(violations, Violation{
				Code:    CodeEnrichmentNoSource,
				Message: fmt.Sprintf("enrichment %q has no source identifier", ref.ID),
				Path:    fmt.Sprintf("enrichment_refs[%d].source", i),
			})
		}
	}

	for i, risk := range out.Risks {
		if len(risk.EvidenceRefs) == 0 {
			violations = append(violations, Violation{
				Code:    CodeRiskWithoutEvidence,
				Message: fmt.Sprintf("risk %q carries no evidence reference", risk.Title),
				Path:    fmt.Sprintf("risks[%d].evidence_refs", i),
			})
			continue
		}
		for j, id := range risk.EvidenceRefs {
			if !g.registries.knownAny(id) {
				violations = append(violations, Violation{
					Code:    CodeUnknownEvidenceRef,
					Message: fmt.Sprintf("risk evidence %q is not in any registry", id),
					Path:    fmt.Sprintf("risks[%d].evidence_refs[%d]", i, j),
				})
			}
		}
	}

	for i, id := range out.Muhasabah.SupportedClaimIDs {
		if !g.registries.KnownClaim(id) {
			violations = append(violations, Violation{
				Code:    CodeUnknownClaim,
				Message: fmt.Sprintf("claim %q is not in the claim registry", id),
				Path:    fmt.Sprintf("muhasabah.supported_claim_ids[%d]", i),
			})
		}
	}
	for i, id := range out.Muhasabah.SupportedCalcIDs {
		if !g.registries.KnownCalc(id) {
			violations = append(violations, Violation{
				Code:    CodeUnknownCalc,
				Message: fmt.Sprintf("calc %q is not in the calc registry", id),
				Path:    fmt.Sprintf("muhasabah.supported_calc_ids[%d]", i),
			})
		}
	}

	return resultFrom(violations)
}
