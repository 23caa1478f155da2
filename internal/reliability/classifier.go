package reliability

import (
	"fmt"
	"strings"

	"github.com/sanadworks/isnad/internal/evidence"
)

// sourceTiers maps known source-type tags to tiers. Tags are matched
// case-insensitively after trimming.
var sourceTiers = map[string]Tier{
	// AUDITED: independently verified records.
	"audited_financials": TierAudited,
	"audit_report":       TierAudited,
	"bank_record":        TierAudited,
	"court_filing":       TierAudited,
	"registry_extract":   TierAudited,
	"tax_filing":         TierAudited,

	// ATTESTED: signed or sworn by a counterparty.
	"signed_contract":     TierAttested,
	"attested_statement":  TierAttested,
	"board_minutes":       TierAttested,
	"kyc_document":        TierAttested,
	"insurance_policy":    TierAttested,
	"cap_table_certified": TierAttested,

	// VERSIONED_INTERNAL: internal data with version history.
	"internal_ledger":  TierVersionedInternal,
	"crm_export":       TierVersionedInternal,
	"versioned_model":  TierVersionedInternal,
	"billing_system":   TierVersionedInternal,
	"product_metrics":  TierVersionedInternal,
	"hr_system_export": TierVersionedInternal,

	// FOUNDER_STATEMENT: unattested management assertions.
	"founder_interview":       TierFounderStatement,
	"management_presentation": TierFounderStatement,
	"founder_email":           TierFounderStatement,
	"pitch_deck":              TierFounderStatement,

	// THIRD_PARTY_ESTIMATE: external estimates, support-only.
	"market_report":      TierThirdPartyEstimate,
	"data_provider":      TierThirdPartyEstimate,
	"industry_benchmark": TierThirdPartyEstimate,
	"press_coverage":     TierThirdPartyEstimate,

	// ANALYST_GUESS: in-house heuristics, support-only.
	"analyst_estimate": TierAnalystGuess,
	"heuristic":        TierAnalystGuess,
	"extrapolation":    TierAnalystGuess,
}

// Classify maps a source descriptor to its reliability tier. Unknown or
// missing source types fail closed to the lowest tier.
func Classify(desc evidence.SourceDescriptor) Tier {
	tag := strings.ToLower(strings.TrimSpace(desc.SourceType))
	if tier, ok := sourceTiers[tag]; ok {
		return tier
	}
	return TierAnalystGuess
}

// Admissible reports whether the tier may serve as the primary evidence
// for a claim of the given materiality, with a human-readable reason on
// rejection.
func Admissible(t Tier, m evidence.Materiality) (bool, string) {
	if !t.Valid() {
		return false, fmt.Sprintf("unknown tier %q is never admissible as primary evidence", t)
	}
	if t.SupportOnly() && m.Material() {
		return false, fmt.Sprintf("tier %s is support-only and cannot be primary evidence for %s materiality", t, m)
	}
	return true, ""
}
