package reliability

// Tier is a source reliability tier, ordered from most to least
// trustworthy.
type Tier string

const (
	// TierAudited is evidence verified by an independent third party
	// (audited financials, bank records, court filings).
	TierAudited Tier = "AUDITED"

	// TierAttested is evidence formally signed or sworn by a
	// counterparty (signed contracts, attested statements).
	TierAttested Tier = "ATTESTED"

	// TierVersionedInternal is company-internal data with version
	// history (ledgers, CRM exports, versioned models).
	TierVersionedInternal Tier = "VERSIONED_INTERNAL"

	// TierFounderStatement is an unattested statement by the founders
	// or management.
	TierFounderStatement Tier = "FOUNDER_STATEMENT"

	// TierThirdPartyEstimate is an external estimate (market reports,
	// data providers). Support-only.
	TierThirdPartyEstimate Tier = "THIRD_PARTY_ESTIMATE"

	// TierAnalystGuess is an analyst's own heuristic or guess.
	// Support-only and the fail-closed default for unknown sources.
	TierAnalystGuess Tier = "ANALYST_GUESS"
)

// AllTiers returns the tiers in descending trust order.
func AllTiers() []Tier {
	return []Tier{
		TierAudited,
		TierAttested,
		TierVersionedInternal,
		TierFounderStatement,
		TierThirdPartyEstimate,
		TierAnalystGuess,
	}
}

// Weight returns the numeric trust weight of the tier. Unknown tiers
// weigh the same as the lowest tier.
func (t Tier) Weight() float64 {
	switch t {
	case TierAudited:
		return 1.00
	case TierAttested:
		return 0.90
	case TierVersionedInternal:
		return 0.80
	case TierFounderStatement:
		return 0.65
	case TierThirdPartyEstimate:
		return 0.50
	case TierAnalystGuess:
		return 0.40
	}
	return TierAnalystGuess.Weight()
}

// SupportOnly reports whether the tier may only corroborate, never
// serve as sole primary evidence for material claims.
func (t Tier) SupportOnly() bool {
	return t == TierThirdPartyEstimate || t == TierAnalystGuess
}

// Valid reports whether the tier is one of the six known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierAudited, TierAttested, TierVersionedInternal,
		TierFounderStatement, TierThirdPartyEstimate, TierAnalystGuess:
		return true
	}
	return false
}
