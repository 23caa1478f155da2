// Package guardrail stops a computation-derived claim from re-entering
// the computation pipeline. A computation reading a claim it directly
// or transitively produced can loop forever; the cut point is the
// claim's kind at computation-trigger time.
package guardrail

import (
	"fmt"
	"strings"

	"github.com/sanadworks/isnad/internal/evidence"
)

// ViolationError names every DERIVED claim that attempted to trigger a
// computation.
type ViolationError struct {
	DerivedIDs []string
}

// Error implements the error interface.
func (e *ViolationError) Error() string {
	return fmt.Sprintf("derived claims cannot trigger computations: %s",
		strings.Join(e.DerivedIDs, ", "))
}

// ValidateCanTrigger returns the claims unchanged if every claim is
// PRIMARY, or a *ViolationError naming each DERIVED claim. The
// allowOverride escape hatch is reserved for explicit, audited
// human-requested recomputation.
func ValidateCanTrigger(claims []evidence.Claim, allowOverride bool) ([]evidence.Claim, error) {
	if allowOverride {
		return claims, nil
	}

	var derived []string
	for _, c := range claims {
		if c.Kind == evidence.KindDerived {
			derived = append(derived, c.ID)
		}
	}
	if len(derived) > 0 {
		return nil, &ViolationError{DerivedIDs: derived}
	}
	return claims, nil
}

// FilterTriggerable returns only the PRIMARY claims, dropping anything
// that is not explicitly PRIMARY. An unknown kind is excluded rather
// than passed through.
func FilterTriggerable(claims []evidence.Claim) []evidence.Claim {
	var out []evidence.Claim
	for _, c := range claims {
		if c.Kind == evidence.KindPrimary {
			out = append(out, c)
		}
	}
	return out
}
