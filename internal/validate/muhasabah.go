package validate

import (
	"fmt"
	"regexp"

	"github.com/sanadworks/isnad/internal/evidence"
)

// Muhasabah violation codes.
const (
	CodeNilRecord                     = "MUHASABAH_MISSING"
	CodeHighConfidenceNoUncertainties = "HIGH_CONFIDENCE_NO_UNCERTAINTIES"
	CodeMaterialClaimNotFalsifiable   = "MATERIAL_CLAIM_NOT_FALSIFIABLE"
	CodeFactualTextWithoutSupport     = "FACTUAL_TEXT_WITHOUT_SUPPORT"
	CodeConfidenceOutOfRange          = "CONFIDENCE_OUT_OF_RANGE"
	CodeInvalidUncertaintyImpact      = "INVALID_UNCERTAINTY_IMPACT"
)

// Default thresholds for the muhasabah rules.
const (
	DefaultOverconfidenceThreshold = 0.80
	DefaultFalsifiabilityThreshold = 0.50
)

// factualPatterns detect factual assertions in output text: currency
// figures, percentages, year tokens and known metric tokens.
var factualPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[$€£]\s?\d`),
	regexp.MustCompile(`\b\d+(?:\.\d+)?\s?%`),
	regexp.MustCompile(`\b(?:19|20)\d{2}\b`),
	regexp.MustCompile(`(?i)\b(?:arr|mrr|ebitda|cac|ltv|nrr|churn|revenue|margin|runway|burn)\b`),
}

// Muhasabah validates the self-accounting record embedded in an agent
// output. Every rule is checked independently; violations accumulate.
type Muhasabah struct {
	overconfidenceThreshold float64
	falsifiabilityThreshold float64
}

// NewMuhasabah creates a validator with the default thresholds.
func NewMuhasabah() *Muhasabah {
	return &Muhasabah{
		overconfidenceThreshold: DefaultOverconfidenceThreshold,
		falsifiabilityThreshold: DefaultFalsifiabilityThreshold,
	}
}

// NewMuhasabahWithThresholds creates a validator with explicit
// overconfidence and falsifiability confidence thresholds.
func NewMuhasabahWithThresholds(overconfidence, falsifiability float64) *Muhasabah {
	return &Muhasabah{
		overconfidenceThreshold: overconfidence,
		falsifiabilityThreshold: falsifiability,
	}
}

// Validate checks the record against every rule. The outputText is the
// narrative text of the surrounding agent output, used for the
// factual-pattern rule. A nil record fails closed immediately with one
// generic error.
func (m *Muhasabah) Validate(rec *evidence.Muhasabah, outputText string) Result {
	if rec == nil {
		return resultFrom([]Violation{{
			Code:    CodeNilRecord,
			Message: "self-accounting record is missing",
		}})
	}

	var violations []Violation

	if rec.Confidence > m.overconfidenceThreshold && len(rec.Uncertainties) == 0 {
		violations = append(violations, Violation{
			Code: CodeHighConfidenceNoUncertainties,
			Message: fmt.Sprintf("confidence %.2f exceeds %.2f with no acknowledged uncertainties",
				rec.Confidence, m.overconfidenceThreshold),
			Path: "uncertainties",
		})
	}

	if rec.Confidence > m.falsifiabilityThreshold && len(rec.FalsifiabilityTests) == 0 {
		violations = append(violations, Violation{
			Code: CodeMaterialClaimNotFalsifiable,
			Message: fmt.Sprintf("confidence %.2f exceeds %.2f with no falsifiability tests",
				rec.Confidence, m.falsifiabilityThreshold),
			Path: "falsifiability_tests",
		})
	}

	if !rec.Subjective &&
		len(rec.SupportedClaimIDs) == 0 &&
		matchesFactualPattern(outputText) {
		violations = append(violations, Violation{
			Code:    CodeFactualTextWithoutSupport,
			Message: "output contains factual figures but cites no supporting claims",
			Path:    "supported_claim_ids",
		})
	}

	if rec.Confidence < 0 || rec.Confidence > 1 {
		violations = append(violations, Violation{
			Code:    CodeConfidenceOutOfRange,
			Message: fmt.Sprintf("confidence %.2f is outside [0, 1]", rec.Confidence),
			Path:    "confidence",
		})
	}

	for i, u := range rec.Uncertainties {
		if !u.Impact.Valid() {
			violations = append(violations, Violation{
				Code:    CodeInvalidUncertaintyImpact,
				Message: fmt.Sprintf("uncertainty impact %q is not HIGH, MEDIUM or LOW", u.Impact),
				Path:    fmt.Sprintf("uncertainties[%d].impact", i),
			})
		}
	}

	return resultFrom(violations)
}

func matchesFactualPattern(text string) bool {
	if text == "" {
		return false
	}
	for _, p := range factualPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
