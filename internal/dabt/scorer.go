// Package dabt scores the precision of an evidence chain across up to
// four quality dimensions and maps the score to a band.
//
// The documentation, transmission and temporal dimensions are
// required-weighted: their combined weight stays in the denominator
// even when a dimension is absent, so missing data always lowers the
// score. The cognitive dimension is optional on both sides of the
// ratio; its absence is neutral.
package dabt

import "fmt"

// Dimension weights. The three required dimensions sum to 0.85.
const (
	WeightDocumentation = 0.35
	WeightTransmission  = 0.30
	WeightTemporal      = 0.20
	WeightCognitive     = 0.15
)

// Band thresholds.
const (
	excellentFloor = 0.90
	goodFloor      = 0.75
	fairFloor      = 0.50
)

// gradeCapThreshold is the score below which the letter grade is capped
// at B by the grading engine.
const gradeCapThreshold = 0.50

// Band buckets a precision score.
type Band string

const (
	BandExcellent Band = "EXCELLENT"
	BandGood      Band = "GOOD"
	BandFair      Band = "FAIR"
	BandPoor      Band = "POOR"
)

// Dimensions holds the raw dimension values. Nil means the dimension
// was not assessed.
type Dimensions struct {
	// Documentation rates how completely the evidence is documented.
	Documentation *float64 `json:"documentation,omitempty"`

	// Transmission rates the integrity of the chain of custody.
	Transmission *float64 `json:"transmission,omitempty"`

	// Temporal rates how current the evidence is.
	Temporal *float64 `json:"temporal,omitempty"`

	// Cognitive rates the competence of the actors in the chain.
	// Optional: absence does not lower the score.
	Cognitive *float64 `json:"cognitive,omitempty"`
}

// Diagnostic is a structured note produced while scoring.
type Diagnostic struct {
	Code      string `json:"code"`
	Dimension string `json:"dimension,omitempty"`
	Message   string `json:"message"`
}

// Diagnostic codes.
const (
	DiagMissingDimension = "MISSING_DIMENSION"
	DiagOutOfRange       = "VALUE_OUT_OF_RANGE"
	DiagLowPrecision     = "LOW_PRECISION"
)

// Result is the outcome of scoring.
type Result struct {
	Score       float64      `json:"score"`
	Band        Band         `json:"band"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// CapsGradeAtB reports whether the score is low enough to cap the
// letter grade at B.
func (r Result) CapsGradeAtB() bool {
	return r.Score < gradeCapThreshold
}

// Score combines the dimensions into a normalized score in [0, 1],
// a band, and diagnostics for anything missing or out of range.
func Score(dims Dimensions) Result {
	var diags []Diagnostic

	numerator := 0.0
	denominator := WeightDocumentation + WeightTransmission + WeightTemporal

	required := []struct {
		name   string
		value  *float64
		weight float64
	}{
		{"documentation", dims.Documentation, WeightDocumentation},
		{"transmission", dims.Transmission, WeightTransmission},
		{"temporal", dims.Temporal, WeightTemporal},
	}
	for _, dim := range required {
		if dim.value == nil {
			diags = append(diags, Diagnostic{
				Code:      DiagMissingDimension,
				Dimension: dim.name,
				Message:   fmt.Sprintf("required dimension %s not assessed; treated as zero", dim.name),
			})
			continue
		}
		v, clampDiag := clamp(dim.name, *dim.value)
		if clampDiag != nil {
			diags = append(diags, *clampDiag)
		}
		numerator += dim.weight * v
	}

	if dims.Cognitive != nil {
		v, clampDiag := clamp("cognitive", *dims.Cognitive)
		if clampDiag != nil {
			diags = append(diags, *clampDiag)
		}
		numerator += WeightCognitive * v
		denominator += WeightCognitive
	}

	score := numerator / denominator

	if score < goodFloor {
		diags = append(diags, Diagnostic{
			Code:    DiagLowPrecision,
			Message: fmt.Sprintf("precision %.2f is below the %.2f review threshold", score, goodFloor),
		})
	}

	return Result{
		Score:       score,
		Band:        bandFor(score),
		Diagnostics: diags,
	}
}

func bandFor(score float64) Band {
	switch {
	case score >= excellentFloor:
		return BandExcellent
	case score >= goodFloor:
		return BandGood
	case score >= fairFloor:
		return BandFair
	default:
		return BandPoor
	}
}

func clamp(dimension string, v float64) (float64, *Diagnostic) {
	if v >= 0 && v <= 1 {
		return v, nil
	}
	clamped := v
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 1 {
		clamped = 1
	}
	return clamped, &Diagnostic{
		Code:      DiagOutOfRange,
		Dimension: dimension,
		Message:   fmt.Sprintf("%s value %.2f outside [0,1]; clamped to %.2f", dimension, v, clamped),
	}
}
