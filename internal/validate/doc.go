// Package validate implements the two fail-closed acceptance gates
// applied to every agent output before persistence.
//
// The grounding validator ("no free facts") rejects outputs that
// reference claim, calc or enrichment ids absent from the per-call
// registries. The muhasabah validator rejects outputs whose stated
// confidence lacks calibration evidence: no acknowledged uncertainties
// at high confidence, no falsifiability tests on material conclusions,
// or factual text without a single supporting reference.
//
// Both validators aggregate every violation before returning; only the
// initial nil-input shape check short-circuits. Results are values, not
// errors — escalation to a fatal run-abort happens at the orchestrator
// boundary.
package validate
