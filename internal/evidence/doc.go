// Package evidence defines the core records of the adjudication engine:
// claims, their evidentiary chains (sanads), agent outputs and the
// embedded self-accounting (muhasabah) record.
//
// # Overview
//
// A Claim is a single factual assertion about a deal. Every claim is
// backed by exactly one Sanad: the primary evidence item, zero or more
// corroborating items, and the ordered chain of custody through which
// the evidence passed. Claims are either PRIMARY (extracted from source
// documents) or DERIVED (produced by a computation over other claims).
//
// Agent outputs carry structured sections, risks and references into
// the claim/calc/enrichment registries. Every output embeds exactly one
// Muhasabah record accounting for what the agent relied on, what would
// falsify it, and how confident it is.
//
// This package holds types and structural invariants only. Grading,
// validation and orchestration live in their own packages.
package evidence
