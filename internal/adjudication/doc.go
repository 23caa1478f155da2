// Package adjudication orchestrates a full analysis run: it resolves
// the requested agents, runs them in deterministic (agent-type,
// agent-id) order, applies the grounding and muhasabah validators to
// every output, and assembles the final analysis bundle.
//
// The agent loop is strictly sequential; ordering is part of the
// contract. The first validator or agent failure aborts the whole run
// with an aggregated error. Audit events already emitted for completed
// agents stay emitted: the trail reflects what actually ran, not what
// the run concluded.
//
// Every ambiguous input resolves to the least-trusting outcome. An
// unknown agent id aborts before anything runs; an open FATAL defect on
// a material claim blocks the run outright; an audit sink failure
// propagates unmodified.
package adjudication
