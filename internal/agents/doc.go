// Package agents provides the built-in analysis agents: a fixture-backed
// stub for tests and offline runs, and a model-backed agent that asks an
// LLM for a structured output over the deal's claims.
//
// Agents never validate their own outputs. The orchestrator applies the
// grounding and muhasabah validators to everything an agent returns; an
// agent that hallucinates a claim id is caught there, not here.
package agents
