// Package logging provides structured logging for the adjudication
// engine.
//
// It wraps Zap with automatic context field injection so that every
// line carries the run, deal, tenant and agent identifiers of the
// adjudication it belongs to:
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.Info(ctx, "agent completed", zap.String("agent_id", id))
//
// Create a logger from config:
//
//	logger, err := logging.New(logging.DefaultConfig())
//
// Use logging.Nop() in tests that do not assert on log output.
package logging
