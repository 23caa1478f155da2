package logging

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	dealIDKey   contextKey = "deal_id"
	tenantIDKey contextKey = "tenant_id"
	agentIDKey  contextKey = "agent_id"
)

// WithRunID attaches the adjudication run id to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithDealID attaches the deal id to the context.
func WithDealID(ctx context.Context, dealID string) context.Context {
	return context.WithValue(ctx, dealIDKey, dealID)
}

// WithTenantID attaches the tenant id to the context.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// WithAgentID attaches the currently running agent id to the context.
func WithAgentID(ctx context.Context, agentID string) context.Context {
	return context.WithValue(ctx, agentIDKey, agentID)
}

// ContextFields extracts the correlation fields present on the context.
func ContextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	var fields []zap.Field
	for _, key := range []contextKey{runIDKey, dealIDKey, tenantIDKey, agentIDKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			fields = append(fields, zap.String(string(key), v))
		}
	}
	return fields
}
