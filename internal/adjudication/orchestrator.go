package adjudication

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sanadworks/isnad/internal/audit"
	"github.com/sanadworks/isnad/internal/defect"
	"github.com/sanadworks/isnad/internal/evidence"
	"github.com/sanadworks/isnad/internal/logging"
	"github.com/sanadworks/isnad/internal/validate"
)

const tracerName = "github.com/sanadworks/isnad/internal/adjudication"

// Orchestrator runs the requested agents sequentially and validates
// every output before it enters the bundle.
type Orchestrator struct {
	registry  *Registry
	sink      audit.Sink
	defects   *defect.Tracker
	muhasabah *validate.Muhasabah
	log       *logging.Logger
	metrics   *Metrics
	tracer    trace.Tracer
}

// Option customizes orchestrator construction.
type Option func(*Orchestrator)

// WithDefectTracker enables the deliverable-blocking defect check.
func WithDefectTracker(tracker *defect.Tracker) Option {
	return func(o *Orchestrator) { o.defects = tracker }
}

// WithMuhasabahValidator replaces the default muhasabah validator.
func WithMuhasabahValidator(m *validate.Muhasabah) Option {
	return func(o *Orchestrator) { o.muhasabah = m }
}

// WithLogger sets the orchestrator logger.
func WithLogger(log *logging.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithMetrics sets the Prometheus instruments.
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// NewOrchestrator creates an orchestrator over the given agent registry
// and audit sink.
func NewOrchestrator(registry *Registry, sink audit.Sink, opts ...Option) (*Orchestrator, error) {
	if registry == nil {
		return nil, fmt.Errorf("agent registry is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("audit sink is required")
	}

	o := &Orchestrator{
		registry:  registry,
		sink:      sink,
		muhasabah: validate.NewMuhasabah(),
		log:       logging.Nop(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.metrics == nil {
		o.metrics = NewMetrics(prometheus.NewRegistry())
	}
	return o, nil
}

// Run executes one adjudication run. Agents execute one at a time in
// (agent-type, agent-id) order regardless of how AgentIDs was ordered.
// The returned bundle is nil whenever the error is non-nil.
func (o *Orchestrator) Run(ctx context.Context, rc RunContext) (*AnalysisBundle, error) {
	if err := rc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run context: %w", err)
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	ctx = logging.WithDealID(ctx, rc.DealID)
	ctx = logging.WithTenantID(ctx, rc.TenantID)

	ctx, span := o.tracer.Start(ctx, "adjudication.run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("deal.id", rc.DealID),
		attribute.Int("agent.count", len(rc.AgentIDs)),
	))
	defer span.End()

	start := time.Now()
	o.log.Info(ctx, "adjudication run started", zap.Strings("agent_ids", rc.AgentIDs))

	if err := o.emit(ctx, audit.EventRunStarted, runID, rc, "", ""); err != nil {
		return nil, err
	}

	bundle, err := o.run(ctx, runID, rc)
	o.metrics.RunDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.metrics.RunsTotal.WithLabelValues("failed").Inc()
		o.log.Error(ctx, "adjudication run failed", zap.Error(err))
		return nil, err
	}

	o.metrics.RunsTotal.WithLabelValues("completed").Inc()
	o.log.Info(ctx, "adjudication run completed", zap.Int("reports", len(bundle.Reports)))
	return bundle, nil
}

func (o *Orchestrator) run(ctx context.Context, runID string, rc RunContext) (*AnalysisBundle, error) {
	// Resolution comes before everything else: a run naming an unknown
	// agent must abort before any agent executes.
	agents := make([]Agent, 0, len(rc.AgentIDs))
	for _, id := range rc.AgentIDs {
		agent, ok := o.registry.Resolve(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAgent, id)
		}
		agents = append(agents, agent)
	}

	sort.Slice(agents, func(i, j int) bool {
		if agents[i].Type() != agents[j].Type() {
			return agents[i].Type() < agents[j].Type()
		}
		return agents[i].ID() < agents[j].ID()
	})

	if o.defects != nil {
		if blockers := o.defects.Blockers(rc.Claims); len(blockers) > 0 {
			err := fmt.Errorf("%w: %d open", ErrDeliverableBlocked, len(blockers))
			if emitErr := o.emit(ctx, audit.EventRunFailed, runID, rc, "", err.Error()); emitErr != nil {
				return nil, emitErr
			}
			return nil, err
		}
	}

	grounding := validate.NewGrounding(rc.Registries)
	reports := make([]AgentReport, 0, len(agents))

	for _, agent := range agents {
		report, err := o.runAgent(ctx, runID, rc, agent, grounding)
		if err != nil {
			if emitErr := o.emit(ctx, audit.EventRunFailed, runID, rc, agent.ID(), err.Error()); emitErr != nil {
				return nil, emitErr
			}
			return nil, err
		}
		reports = append(reports, report)
	}

	bundle := &AnalysisBundle{
		DealID:    rc.DealID,
		TenantID:  rc.TenantID,
		RunID:     runID,
		Reports:   reports,
		Timestamp: time.Now().UTC(),
	}

	if err := o.emit(ctx, audit.EventRunCompleted, runID, rc, "", ""); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (o *Orchestrator) runAgent(ctx context.Context, runID string, rc RunContext, agent Agent, grounding *validate.Grounding) (AgentReport, error) {
	ctx = logging.WithAgentID(ctx, agent.ID())
	ctx, span := o.tracer.Start(ctx, "adjudication.agent", trace.WithAttributes(
		attribute.String("agent.id", agent.ID()),
		attribute.String("agent.type", agent.Type()),
	))
	defer span.End()

	o.log.Info(ctx, "agent started")

	out, err := agent.Run(ctx, rc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.metrics.AgentRunsTotal.WithLabelValues(agent.Type(), "error").Inc()
		failure := fmt.Errorf("agent %s: %w", agent.ID(), err)
		if emitErr := o.emit(ctx, audit.EventAgentFailed, runID, rc, agent.ID(), failure.Error()); emitErr != nil {
			return AgentReport{}, emitErr
		}
		return AgentReport{}, failure
	}

	groundingResult := grounding.Validate(out)
	muhasabahResult := o.muhasabah.Validate(muhasabahRecord(out), out.Text())

	if !groundingResult.Passed || !muhasabahResult.Passed {
		if !groundingResult.Passed {
			o.metrics.ValidationFailuresTotal.WithLabelValues("grounding").Inc()
		}
		if !muhasabahResult.Passed {
			o.metrics.ValidationFailuresTotal.WithLabelValues("muhasabah").Inc()
		}
		o.metrics.AgentRunsTotal.WithLabelValues(agent.Type(), "rejected").Inc()

		failure := validationError(agent.ID(), groundingResult, muhasabahResult)
		span.RecordError(failure)
		span.SetStatus(codes.Error, failure.Error())
		if emitErr := o.emit(ctx, audit.EventAgentFailed, runID, rc, agent.ID(), failure.Error()); emitErr != nil {
			return AgentReport{}, emitErr
		}
		return AgentReport{}, failure
	}

	if err := o.emit(ctx, audit.EventAgentCompleted, runID, rc, agent.ID(), ""); err != nil {
		return AgentReport{}, err
	}

	o.metrics.AgentRunsTotal.WithLabelValues(agent.Type(), "ok").Inc()
	o.log.Info(ctx, "agent completed")

	return AgentReport{
		AgentID:     agent.ID(),
		AgentType:   agent.Type(),
		Output:      out,
		Grounding:   groundingResult,
		Muhasabah:   muhasabahResult,
		CompletedAt: time.Now().UTC(),
	}, nil
}

func (o *Orchestrator) emit(ctx context.Context, eventType audit.EventType, runID string, rc RunContext, agentID, detail string) error {
	event := audit.NewEvent(eventType, runID, rc.TenantID, rc.DealID)
	event.AgentID = agentID
	event.Detail = detail
	if err := o.sink.Emit(ctx, event); err != nil {
		// Propagated unmodified: an unauditable run must not look
		// successful, and callers match on audit.ErrSinkFailure.
		return err
	}
	return nil
}

// muhasabahRecord extracts the self-accounting record, or nil when the
// output never filled one in. A record with a zero timestamp was never
// produced and must fail closed, not slide through as low confidence.
func muhasabahRecord(out *evidence.AgentOutput) *evidence.Muhasabah {
	if out == nil || out.Muhasabah.Timestamp.IsZero() {
		return nil
	}
	return &out.Muhasabah
}

// validationError folds every violation from both validators into one
// aggregated error.
func validationError(agentID string, grounding, muhasabah validate.Result) error {
	var err error
	for _, v := range grounding.Errors {
		err = multierr.Append(err, fmt.Errorf("grounding %s at %s: %s", v.Code, v.Path, v.Message))
	}
	for _, v := range muhasabah.Errors {
		err = multierr.Append(err, fmt.Errorf("muhasabah %s at %s: %s", v.Code, v.Path, v.Message))
	}
	return fmt.Errorf("agent %s output rejected: %w", agentID, err)
}
