package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/sanadworks/isnad/internal/adjudication"
	"github.com/sanadworks/isnad/internal/agents"
	"github.com/sanadworks/isnad/internal/audit"
	"github.com/sanadworks/isnad/internal/config"
	"github.com/sanadworks/isnad/internal/debate"
	"github.com/sanadworks/isnad/internal/defect"
	"github.com/sanadworks/isnad/internal/http"
	"github.com/sanadworks/isnad/internal/logging"
	"github.com/sanadworks/isnad/internal/validate"
)

var (
	configPath string
	agentsPath string
	llmAgents  []string
)

// serveCmd runs the HTTP API server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the adjudication HTTP API server",
	Long: `Serve starts the HTTP API. Agents come from a fixture file of canned
outputs, from model-backed agents, or both.

Examples:
  # Fixture-backed agents only
  isnad serve --agents agents.json

  # Model-backed financial and legal agents (needs OPENAI_API_KEY)
  isnad serve --llm-agent financial --llm-agent legal

  # With a config file
  isnad serve --config config.yaml --agents agents.json`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	serveCmd.Flags().StringVar(&agentsPath, "agents", "", "path to a JSON file of fixture-backed agents")
	serveCmd.Flags().StringArrayVar(&llmAgents, "llm-agent", nil, "agent type to back with a model (repeatable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	registry, err := buildRegistry()
	if err != nil {
		return err
	}

	sink, closeSink, err := buildSink(cfg.Audit, log)
	if err != nil {
		return err
	}
	defer closeSink()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())
	promReg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	orchestrator, err := adjudication.NewOrchestrator(registry, sink,
		adjudication.WithLogger(log),
		adjudication.WithDefectTracker(defect.NewTracker()),
		adjudication.WithMetrics(adjudication.NewMetrics(promReg)),
		adjudication.WithMuhasabahValidator(validate.NewMuhasabahWithThresholds(
			cfg.Muhasabah.OverconfidenceThreshold,
			cfg.Muhasabah.FalsifiabilityThreshold,
		)),
	)
	if err != nil {
		return err
	}

	evaluator, err := debate.NewEvaluator(cfg.Debate)
	if err != nil {
		return err
	}

	server, err := http.NewServer(orchestrator, evaluator, log, cfg.Server, promReg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "http server starting", zap.String("addr", cfg.Server.Addr))
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildRegistry() (*adjudication.Registry, error) {
	registry := adjudication.NewRegistry()

	if agentsPath != "" {
		data, err := os.ReadFile(agentsPath)
		if err != nil {
			return nil, fmt.Errorf("read agents file: %w", err)
		}
		var fixtures []agentFixture
		if err := json.Unmarshal(data, &fixtures); err != nil {
			return nil, fmt.Errorf("parse agents file: %w", err)
		}
		for _, f := range fixtures {
			if err := registry.Register(agents.NewStubAgent(f.ID, f.Type, f.Output)); err != nil {
				return nil, err
			}
		}
	}

	for _, agentType := range llmAgents {
		model, err := openai.New()
		if err != nil {
			return nil, fmt.Errorf("build model for %s agent: %w", agentType, err)
		}
		agent, err := agents.NewLLMAgent("llm-"+agentType, agentType, model)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(agent); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func buildSink(cfg config.AuditConfig, log *logging.Logger) (audit.Sink, func(), error) {
	switch cfg.Sink {
	case "memory":
		return audit.NewMemorySink(), func() {}, nil
	case "log":
		return audit.NewLogSink(log), func() {}, nil
	case "nats":
		conn, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect audit broker: %w", err)
		}
		return audit.NewNATSSink(conn, cfg.SubjectPrefix), conn.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown audit sink %q", cfg.Sink)
}
