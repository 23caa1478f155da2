package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanadworks/isnad/internal/adjudication"
	"github.com/sanadworks/isnad/internal/agents"
	"github.com/sanadworks/isnad/internal/audit"
	"github.com/sanadworks/isnad/internal/evidence"
	"github.com/sanadworks/isnad/internal/logging"
	"github.com/sanadworks/isnad/internal/validate"
)

// adjudicationFixture is the input document for offline adjudication:
// the deal's claims plus fixture-backed agents with canned outputs.
type adjudicationFixture struct {
	DealID        string           `json:"deal_id"`
	TenantID      string           `json:"tenant_id"`
	Claims        []evidence.Claim `json:"claims,omitempty"`
	CalcIDs       []string         `json:"calc_ids,omitempty"`
	EnrichmentIDs []string         `json:"enrichment_ids,omitempty"`
	Agents        []agentFixture   `json:"agents"`
}

type agentFixture struct {
	ID     string               `json:"id"`
	Type   string               `json:"type"`
	Output evidence.AgentOutput `json:"output"`
}

// adjudicateCmd runs a full offline adjudication from a fixture file.
var adjudicateCmd = &cobra.Command{
	Use:   "adjudicate [file]",
	Short: "Run an offline adjudication from a JSON fixture",
	Long: `Adjudicate reads a fixture holding the deal's claims and a set of
fixture-backed agent outputs, runs the full orchestration with the
grounding and muhasabah validators, and prints the analysis bundle.

Examples:
  # Run an adjudication fixture
  isnad adjudicate deal.json

  # Read the fixture from stdin
  cat deal.json | isnad adjudicate -`,
	Args: cobra.ExactArgs(1),
	RunE: runAdjudicate,
}

func runAdjudicate(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	var fixture adjudicationFixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return fmt.Errorf("parse adjudication fixture: %w", err)
	}
	if len(fixture.Agents) == 0 {
		return fmt.Errorf("fixture names no agents")
	}

	registry := adjudication.NewRegistry()
	agentIDs := make([]string, 0, len(fixture.Agents))
	for _, a := range fixture.Agents {
		if err := registry.Register(agents.NewStubAgent(a.ID, a.Type, a.Output)); err != nil {
			return err
		}
		agentIDs = append(agentIDs, a.ID)
	}

	claimIDs := make([]string, 0, len(fixture.Claims))
	for _, claim := range fixture.Claims {
		claimIDs = append(claimIDs, claim.ID)
	}

	sink := audit.NewMemorySink()
	orchestrator, err := adjudication.NewOrchestrator(registry, sink,
		adjudication.WithLogger(logging.Nop()),
	)
	if err != nil {
		return err
	}

	bundle, err := orchestrator.Run(cmd.Context(), adjudication.RunContext{
		DealID:     fixture.DealID,
		TenantID:   fixture.TenantID,
		AgentIDs:   agentIDs,
		Registries: validate.NewRegistries(claimIDs, fixture.CalcIDs, fixture.EnrichmentIDs),
		Claims:     fixture.Claims,
	})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(bundle)
}
