// Package debate models the multi-round debate among analysis agents
// and decides, deterministically, when it terminates. The evaluator is
// a strict priority function over the debate state: the first matching
// stop condition wins, and no match means the debate continues.
package debate

import (
	"time"

	"github.com/sanadworks/isnad/internal/evidence"
)

// StopReason is a terminal debate outcome.
type StopReason string

const (
	// StopCriticalDefect fires when the current round flags a Grade-D
	// claim in a material position.
	StopCriticalDefect StopReason = "CRITICAL_DEFECT"
	// StopMaxRounds fires when the configured round budget is reached.
	StopMaxRounds StopReason = "MAX_ROUNDS"
	// StopConsensus fires when current-round confidences converge.
	StopConsensus StopReason = "CONSENSUS"
	// StopStableDissent fires when positions have stopped moving.
	StopStableDissent StopReason = "STABLE_DISSENT"
	// StopEvidenceExhausted fires when retrieval completed, produced
	// nothing new, and open questions remain.
	StopEvidenceExhausted StopReason = "EVIDENCE_EXHAUSTED"
)

// Message is one utterance in a debate round.
type Message struct {
	AgentID   string    `json:"agent_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// DefectFlag marks a graded claim raised during a round.
type DefectFlag struct {
	ClaimID     string               `json:"claim_id"`
	Grade       evidence.Grade       `json:"grade"`
	Materiality evidence.Materiality `json:"materiality"`
}

// Critical reports whether the flag is a Grade-D claim in a material
// position.
func (f DefectFlag) Critical() bool {
	return f.Grade == evidence.GradeD && f.Materiality.Material()
}

// Round is the record of one debate round.
type Round struct {
	// Number is the 1-based round number.
	Number int `json:"number"`

	// Messages are the utterances of the round, in order.
	Messages []Message `json:"messages,omitempty"`

	// Positions snapshots each agent's position digest at round end.
	Positions map[string]string `json:"positions,omitempty"`

	// Confidences snapshots each agent's confidence at round end.
	Confidences map[string]float64 `json:"confidences,omitempty"`

	// DefectFlags are graded claims raised during the round.
	DefectFlags []DefectFlag `json:"defect_flags,omitempty"`

	// NewEvidenceIDs are evidence items first surfaced this round.
	NewEvidenceIDs []string `json:"new_evidence_ids,omitempty"`
}

// State is the full debate state handed to the evaluator.
type State struct {
	// Round is the current 1-based round number.
	Round int `json:"round"`

	// History holds one record per completed-or-current round.
	History []Round `json:"history,omitempty"`

	// EvidenceRequested marks that additional retrieval was requested.
	EvidenceRequested bool `json:"evidence_requested"`

	// EvidenceCompleted marks that the requested retrieval finished.
	EvidenceCompleted bool `json:"evidence_completed"`

	// OpenQuestions are unresolved questions raised in the debate.
	OpenQuestions []string `json:"open_questions,omitempty"`

	// StopReason is the terminal outcome, unset while the debate runs.
	StopReason StopReason `json:"stop_reason,omitempty"`
}

// Current returns the record for the current round, if present.
func (s *State) Current() (Round, bool) {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Number == s.Round {
			return s.History[i], true
		}
	}
	return Round{}, false
}
