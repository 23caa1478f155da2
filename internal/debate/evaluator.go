package debate

import "fmt"

// Default evaluator settings.
const (
	DefaultMaxRounds       = 5
	DefaultConsensusSpread = 0.10
	DefaultDissentWindow   = 2
)

// Config tunes the stop-condition evaluator.
type Config struct {
	// MaxRounds is the round budget.
	MaxRounds int `koanf:"max_rounds"`

	// ConsensusSpread is the maximum confidence spread that still
	// counts as consensus.
	ConsensusSpread float64 `koanf:"consensus_spread"`

	// DissentWindow is how many trailing rounds of identical positions
	// count as stable dissent.
	DissentWindow int `koanf:"dissent_window"`
}

// DefaultConfig returns the standard evaluator settings.
func DefaultConfig() Config {
	return Config{
		MaxRounds:       DefaultMaxRounds,
		ConsensusSpread: DefaultConsensusSpread,
		DissentWindow:   DefaultDissentWindow,
	}
}

// Validate rejects unusable settings.
func (c Config) Validate() error {
	if c.MaxRounds < 1 {
		return fmt.Errorf("max rounds must be at least 1, got %d", c.MaxRounds)
	}
	if c.ConsensusSpread < 0 {
		return fmt.Errorf("consensus spread cannot be negative, got %f", c.ConsensusSpread)
	}
	if c.DissentWindow < 2 {
		return fmt.Errorf("dissent window must be at least 2, got %d", c.DissentWindow)
	}
	return nil
}

// Decision is the evaluator's verdict on one debate state.
type Decision struct {
	Stop   bool       `json:"stop"`
	Reason StopReason `json:"reason,omitempty"`
}

// Evaluator decides whether a debate terminates and why.
type Evaluator struct {
	cfg Config
}

// NewEvaluator creates an evaluator with the given config.
func NewEvaluator(cfg Config) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid debate config: %w", err)
	}
	return &Evaluator{cfg: cfg}, nil
}

// Evaluate applies the stop conditions in strict precedence and returns
// the first match, or a continue decision when none fire. A malformed
// state (nil, or round outside [1, max]) is a programmer error and is
// rejected before any rule is considered.
func (e *Evaluator) Evaluate(s *State) (Decision, error) {
	if s == nil {
		return Decision{}, fmt.Errorf("debate state is nil")
	}
	if s.Round < 1 || s.Round > e.cfg.MaxRounds {
		return Decision{}, fmt.Errorf("round %d outside [1, %d]", s.Round, e.cfg.MaxRounds)
	}

	current, hasCurrent := s.Current()

	// 1. CRITICAL_DEFECT
	if hasCurrent {
		for _, flag := range current.DefectFlags {
			if flag.Critical() {
				return Decision{Stop: true, Reason: StopCriticalDefect}, nil
			}
		}
	}

	// 2. MAX_ROUNDS
	if s.Round >= e.cfg.MaxRounds {
		return Decision{Stop: true, Reason: StopMaxRounds}, nil
	}

	// 3. CONSENSUS — vacuously false with no confidences.
	if hasCurrent && len(current.Confidences) > 0 {
		if spread(current.Confidences) <= e.cfg.ConsensusSpread {
			return Decision{Stop: true, Reason: StopConsensus}, nil
		}
	}

	// 4. STABLE_DISSENT
	if e.stableDissent(s) {
		return Decision{Stop: true, Reason: StopStableDissent}, nil
	}

	// 5. EVIDENCE_EXHAUSTED — a round with no record counts as a round
	// that surfaced no new evidence.
	if s.EvidenceRequested && s.EvidenceCompleted &&
		(!hasCurrent || len(current.NewEvidenceIDs) == 0) &&
		len(s.OpenQuestions) > 0 {
		return Decision{Stop: true, Reason: StopEvidenceExhausted}, nil
	}

	return Decision{Stop: false}, nil
}

// spread returns max minus min of the confidence snapshot.
func spread(confidences map[string]float64) float64 {
	first := true
	var lo, hi float64
	for _, c := range confidences {
		if first {
			lo, hi = c, c
			first = false
			continue
		}
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	return hi - lo
}

// stableDissent reports whether the trailing DissentWindow rounds carry
// identical non-empty position snapshots.
func (e *Evaluator) stableDissent(s *State) bool {
	window := e.cfg.DissentWindow
	if len(s.History) < window {
		return false
	}
	tail := s.History[len(s.History)-window:]
	reference := tail[0].Positions
	if len(reference) == 0 {
		return false
	}
	for _, round := range tail[1:] {
		if !samePositions(reference, round.Positions) {
			return false
		}
	}
	return true
}

func samePositions(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for agent, position := range a {
		if b[agent] != position {
			return false
		}
	}
	return true
}
