// Package defect records structured faults against claims and drives
// their mandatory remediation protocol. Defects move OPEN to CURED on
// remediation evidence, or OPEN to WAIVED with a reason and approver;
// they are never deleted.
package defect

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sanadworks/isnad/internal/evidence"
)

// Tracker holds every recorded defect for a run.
type Tracker struct {
	mu      sync.RWMutex
	defects map[string]*Defect
	order   []string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{defects: make(map[string]*Defect)}
}

// RecordRequest carries the fields needed to record a defect.
type RecordRequest struct {
	Type             Type
	Severity         Severity
	CureProtocol     CureProtocol
	AffectedClaimIDs []string
	EvidenceRefs     []string
	DetectedBy       string
}

// Record registers a new OPEN defect. Unknown type, severity or cure
// protocol is rejected; a defect must taint at least one claim.
func (t *Tracker) Record(req RecordRequest) (*Defect, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("unknown defect type %q", req.Type)
	}
	if !req.Severity.Valid() {
		return nil, fmt.Errorf("unknown severity %q", req.Severity)
	}
	if !req.CureProtocol.Valid() {
		return nil, fmt.Errorf("unknown cure protocol %q", req.CureProtocol)
	}
	if len(req.AffectedClaimIDs) == 0 {
		return nil, fmt.Errorf("defect must affect at least one claim")
	}
	if req.DetectedBy == "" {
		return nil, fmt.Errorf("defect detector is required")
	}

	now := time.Now().UTC()
	d := &Defect{
		ID:               uuid.NewString(),
		Type:             req.Type,
		Severity:         req.Severity,
		CureProtocol:     req.CureProtocol,
		Status:           StatusOpen,
		AffectedClaimIDs: append([]string(nil), req.AffectedClaimIDs...),
		EvidenceRefs:     append([]string(nil), req.EvidenceRefs...),
		DetectedBy:       req.DetectedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.defects[d.ID] = d
	t.order = append(t.order, d.ID)
	return cloned(d), nil
}

// Cure transitions an OPEN defect to CURED on remediation evidence.
func (t *Tracker) Cure(id, cureEvidence string) (*Defect, error) {
	if cureEvidence == "" {
		return nil, fmt.Errorf("cure requires remediation evidence")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	d, ok := t.defects[id]
	if !ok {
		return nil, fmt.Errorf("defect %s not found", id)
	}
	if d.Status != StatusOpen {
		return nil, fmt.Errorf("defect %s is %s, only OPEN defects can be cured", id, d.Status)
	}

	d.Status = StatusCured
	d.CureEvidence = cureEvidence
	d.UpdatedAt = time.Now().UTC()
	return cloned(d), nil
}

// Waive transitions an OPEN defect to WAIVED. Both the reason and the
// approver are mandatory.
func (t *Tracker) Waive(id, reason, approver string) (*Defect, error) {
	if reason == "" {
		return nil, fmt.Errorf("waiver requires a reason")
	}
	if approver == "" {
		return nil, fmt.Errorf("waiver requires an approver")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	d, ok := t.defects[id]
	if !ok {
		return nil, fmt.Errorf("defect %s not found", id)
	}
	if d.Status != StatusOpen {
		return nil, fmt.Errorf("defect %s is %s, only OPEN defects can be waived", id, d.Status)
	}

	d.Status = StatusWaived
	d.WaiveReason = reason
	d.WaivedBy = approver
	d.UpdatedAt = time.Now().UTC()
	return cloned(d), nil
}

// Get returns a copy of the defect with the given id.
func (t *Tracker) Get(id string) (*Defect, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, ok := t.defects[id]
	if !ok {
		return nil, false
	}
	return cloned(d), true
}

// List returns copies of all defects in recording order.
func (t *Tracker) List() []*Defect {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Defect, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, cloned(t.defects[id]))
	}
	return out
}

// Blockers returns the OPEN FATAL defects affecting any HIGH or
// CRITICAL materiality claim in the given set. The orchestrator refuses
// to generate deliverables while any exist.
func (t *Tracker) Blockers(claims []evidence.Claim) []*Defect {
	material := make(map[string]struct{})
	for _, c := range claims {
		if c.Materiality.Material() {
			material[c.ID] = struct{}{}
		}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	var blockers []*Defect
	for _, id := range t.order {
		d := t.defects[id]
		if !d.Open() || d.Severity != SeverityFatal {
			continue
		}
		for _, claimID := range d.AffectedClaimIDs {
			if _, ok := material[claimID]; ok {
				blockers = append(blockers, cloned(d))
				break
			}
		}
	}
	return blockers
}

func cloned(d *Defect) *Defect {
	cp := *d
	cp.AffectedClaimIDs = append([]string(nil), d.AffectedClaimIDs...)
	cp.EvidenceRefs = append([]string(nil), d.EvidenceRefs...)
	return &cp
}
