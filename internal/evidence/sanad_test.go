package evidence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSanad() *Sanad {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &Sanad{
		ID:                "snd-1",
		ClaimID:           "clm-1",
		PrimaryEvidenceID: "ev-1",
		CorroboratingIDs:  []string{"ev-2", "ev-3"},
		Chain: []TransmissionLink{
			{Actor: "data-room", ActorType: ActorConnector, Timestamp: base},
			{Actor: "extractor", ActorType: ActorSystem, Timestamp: base.Add(time.Minute)},
			{Actor: "analyst", ActorType: ActorHuman, Timestamp: base.Add(2 * time.Minute)},
		},
	}
}

func TestSanad_Validate(t *testing.T) {
	require.NoError(t, validSanad().Validate())
}

func TestSanad_Validate_MissingPrimary(t *testing.T) {
	s := validSanad()
	s.PrimaryEvidenceID = ""

	err := s.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary evidence")
}

func TestSanad_Validate_DuplicateCorroborator(t *testing.T) {
	s := validSanad()
	s.CorroboratingIDs = append(s.CorroboratingIDs, "ev-2")

	require.Error(t, s.Validate())
}

func TestSanad_Validate_CorroboratorDuplicatesPrimary(t *testing.T) {
	s := validSanad()
	s.CorroboratingIDs = []string{"ev-1"}

	require.Error(t, s.Validate())
}

func TestSanad_Validate_ChainOutOfOrder(t *testing.T) {
	s := validSanad()
	s.Chain[2].Timestamp = s.Chain[0].Timestamp.Add(-time.Hour)

	err := s.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of order")
}

func TestSanad_IndependentChains(t *testing.T) {
	s := validSanad()
	assert.Equal(t, 3, s.IndependentChains())

	s.CorroboratingIDs = nil
	assert.Equal(t, 1, s.IndependentChains())
}

func TestSanad_AttachDefect(t *testing.T) {
	s := validSanad()

	require.NoError(t, s.AttachDefect("def-1"))
	require.NoError(t, s.AttachDefect("def-1")) // idempotent
	require.NoError(t, s.AttachDefect("def-2"))

	assert.Equal(t, []string{"def-1", "def-2"}, s.DefectIDs)
	require.Error(t, s.AttachDefect(""))
}

func TestAgentOutput_Text_Deterministic(t *testing.T) {
	out := &AgentOutput{
		Sections: map[string]string{
			"summary": "Revenue grew steadily.",
			"detail":  "Cohort data supports the trend.",
		},
		Risks: []Risk{{Title: "Churn risk", Detail: "Top customer at 18%."}},
	}

	first := out.Text()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, out.Text())
	}
	assert.Contains(t, first, "Cohort data")
	assert.Contains(t, first, "Churn risk")
}

func TestAgentOutput_Text_Nil(t *testing.T) {
	var out *AgentOutput
	assert.Empty(t, out.Text())
}
