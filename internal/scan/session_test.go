package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhaseFor(t *testing.T) {
	thresholds := DefaultConfig().PhaseThresholds

	tests := []struct {
		elapsed time.Duration
		want    Phase
	}{
		{0, PhaseFast},
		{1999 * time.Millisecond, PhaseFast},
		{2 * time.Second, PhaseSecondary},
		{4999 * time.Millisecond, PhaseSecondary},
		{5 * time.Second, PhaseContrast},
		{6 * time.Second, PhaseContrast},
		{8 * time.Second, PhaseBinarize},
		{11999 * time.Millisecond, PhaseBinarize},
		{12 * time.Second, PhaseOCR},
		{13 * time.Second, PhaseOCR},
		{time.Hour, PhaseOCR},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PhaseFor(tt.elapsed, thresholds), "elapsed %v", tt.elapsed)
	}
}

func TestSession_StartStopGeneration(t *testing.T) {
	s := NewSession()
	assert.False(t, s.Active())

	s.Start(time.Now())
	gen1 := s.Generation()
	assert.True(t, s.Active())

	s.Stop()
	assert.False(t, s.Active())
	assert.Greater(t, s.Generation(), gen1)

	s.Start(time.Now())
	assert.Greater(t, s.Generation(), gen1+1)
}

func TestSession_CommitResetsPhaseClock(t *testing.T) {
	thresholds := DefaultConfig().PhaseThresholds
	s := NewSession()
	start := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	s.Start(start)

	late := start.Add(9 * time.Second)
	assert.Equal(t, PhaseBinarize, s.PhaseAt(late, thresholds))

	s.commit("LBL123456", late)
	assert.Equal(t, "LBL123456", s.LastValue())
	assert.Equal(t, late, s.LastCommittedAt())
	assert.Equal(t, PhaseFast, s.PhaseAt(late.Add(time.Second), thresholds))
}

func TestSession_StartClearsCommitState(t *testing.T) {
	s := NewSession()
	s.Start(time.Now())
	s.commit("LBL123456", time.Now())

	s.Stop()
	s.Start(time.Now())
	assert.Empty(t, s.LastValue())
	assert.True(t, s.LastCommittedAt().IsZero())
}
