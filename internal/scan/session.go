package scan

import (
	"image"
	"time"
)

// Session is the process-scoped state of one continuous capture run. It is
// exclusively owned by the tick loop: only the stability gate and the
// orchestrator mutate it, and the loop is single-threaded. The generation
// counter guards against a pending async OCR completion racing a restart.
type Session struct {
	active          bool
	generation      uint64
	phaseStartedAt  time.Time
	lastValue       string
	lastCommittedAt time.Time
	busyOCR         bool
	lastOCRAt       time.Time
	lastHint        image.Rectangle // most recent engine-reported bounding box
}

// NewSession returns an inactive session. Start must be called before ticks.
func NewSession() *Session {
	return &Session{}
}

// Start activates the session and bumps the generation so results from any
// previous run are discarded on arrival.
func (s *Session) Start(now time.Time) {
	s.generation++
	s.active = true
	s.phaseStartedAt = now
	s.lastValue = ""
	s.lastCommittedAt = time.Time{}
	s.busyOCR = false
	s.lastOCRAt = time.Time{}
	s.lastHint = image.Rectangle{}
}

// Stop deactivates the session. A result arriving after Stop is discarded by
// the generation guard.
func (s *Session) Stop() {
	s.active = false
	s.generation++
}

// Active reports whether ticks should run.
func (s *Session) Active() bool { return s.active }

// Generation returns the current generation tag.
func (s *Session) Generation() uint64 { return s.generation }

// LastValue returns the most recently committed value, or "".
func (s *Session) LastValue() string { return s.lastValue }

// LastCommittedAt returns the time of the most recent commit.
func (s *Session) LastCommittedAt() time.Time { return s.lastCommittedAt }

// commit records a successful reading and resets escalation to phase 0.
func (s *Session) commit(value string, now time.Time) {
	s.lastValue = value
	s.lastCommittedAt = now
	s.phaseStartedAt = now
}

// Phase is the time-indexed escalation level governing which fallback
// techniques are attempted. It is monotonically non-decreasing while no
// success occurs and resets to 0 on any committed result.
type Phase int

const (
	// PhaseFast runs the primary decoder on the raw frame only.
	PhaseFast Phase = iota
	// PhaseSecondary adds the alternate decoder engine.
	PhaseSecondary
	// PhaseContrast adds contrast-corrected variant attempts.
	PhaseContrast
	// PhaseBinarize adds binarized and inverted attempts.
	PhaseBinarize
	// PhaseOCR adds throttled ROI-constrained OCR.
	PhaseOCR
)

// PhaseFor computes the phase from elapsed time since the last commit (or
// session start) against the configured thresholds. Keying by time rather
// than attempt count makes behavior time-bounded regardless of frame rate.
func PhaseFor(elapsed time.Duration, thresholds [4]time.Duration) Phase {
	phase := PhaseFast
	for i, t := range thresholds {
		if elapsed >= t {
			phase = Phase(i + 1)
		}
	}
	return phase
}

// PhaseAt returns the session's current phase at the given instant.
func (s *Session) PhaseAt(now time.Time, thresholds [4]time.Duration) Phase {
	return PhaseFor(now.Sub(s.phaseStartedAt), thresholds)
}
