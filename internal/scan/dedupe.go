package scan

import (
	"strings"
	"time"
)

// Deduplicator rejects noise values and suppresses immediate repeat commits.
// Duplicate detection compares only against the most recently committed
// reading, a constant-time check that trades perfect global deduplication for
// responsiveness.
type Deduplicator struct {
	minLength int
	window    time.Duration
	accept    func(string) bool
}

// NewDeduplicator builds a deduplicator from the session config.
func NewDeduplicator(cfg Config) *Deduplicator {
	return &Deduplicator{minLength: cfg.MinValueLength, window: cfg.DedupeWindow, accept: cfg.Accept}
}

// IsAcceptable reports whether a normalized value passes the length check and
// the optional application predicate.
func (d *Deduplicator) IsAcceptable(value string) bool {
	if len(value) < d.minLength {
		return false
	}
	if d.accept != nil && !d.accept(value) {
		return false
	}
	return true
}

// IsDuplicate reports whether value matches the last committed value inside
// the dedupe window. A different value is never a duplicate; an identical one
// is accepted again once the window has elapsed.
func (d *Deduplicator) IsDuplicate(value, lastValue string, lastAt, now time.Time) bool {
	if value != lastValue {
		return false
	}
	if lastAt.IsZero() {
		return false
	}
	return now.Sub(lastAt) <= d.window
}

// NormalizeValue uppercases and strips everything but ASCII alphanumerics.
// OCR output passes through here before acceptance; barcode payloads are
// committed verbatim.
func NormalizeValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
