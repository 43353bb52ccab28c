package scan

import (
	"time"
)

// Reading is one committed decode result. Readings are immutable once
// created; sinks append them in commit order.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	Value     string    `json:"value"`
	SourceTag string    `json:"source"`
}

// Sink accepts committed readings. Implementations are append-only; the
// storage medium is irrelevant to the scan core.
type Sink interface {
	Append(r Reading) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(r Reading) error

func (f SinkFunc) Append(r Reading) error { return f(r) }
