// Package sink provides append-only destinations for committed readings.
// Sinks are thin plumbing; the scan core only sees the scan.Sink interface.
package sink

import (
	"sync"

	"github.com/MeKo-Tech/labelscan/internal/scan"
)

// Memory is an in-memory append-only reading log, safe for concurrent use.
// The server uses it to answer "what has this session scanned so far".
type Memory struct {
	mu       sync.Mutex
	readings []scan.Reading
}

// NewMemory returns an empty in-memory log.
func NewMemory() *Memory { return &Memory{} }

// Append records a reading in insertion order.
func (m *Memory) Append(r scan.Reading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings = append(m.readings, r)
	return nil
}

// Readings returns a copy of the log in commit order.
func (m *Memory) Readings() []scan.Reading {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]scan.Reading, len(m.readings))
	copy(out, m.readings)
	return out
}

// Len returns the number of committed readings.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.readings)
}

// Multi fans a reading out to several sinks, stopping at the first error.
func Multi(sinks ...scan.Sink) scan.Sink {
	return scan.SinkFunc(func(r scan.Reading) error {
		for _, s := range sinks {
			if s == nil {
				continue
			}
			if err := s.Append(r); err != nil {
				return err
			}
		}
		return nil
	})
}
