package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/MeKo-Tech/labelscan/internal/scan"
)

// CSV appends readings as comma-separated rows (timestamp, value, source).
type CSV struct {
	mu sync.Mutex
	w  *csv.Writer
}

// NewCSV wraps a writer. WriteHeader emits the column row once if wanted.
func NewCSV(w io.Writer) *CSV {
	return &CSV{w: csv.NewWriter(w)}
}

// WriteHeader emits the column header row.
func (c *CSV) WriteHeader() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.w.Write([]string{"timestamp", "value", "source"}); err != nil {
		return fmt.Errorf("csv sink: %w", err)
	}
	c.w.Flush()
	return c.w.Error()
}

// Append writes one reading and flushes so tail -f style consumers see it.
func (c *CSV) Append(r scan.Reading) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.w.Write([]string{r.Timestamp.Format(time.RFC3339Nano), r.Value, r.SourceTag}); err != nil {
		return fmt.Errorf("csv sink: %w", err)
	}
	c.w.Flush()
	return c.w.Error()
}

// JSONL appends readings as one JSON object per line.
type JSONL struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONL wraps a writer.
func NewJSONL(w io.Writer) *JSONL {
	return &JSONL{enc: json.NewEncoder(w)}
}

// Append writes one reading as a JSON line.
func (j *JSONL) Append(r scan.Reading) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.enc.Encode(r); err != nil {
		return fmt.Errorf("jsonl sink: %w", err)
	}
	return nil
}
