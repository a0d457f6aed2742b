package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"
)

// JSONLSink appends events to a JSONL file, one event per line.
type JSONLSink struct {
	path string
	mu   sync.Mutex
}

// NewJSONLSink creates the file if needed and returns the sink.
func NewJSONLSink(path string) (*JSONLSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLSink{path: path}, nil
}

// Append writes the event to the log.
func (s *JSONLSink) Append(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(ev)
}

// Query returns events within the time range, in file order. Malformed
// lines are skipped.
func (s *JSONLSink) Query(ctx context.Context, start, end time.Time) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var out []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue
		}
		if !start.IsZero() && ev.Time.Before(start) {
			continue
		}
		if !end.IsZero() && ev.Time.After(end) {
			continue
		}
		out = append(out, ev)
	}
	return out, scanner.Err()
}
