// Package audit records engine actions in an append-only event log.
package audit

import (
	"context"
	"time"
)

// Event is one audit entry. Events are never updated or deleted.
type Event struct {
	ID      string         `json:"id"`
	Time    time.Time      `json:"time"`
	Action  string         `json:"action"`  // schedule_created, optimization_proposed, ...
	Subject string         `json:"subject"` // id of the affected record
	Detail  map[string]any `json:"detail,omitempty"`
}

// Sink appends events to a log.
type Sink interface {
	Append(ctx context.Context, ev Event) error
}

// NopSink discards events.
type NopSink struct{}

// Append implements Sink.
func (NopSink) Append(context.Context, Event) error { return nil }
