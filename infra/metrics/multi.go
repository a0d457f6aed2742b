package metrics

import coremetrics "github.com/uptimeworks/predmaint/core/metrics"

// MultiSink fans engine events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPrediction forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPrediction(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSchedule forwards the event to all sinks.
func (m *MultiSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSchedule(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordOptimization forwards the event to all sinks.
func (m *MultiSink) RecordOptimization(ev coremetrics.OptimizationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordOptimization(ev); err != nil {
			return err
		}
	}
	return nil
}
