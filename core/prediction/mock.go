package prediction

import (
	"context"

	"github.com/uptimeworks/predmaint/core/model"
)

// MockEngine returns canned predictions keyed by equipment id. Used in tests
// and wherever deterministic output is required.
type MockEngine struct {
	Predictions map[string]model.FailurePrediction
	Err         error
}

// Predict returns the configured prediction for the equipment, or a benign
// stable prediction when none is configured.
func (m MockEngine) Predict(ctx context.Context, eq model.Equipment) (model.FailurePrediction, error) {
	if m.Err != nil {
		return model.FailurePrediction{}, m.Err
	}
	if p, ok := m.Predictions[eq.ID]; ok {
		return p, nil
	}
	return model.FailurePrediction{
		EquipmentID: eq.ID,
		Probability: 0.1,
		RULDays:     657,
		Trend:       model.TrendStable,
		Confidence:  0.9,
	}, nil
}
