package prediction

import (
	"context"

	"github.com/uptimeworks/predmaint/core/model"
)

// Engine produces a failure prediction for one piece of equipment.
type Engine interface {
	// Predict estimates failure risk from the equipment snapshot. Missing
	// telemetry fields must be defaulted, never rejected.
	Predict(ctx context.Context, eq model.Equipment) (model.FailurePrediction, error)
}
