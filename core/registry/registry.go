// Package registry defines the contracts of the external collaborators the
// engine reads from: the asset registry, the technician directory and the
// SOP registry. The in-memory implementations double as deterministic
// fixtures.
package registry

import (
	"context"

	"github.com/uptimeworks/predmaint/core/model"
)

// EquipmentRegistry reads equipment and its maintenance history by id.
type EquipmentRegistry interface {
	Equipment(ctx context.Context, id string) (model.Equipment, error)
	ListEquipment(ctx context.Context) ([]model.Equipment, error)
}

// TechnicianDirectory lists active technicians with their specializations.
type TechnicianDirectory interface {
	ActiveTechnicians(ctx context.Context) ([]model.Technician, error)
}

// SOPRegistry lists active procedures and their equipment dependencies.
type SOPRegistry interface {
	ActiveProcedures(ctx context.Context) ([]model.StandardProcedure, error)
}
