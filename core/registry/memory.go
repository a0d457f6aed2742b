package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/model"
)

// MemoryRegistry implements all three collaborator contracts over in-memory
// maps. Listing is sorted by id for reproducible output.
type MemoryRegistry struct {
	mu          sync.RWMutex
	equipment   map[string]model.Equipment
	technicians map[string]model.Technician
	procedures  map[string]model.StandardProcedure
}

// NewMemoryRegistry returns an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		equipment:   map[string]model.Equipment{},
		technicians: map[string]model.Technician{},
		procedures:  map[string]model.StandardProcedure{},
	}
}

// PutEquipment stores or replaces an equipment record.
func (r *MemoryRegistry) PutEquipment(eq model.Equipment) {
	r.mu.Lock()
	r.equipment[eq.ID] = eq
	r.mu.Unlock()
}

// PutTechnician stores or replaces a technician record.
func (r *MemoryRegistry) PutTechnician(t model.Technician) {
	r.mu.Lock()
	r.technicians[t.ID] = t
	r.mu.Unlock()
}

// PutProcedure stores or replaces a procedure record.
func (r *MemoryRegistry) PutProcedure(p model.StandardProcedure) {
	r.mu.Lock()
	r.procedures[p.ID] = p
	r.mu.Unlock()
}

// Equipment implements EquipmentRegistry.
func (r *MemoryRegistry) Equipment(ctx context.Context, id string) (model.Equipment, error) {
	if err := ctx.Err(); err != nil {
		return model.Equipment{}, errs.Wrap(errs.Dependency, err, "equipment registry unavailable")
	}
	r.mu.RLock()
	eq, ok := r.equipment[id]
	r.mu.RUnlock()
	if !ok {
		return model.Equipment{}, errs.E(errs.NotFound, "equipment %s not found", id)
	}
	return eq, nil
}

// ListEquipment implements EquipmentRegistry.
func (r *MemoryRegistry) ListEquipment(ctx context.Context) ([]model.Equipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Dependency, err, "equipment registry unavailable")
	}
	r.mu.RLock()
	out := make([]model.Equipment, 0, len(r.equipment))
	for _, eq := range r.equipment {
		out = append(out, eq)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ActiveTechnicians implements TechnicianDirectory.
func (r *MemoryRegistry) ActiveTechnicians(ctx context.Context) ([]model.Technician, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Dependency, err, "technician directory unavailable")
	}
	r.mu.RLock()
	out := make([]model.Technician, 0, len(r.technicians))
	for _, t := range r.technicians {
		if t.Active {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ActiveProcedures implements SOPRegistry.
func (r *MemoryRegistry) ActiveProcedures(ctx context.Context) ([]model.StandardProcedure, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Dependency, err, "sop registry unavailable")
	}
	r.mu.RLock()
	out := make([]model.StandardProcedure, 0, len(r.procedures))
	for _, p := range r.procedures {
		if p.Active {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
