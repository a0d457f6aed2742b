package model

import (
	"fmt"
	"time"
)

// Equipment represents a maintainable asset owned by the external asset
// registry. The engine never mutates it.
type Equipment struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Category    string             `json:"category"`
	InstallDate time.Time          `json:"install_date"`
	UsageHours  float64            `json:"usage_hours"`
	History     []MaintenanceEvent `json:"history,omitempty"`
	Metadata    map[string]string  `json:"metadata,omitempty"`
}

// MaintenanceEvent is a single historical maintenance intervention.
type MaintenanceEvent struct {
	Date          time.Time `json:"date"`
	Type          string    `json:"type"` // preventive, corrective, inspection
	Description   string    `json:"description,omitempty"`
	DurationHours float64   `json:"duration_hours"`
	Cost          float64   `json:"cost"`
	TechnicianID  string    `json:"technician_id,omitempty"`
	Success       bool      `json:"success"`
}

// AgeYears returns the equipment age at the reference time. A zero install
// date yields a negative value so callers can apply their defaults.
func (e Equipment) AgeYears(now time.Time) float64 {
	if e.InstallDate.IsZero() {
		return -1
	}
	return now.Sub(e.InstallDate).Hours() / (24 * 365.25)
}

// LastMaintenance returns the most recent history entry date and whether one
// exists.
func (e Equipment) LastMaintenance() (time.Time, bool) {
	var last time.Time
	for _, ev := range e.History {
		if ev.Date.After(last) {
			last = ev.Date
		}
	}
	return last, !last.IsZero()
}

// Validate checks that the equipment record is usable by the engine.
func (e Equipment) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("equipment id is required")
	}
	if e.UsageHours < 0 {
		return fmt.Errorf("usage hours must not be negative")
	}
	return nil
}

// Technician is an active worker read from the technician directory.
type Technician struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Active          bool     `json:"active"`
	Specializations []string `json:"specializations"`
	HourlyRate      float64  `json:"hourly_rate"`
	WeeklyHours     float64  `json:"weekly_hours,omitempty"`
}

// Criticality describes how strongly a procedure depends on a piece of
// equipment.
type Criticality string

const (
	CriticalityCritical Criticality = "critical"
	CriticalityModerate Criticality = "moderate"
	CriticalityMinimal  Criticality = "minimal"
)

// EquipmentDependency links a procedure to a piece of equipment.
type EquipmentDependency struct {
	EquipmentID string      `json:"equipment_id"`
	Criticality Criticality `json:"criticality"`
}

// StandardProcedure is an SOP read from the SOP registry.
type StandardProcedure struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Active       bool                  `json:"active"`
	Dependencies []EquipmentDependency `json:"dependencies,omitempty"`
}

// DependencyOn returns the procedure's dependency on the given equipment, if
// any.
func (p StandardProcedure) DependencyOn(equipmentID string) (EquipmentDependency, bool) {
	for _, d := range p.Dependencies {
		if d.EquipmentID == equipmentID {
			return d, true
		}
	}
	return EquipmentDependency{}, false
}
