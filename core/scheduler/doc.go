// Package scheduler orchestrates the per-equipment maintenance pipeline:
// prediction, timing, task generation, technician assignment, SOP impact
// and cost, producing one persisted MaintenanceSchedule per equipment id.
// Batches run on a bounded worker pool where one failed id never blocks
// the others.
package scheduler
