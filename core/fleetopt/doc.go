// Package fleetopt re-optimizes a set of existing maintenance schedules
// against weighted objectives. It works on an immutable snapshot of the
// schedule store, produces a proposal plus ranked recommendations, and
// never mutates live schedules itself; applying a proposal re-validates the
// snapshot version and fails with a conflict if the set changed.
package fleetopt
