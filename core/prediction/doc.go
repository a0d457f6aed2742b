// Package prediction estimates failure probability, remaining useful life
// and degradation trend for equipment. The built-in engine is a documented
// heuristic placeholder; anything satisfying Engine, including a trained
// model, can be substituted without touching downstream components.
package prediction
