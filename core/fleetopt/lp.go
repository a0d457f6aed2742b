package fleetopt

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// ErrInfeasible indicates the workload LP had no feasible solution.
var ErrInfeasible = errors.New("workload lp infeasible")

// solveLP runs the simplex algorithm to distribute the total workload across
// technicians, maximising spare-capacity weighted allocation subject to
// per-technician capacity.
func solveLP(scores, caps []float64, target float64) ([]float64, error) {
	c := make([]float64, len(scores))
	for i, s := range scores {
		c[i] = -s
	}

	g := mat.NewDense(len(caps), len(caps), nil)
	h := make([]float64, len(caps))
	for i, cap := range caps {
		g.Set(i, i, 1)
		h[i] = cap
	}

	A := mat.NewDense(1, len(caps), nil)
	for i := range caps {
		A.Set(0, i, 1)
	}
	b := []float64{target}

	cStd, AStd, bStd := lp.Convert(c, g, h, A, b)
	_, sol, err := lp.Simplex(cStd, AStd, bStd, 1e-7, nil)
	return sol, err
}

// lpSolve points to the function used to solve the LP. It can be overridden
// in tests to simulate solver failures.
var lpSolve = solveLP

// rebalance computes a balanced hours-per-technician target. When the LP
// fails or is infeasible it falls back to a proportional split so a solver
// hiccup never blocks an optimization run.
func rebalance(utilization map[string]float64, capacity float64) map[string]float64 {
	if len(utilization) == 0 {
		return nil
	}
	ids := make([]string, 0, len(utilization))
	var total float64
	for id, h := range utilization {
		ids = append(ids, id)
		total += h
	}
	sort.Strings(ids)

	scores := make([]float64, len(ids))
	caps := make([]float64, len(ids))
	for i, id := range ids {
		spare := capacity - utilization[id]
		if spare < 0 {
			spare = 0
		}
		// Small floor keeps fully booked technicians representable in the
		// objective instead of degenerate.
		scores[i] = spare + 0.01
		caps[i] = capacity
	}

	target := math.Min(total, capacity*float64(len(ids)))
	out, err := solveBalanced(ids, scores, caps, target)
	if err != nil {
		return proportionalSplit(ids, total, capacity)
	}
	return out
}

func solveBalanced(ids []string, scores, caps []float64, target float64) (map[string]float64, error) {
	sol, err := lpSolve(scores, caps, target)
	if err != nil {
		return nil, err
	}
	if len(sol) < len(ids) {
		return nil, ErrInfeasible
	}
	out := make(map[string]float64, len(ids))
	var sum float64
	for i, id := range ids {
		v := sol[i]
		if v < 0 {
			v = 0
		}
		if v > caps[i] {
			v = caps[i]
		}
		out[id] = round1(v)
		sum += v
	}
	if math.Abs(sum-target) > 1e-3 {
		return nil, ErrInfeasible
	}
	return out, nil
}

func proportionalSplit(ids []string, total, capacity float64) map[string]float64 {
	out := make(map[string]float64, len(ids))
	share := total / float64(len(ids))
	if share > capacity {
		share = capacity
	}
	for _, id := range ids {
		out[id] = round1(share)
	}
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
