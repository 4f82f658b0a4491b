package solver

import (
	"context"
	"errors"
)

// Status is the outcome of one solve call.
type Status int

const (
	StatusUnknown Status = iota
	// StatusOptimal: a provably best assignment (or any assignment when
	// there is no objective) was found.
	StatusOptimal
	// StatusFeasible: the time budget expired after at least one
	// satisfying assignment was found; the best one so far is returned.
	StatusFeasible
	// StatusInfeasible: no assignment satisfies the constraints.
	StatusInfeasible
	// StatusTimeout: the time budget expired before any satisfying
	// assignment was found. Callers treat this exactly like infeasibility.
	StatusTimeout
)

func (status Status) String() string {
	switch status {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusTimeout:
		return "timeout_no_solution"
	default:
		return "unknown"
	}
}

// HasSolution reports whether the status carries a concrete assignment.
func (status Status) HasSolution() bool {
	return status == StatusOptimal || status == StatusFeasible
}

// Assignment holds a 0/1 value for every variable, indexed by variable id
// (index 0 is unused).
type Assignment []bool

func (assignment Assignment) Value(variable int) bool {
	if variable <= 0 || variable >= len(assignment) {
		return false
	}
	return assignment[variable]
}

// Solution is the result of one solve: a status plus, when the status
// carries one, a full assignment and its objective value.
type Solution struct {
	Status     Status
	Assignment Assignment
	Objective  int64
}

// ErrBackend marks faults inside a solving engine (crashes, unparsable
// output, broken subprocesses). It is distinct from the no-solution
// statuses: callers may retry a backend fault but must accept infeasibility.
var ErrBackend = errors.New("solver backend fault")

// Solver solves one Model within the wall-clock budget carried by ctx.
// Implementations hold no mutable state across calls, so a single Solver
// may serve concurrent solves.
type Solver interface {
	Name() string
	Solve(ctx context.Context, model *Model) (Solution, error)
}

// solveTrivial settles variable-free models locally. The OPB text form
// cannot express them, so the engines backed by it short-circuit here.
func solveTrivial(model *Model) (Solution, bool) {
	if model.Vars > 0 {
		return Solution{}, false
	}
	for _, ineq := range model.inequalities() {
		if ineq.bound > 0 {
			return Solution{Status: StatusInfeasible}, true
		}
	}
	return Solution{Status: StatusOptimal, Assignment: make(Assignment, 1)}, true
}
