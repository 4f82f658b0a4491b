package solver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	gophersat "github.com/crillab/gophersat/solver"
)

type gophersatSolver struct{}

// NewGophersat returns an in-process engine backed by the gophersat
// pseudo-boolean solver. Unlike the external binaries it needs nothing
// installed, while usually outrunning the branch-and-bound engine on
// larger catalogs.
func NewGophersat() Solver {
	return &gophersatSolver{}
}

func (solver *gophersatSolver) Name() string {
	return "gophersat"
}

func (solver *gophersatSolver) Solve(ctx context.Context, model *Model) (Solution, error) {
	if solution, done := solveTrivial(model); done {
		return solution, nil
	}

	problem, err := gophersat.ParseOPB(strings.NewReader(model.ToOPB()))
	if err != nil {
		return Solution{}, fmt.Errorf("%w: gophersat rejected the model: %v", ErrBackend, err)
	}
	engine := gophersat.New(problem)

	// Optimal only honors its stop channel, so bridge the context onto it
	stop := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			close(stop)
		case <-finished:
		}
	}()
	result := engine.Optimal(nil, stop)
	close(finished)
	expired := ctx.Err() != nil

	switch result.Status {
	case gophersat.Sat:
		assignment := decodeModelMap(result.Model, model.Vars)
		status := StatusOptimal
		if expired {
			status = StatusFeasible
		}
		return Solution{
			Status:     status,
			Assignment: assignment,
			Objective:  model.ObjectiveValue(assignment),
		}, nil
	case gophersat.Unsat:
		return Solution{Status: StatusInfeasible}, nil
	default:
		if expired {
			return Solution{Status: StatusTimeout}, nil
		}
		return Solution{}, fmt.Errorf("%w: gophersat stopped without a verdict", ErrBackend)
	}
}

// decodeModelMap reads a gophersat binding map back into an Assignment.
// Keys are variable ids, either plain ints or OPB names like "x12".
func decodeModelMap(bindings gophersat.ModelMap, vars int) Assignment {
	assignment := make(Assignment, vars+1)
	for key, value := range bindings {
		var variable int
		switch id := key.(type) {
		case int:
			variable = id
		case string:
			parsed, err := strconv.Atoi(strings.TrimPrefix(id, "x"))
			if err != nil {
				continue
			}
			variable = parsed
		default:
			continue
		}
		if variable >= 1 && variable <= vars {
			assignment[variable] = value
		}
	}
	return assignment
}
