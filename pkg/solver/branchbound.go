package solver

import (
	"context"
	"time"
)

// Deadline checks are amortized over this many search nodes
const deadlineCheckInterval = 1 << 12

type branchBoundSolver struct{}

// NewBranchBound returns the default engine: an exact depth-first search
// over the compiled inequalities with feasibility and objective-bound
// pruning. It is deterministic for a given model and needs no external
// binaries.
func NewBranchBound() Solver {
	return &branchBoundSolver{}
}

func (solver *branchBoundSolver) Name() string {
	return "branchbound"
}

func (solver *branchBoundSolver) Solve(ctx context.Context, model *Model) (Solution, error) {
	search := newSearch(ctx, model)

	if !search.rootViolated {
		search.explore(1)
	}

	if search.found {
		status := StatusOptimal
		if search.expired {
			status = StatusFeasible
		}
		return Solution{
			Status:     status,
			Assignment: search.best,
			Objective:  search.bestObjective,
		}, nil
	}
	if search.expired {
		return Solution{Status: StatusTimeout}, nil
	}
	return Solution{Status: StatusInfeasible}, nil
}

type occurrence struct {
	constraint int
	coeff      int64
}

// search carries the incremental state of one depth-first exploration:
// per-inequality running sums plus the best achievable addition from the
// still-unassigned variables. A branch is cut as soon as some inequality
// cannot be met anymore or the objective cannot beat the best found.
type search struct {
	ctx   context.Context
	model *Model
	ineqs []inequality

	values      []int8 // -1 unassigned, else 0/1, indexed by variable
	occurrences [][]occurrence
	current     []int64 // per-inequality sum over assigned variables
	slack       []int64 // per-inequality max addition from unassigned variables

	objectiveCoeff   []int64
	objectiveCurrent int64
	objectiveSlack   int64

	found         bool
	best          Assignment
	bestObjective int64

	rootViolated bool
	deadline     time.Time
	hasDeadline  bool
	expired      bool
	nodes        uint64
}

func newSearch(ctx context.Context, model *Model) *search {
	ineqs := model.inequalities()

	search := &search{
		ctx:            ctx,
		model:          model,
		ineqs:          ineqs,
		values:         make([]int8, model.Vars+1),
		occurrences:    make([][]occurrence, model.Vars+1),
		current:        make([]int64, len(ineqs)),
		slack:          make([]int64, len(ineqs)),
		objectiveCoeff: make([]int64, model.Vars+1),
	}
	for variable := range search.values {
		search.values[variable] = -1
	}
	for i, ineq := range ineqs {
		for _, term := range ineq.terms {
			search.occurrences[term.Var] = append(search.occurrences[term.Var], occurrence{constraint: i, coeff: term.Coeff})
			if term.Coeff > 0 {
				search.slack[i] += term.Coeff
			}
		}
		// An inequality unreachable even with every variable in its favor
		// makes the whole model infeasible before any branching
		if search.slack[i] < ineq.bound {
			search.rootViolated = true
		}
	}
	for _, term := range model.Objective {
		search.objectiveCoeff[term.Var] += term.Coeff
	}
	for variable := 1; variable <= model.Vars; variable++ {
		if search.objectiveCoeff[variable] > 0 {
			search.objectiveSlack += search.objectiveCoeff[variable]
		}
	}
	if deadline, ok := ctx.Deadline(); ok {
		search.deadline = deadline
		search.hasDeadline = true
	}
	return search
}

// explore runs the depth-first search from the given variable. It returns
// true when the search should stop entirely, either because the budget
// expired or because a pure-feasibility model found its first assignment.
func (search *search) explore(variable int) bool {
	if search.expiredNow() {
		return true
	}

	if variable > search.model.Vars {
		search.record()
		return len(search.model.Objective) == 0
	}

	for _, value := range search.branchOrder(variable) {
		violated := search.assign(variable, value)
		if !violated && search.explore(variable+1) {
			return true
		}
		search.unassign(variable, value)
	}
	return false
}

// branchOrder tries the objective-improving value first
func (search *search) branchOrder(variable int) [2]int8 {
	if search.objectiveCoeff[variable] > 0 {
		return [2]int8{1, 0}
	}
	return [2]int8{0, 1}
}

// assign fixes a variable and reports whether some inequality became
// unsatisfiable or the objective can no longer beat the best assignment.
// The state mutation is complete either way; the caller must unassign.
func (search *search) assign(variable int, value int8) (violated bool) {
	search.values[variable] = value
	for _, occurrence := range search.occurrences[variable] {
		if occurrence.coeff > 0 {
			search.slack[occurrence.constraint] -= occurrence.coeff
		}
		if value == 1 {
			search.current[occurrence.constraint] += occurrence.coeff
		}
		if search.current[occurrence.constraint]+search.slack[occurrence.constraint] < search.ineqs[occurrence.constraint].bound {
			violated = true
		}
	}

	coeff := search.objectiveCoeff[variable]
	if coeff > 0 {
		search.objectiveSlack -= coeff
	}
	if value == 1 {
		search.objectiveCurrent += coeff
	}
	if search.found && search.objectiveCurrent+search.objectiveSlack <= search.bestObjective {
		violated = true
	}
	return violated
}

func (search *search) unassign(variable int, value int8) {
	search.values[variable] = -1
	for _, occurrence := range search.occurrences[variable] {
		if occurrence.coeff > 0 {
			search.slack[occurrence.constraint] += occurrence.coeff
		}
		if value == 1 {
			search.current[occurrence.constraint] -= occurrence.coeff
		}
	}

	coeff := search.objectiveCoeff[variable]
	if coeff > 0 {
		search.objectiveSlack += coeff
	}
	if value == 1 {
		search.objectiveCurrent -= coeff
	}
}

// record stores the current full assignment as the best one. Violated
// inequalities never survive to a leaf, so every leaf is feasible; with an
// objective, the bound pruning guarantees each recorded leaf improves on
// the previous one.
func (search *search) record() {
	best := make(Assignment, search.model.Vars+1)
	for variable := 1; variable <= search.model.Vars; variable++ {
		best[variable] = search.values[variable] == 1
	}
	search.best = best
	search.bestObjective = search.objectiveCurrent
	search.found = true
}

func (search *search) expiredNow() bool {
	if search.expired {
		return true
	}
	search.nodes++
	if search.nodes%deadlineCheckInterval != 1 {
		return false
	}
	if search.ctx.Err() != nil || (search.hasDeadline && time.Now().After(search.deadline)) {
		search.expired = true
	}
	return search.expired
}
