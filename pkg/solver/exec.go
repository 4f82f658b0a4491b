package solver

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type execSolver struct {
	name string
	path string
	args []string
}

// NewExec wraps an external pseudo-boolean solver binary following the PB
// competition conventions: the OPB instance on standard input, "s" status
// and "v" value lines on standard output. Works with sat4j, roundingsat,
// naps and the like.
func NewExec(name, path string, args ...string) Solver {
	return &execSolver{name: name, path: path, args: args}
}

func (solver *execSolver) Name() string {
	return solver.name
}

func (solver *execSolver) Solve(ctx context.Context, model *Model) (Solution, error) {
	if solution, done := solveTrivial(model); done {
		return solution, nil
	}

	cmd := exec.CommandContext(ctx, solver.path, solver.args...)
	cmd.Stdin = strings.NewReader(model.ToOPB())

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	err := cmd.Run()
	expired := ctx.Err() != nil
	// Exit-code 30 stands for optimum found, 10 for satisfiable and 20 for unsatisfiable
	if err != nil && !expired {
		code := cmd.ProcessState.ExitCode()
		if code != 10 && code != 20 && code != 30 {
			return Solution{}, fmt.Errorf("%w: %v execution failed: %v : %v", ErrBackend, solver.name, err, stdErr.String())
		}
	}

	switch status := parseStatusLine(stdOut.String()); status {
	case "OPTIMUM FOUND", "SATISFIABLE":
		assignment := parseValueLines(stdOut.String(), model.Vars)
		verdict := StatusOptimal
		if status == "SATISFIABLE" || expired {
			verdict = StatusFeasible
		}
		return Solution{
			Status:     verdict,
			Assignment: assignment,
			Objective:  model.ObjectiveValue(assignment),
		}, nil
	case "UNSATISFIABLE":
		return Solution{Status: StatusInfeasible}, nil
	case "UNKNOWN":
		return Solution{Status: StatusTimeout}, nil
	default:
		if expired {
			return Solution{Status: StatusTimeout}, nil
		}
		return Solution{}, fmt.Errorf("%w: %v produced no status line: %v", ErrBackend, solver.name, stdErr.String())
	}
}

func parseStatusLine(solverOutput string) string {
	line, _ := lo.Find(strings.Split(solverOutput, "\n"), func(line string) bool {
		return strings.HasPrefix(line, "s ")
	})
	return strings.TrimSpace(strings.TrimPrefix(line, "s "))
}

func parseValueLines(solverOutput string, vars int) Assignment {
	literals := lo.Reduce(
		lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
			return len(line) > 0 && line[0] == 'v'
		}),
		func(literals []string, line string, _ int) []string {
			return append(literals, strings.Fields(line[1:])...)
		},
		[]string{},
	)

	assignment := make(Assignment, vars+1)
	for _, literal := range literals {
		negated := strings.HasPrefix(literal, "-")
		variable, err := strconv.Atoi(strings.TrimPrefix(strings.TrimPrefix(literal, "-"), "x"))
		if err != nil {
			continue
		}
		if variable >= 1 && variable <= vars {
			assignment[variable] = !negated
		}
	}
	return assignment
}
