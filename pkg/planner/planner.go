package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scheduleadvisor/internal/metrics"
	"scheduleadvisor/pkg/core"
	"scheduleadvisor/pkg/solver"
)

// Defaults mirror the advising service's historical settings.
const (
	DefaultHorizon         = 8
	DefaultBaseYear        = 2024
	DefaultMinUnitsPerTerm = 12
	DefaultMaxUnitsPerTerm = 60
	DefaultTimeout         = 30 * time.Second
)

// Request carries everything one generation call needs. Offerings may be
// nil, in which case they are derived from each course's terms_offered
// data. Weights overrides the student's optimization weights when set.
// Fixed pins courses into specific terms.
type Request struct {
	Student      core.StudentProfile
	Requirements []core.Requirement
	Courses      map[string]core.Course
	Offerings    map[string][]string
	Weights      map[string]float64
	Fixed        map[string][]string
}

// Config tunes one planner instance. Zero values fall back to the defaults
// above.
type Config struct {
	Horizon         int
	BaseYear        int
	MinUnitsPerTerm int
	MaxUnitsPerTerm int
	Timeout         time.Duration
}

// Planner turns a generation request into a schedule plus its score.
// A nil schedule with a nil error means the constraints admit no schedule
// within the budget; a non-nil error means the solving machinery itself
// failed.
type Planner interface {
	Generate(ctx context.Context, request Request) (*core.Schedule, float64, error)
}

type pbPlanner struct {
	backend solver.Solver
	config  Config
	logger  *zap.Logger
}

func New(backend solver.Solver, config Config, logger *zap.Logger) Planner {
	if config.Horizon <= 0 {
		config.Horizon = DefaultHorizon
	}
	if config.BaseYear <= 0 {
		config.BaseYear = DefaultBaseYear
	}
	if config.MinUnitsPerTerm <= 0 {
		config.MinUnitsPerTerm = DefaultMinUnitsPerTerm
	}
	if config.MaxUnitsPerTerm <= 0 {
		config.MaxUnitsPerTerm = DefaultMaxUnitsPerTerm
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &pbPlanner{backend: backend, config: config, logger: logger}
}

func (planner *pbPlanner) Generate(ctx context.Context, request Request) (*core.Schedule, float64, error) {
	logger := planner.logger.With(
		zap.String("run", uuid.NewString()),
		zap.String("student", request.Student.Id),
		zap.String("backend", planner.backend.Name()),
	)

	//** Plan the horizon
	terms := PlanTerms(request.Student.Year, request.Student.Semester, planner.config.Horizon, planner.config.BaseYear)
	if request.Offerings == nil {
		request.Offerings = core.OfferingsForTerms(request.Courses, terms)
	}

	//** Build the constraint model
	state := newConstraintState(request, terms, int64(planner.config.MinUnitsPerTerm), int64(planner.config.MaxUnitsPerTerm))
	model, warnings := buildModel(state)
	for _, warning := range warnings {
		logger.Warn(warning)
	}

	weights := request.Weights
	if len(weights) == 0 {
		weights = request.Student.Weights()
	}
	model.Maximize(composeObjective(state, weights))

	logger.Info("model built",
		zap.Int("variables", model.Vars),
		zap.Int("constraints", len(model.Linears)+len(model.Implications)),
		zap.Int("terms", len(terms)),
	)

	//** Solve within the budget
	solveCtx, cancel := context.WithTimeout(ctx, planner.config.Timeout)
	defer cancel()

	started := time.Now()
	solution, err := planner.backend.Solve(solveCtx, model)
	elapsed := time.Since(started)
	metrics.ObserveSolve(planner.backend.Name(), solution.Status.String(), elapsed)
	if err != nil {
		metrics.CountGeneration("error")
		return nil, 0, fmt.Errorf("schedule generation failed: %w", err)
	}

	logger.Info("solver finished",
		zap.String("status", solution.Status.String()),
		zap.Duration("duration", elapsed),
		zap.Int64("objective", solution.Objective),
	)

	metrics.CountGeneration(solution.Status.String())
	if !solution.Status.HasSolution() {
		return nil, 0, nil
	}

	//** Decode and score
	schedule := extractSchedule(state, solution.Assignment)
	score := Score(schedule, weights)

	logger.Info("schedule generated",
		zap.Int("terms", len(schedule.Terms)),
		zap.Int("courses", len(schedule.CourseIds())),
		zap.Int("units", schedule.TotalUnits()),
		zap.Float64("score", score),
	)
	return schedule, score, nil
}
