package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"scheduleadvisor/internal/config"
	"scheduleadvisor/internal/logging"
	"scheduleadvisor/pkg/core"
	"scheduleadvisor/pkg/planner"
	"scheduleadvisor/pkg/solver"
	"scheduleadvisor/pkg/validate"
)

var (
	validBackends = []string{"branchbound", "gophersat", "exec"}
	backends      = map[string]func(cfg *config.Config) solver.Solver{
		"branchbound": func(*config.Config) solver.Solver { return solver.NewBranchBound() },
		"gophersat":   func(*config.Config) solver.Solver { return solver.NewGophersat() },
		"exec": func(cfg *config.Config) solver.Solver {
			return solver.NewExec("exec", cfg.Solver.Binary, cfg.Solver.Args...)
		},
	}
)

// planOutput is the JSON written after a successful generation: the
// schedule, its independent validation and the optimization score.
type planOutput struct {
	Run        string                `json:"run"`
	Schedule   *core.Schedule        `json:"schedule"`
	Validation core.ValidationResult `json:"validation"`
	Score      float64               `json:"score"`
}

func main() {
	_ = godotenv.Load()

	// Define arguments
	filePtr := flag.String("file", "", "Path to the plan-input file (student, courses, requirements, optional offerings and fixed_courses)")
	outPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	configPtr := flag.String("config", "", "Path to an optional config file")
	solverPtr := flag.String("solver", "", "Solving backend to use. Allowed values are: \"branchbound\", \"gophersat\", \"exec\", where the configured backend is the default")
	timeoutPtr := flag.Duration("timeout", 0, "Solver wall-clock budget; overrides the configured timeout when positive")
	checkPtr := flag.Bool("check", false, "Validate the schedule given via --schedule against the plan input instead of planning")
	schedulePtr := flag.String("schedule", "", "Path to the schedule file to validate (only with --check)")
	flag.Parse()

	filePath := *filePtr
	outFile := *outPtr
	backendName := strings.ToLower(*solverPtr)

	// Validate arguments
	if filePath == "" {
		log.Fatal("an input file must be specified")
	} else if backendName != "" && !slices.Contains(validBackends, backendName) {
		log.Fatalf("%v is not a valid backend", backendName)
	} else if *checkPtr && *schedulePtr == "" {
		log.Fatal("--check needs a schedule file via --schedule")
	}

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	if backendName != "" {
		cfg.Solver.Backend = backendName
	}
	if *timeoutPtr > 0 {
		cfg.Solver.Timeout = *timeoutPtr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer logger.Sync()

	// Extract input
	request, err := planner.InputFromJson(filePath)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	options := validate.Options{
		CompletedCourses: request.Student.CompletedCourses,
		MinUnitsPerTerm:  cfg.Plan.RecommendedMin,
		MaxUnitsPerTerm:  cfg.Plan.RecommendedMax,
	}

	if *checkPtr {
		runCheck(*schedulePtr, request, options, outFile)
		return
	}

	// Initialize engines
	backend := backends[cfg.Solver.Backend](cfg)
	engine := planner.New(backend, cfg.Planner(), logger)

	// Generate the schedule
	started := time.Now()
	schedule, score, err := engine.Generate(context.Background(), request)
	if err != nil {
		logger.Fatal("schedule generation failed", zap.Error(err))
	} else if schedule == nil {
		fmt.Println("no schedule satisfies the constraints within the budget")
		os.Exit(20)
	}
	logger.Info("generation finished", zap.Duration("elapsed", time.Since(started)))

	// Verify schedule correctness independently
	validation := validate.Schedule(*schedule, request.Requirements, request.Courses, options)

	writeOutput(planOutput{
		Run:        uuid.NewString(),
		Schedule:   schedule,
		Validation: validation,
		Score:      score,
	}, outFile)

	if !validation.IsValid {
		os.Exit(15)
	}
	os.Exit(10)
}

func runCheck(scheduleFile string, request planner.Request, options validate.Options, outFile string) {
	schedule, err := scheduleFromJson(scheduleFile)
	if err != nil {
		log.Fatalf("cannot parse schedule file: %v", err)
	}

	validation := validate.Schedule(schedule, request.Requirements, request.Courses, options)
	writeOutput(map[string]any{"validation": validation}, outFile)

	if !validation.IsValid {
		os.Exit(15)
	}
	os.Exit(10)
}

func scheduleFromJson(file string) (core.Schedule, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return core.Schedule{}, err
	}
	var scheduleJson map[string]any
	if err := json.Unmarshal(bytes, &scheduleJson); err != nil {
		return core.Schedule{}, err
	}

	var schedule core.Schedule
	if err := mapstructure.Decode(scheduleJson, &schedule); err != nil {
		return core.Schedule{}, err
	}
	return schedule, nil
}

func writeOutput(output any, outFile string) {
	outputJson, err := json.Marshal(output)
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if outFile == "" {
		fmt.Println(string(outputJson))
	} else {
		if err := os.WriteFile(outFile, outputJson, 0666); err != nil {
			log.Fatalf("an error occurred while writing to the output file: %v", err)
		}
	}
}
