package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"scheduleadvisor/pkg/core"
	"scheduleadvisor/pkg/planner"
	"scheduleadvisor/pkg/solver"
)

type ResultType int

const (
	planned ResultType = iota
	noSolution
	errored
)

var resultTypes = map[ResultType]string{
	planned:    "planned",
	noSolution: "no_solution",
	errored:    "error",
}

// InstanceMetadata describes one synthetic planning instance.
type InstanceMetadata struct {
	Name         string
	Satisfiable  bool
	Courses      int
	Requirements int
	ChainLength  int
}

type BenchmarkResult struct {
	Backend  string
	Instance InstanceMetadata
	Duration time.Duration
	Result   ResultType
	Score    float64
}

func main() {
	outPtr := flag.String("out", "benchmark_results.csv", "Path of the CSV results file")
	timeoutPtr := flag.Duration("timeout", 10*time.Second, "Per-solve wall-clock budget")
	binaryPtr := flag.String("binary", "", "External PB solver binary; adds the exec backend to the grid when set")
	flag.Parse()

	backends := []solver.Solver{
		solver.NewBranchBound(),
		solver.NewGophersat(),
	}
	if *binaryPtr != "" {
		backends = append(backends, solver.NewExec("exec", *binaryPtr))
	}

	instances := getInstances()
	results := make([]BenchmarkResult, 0, len(instances)*len(backends))

	for _, instance := range instances {
		request, metadata := makeInstance(instance.Courses, instance.ChainLength, instance.Satisfiable)
		for _, backend := range backends {
			fmt.Printf("Benchmarking instance \"%v\" with backend \"%v\"\n", metadata.Name, backend.Name())

			engine := planner.New(backend, planner.Config{Timeout: *timeoutPtr}, nil)

			started := time.Now()
			schedule, score, err := engine.Generate(context.Background(), request)
			duration := time.Since(started)

			result := planned
			if err != nil {
				result = errored
			} else if schedule == nil {
				result = noSolution
			}

			results = append(results, BenchmarkResult{
				Backend:  backend.Name(),
				Instance: metadata,
				Duration: duration,
				Result:   result,
				Score:    score,
			})
		}
	}

	toCsv(results, *outPtr)
}

func getInstances() []InstanceMetadata {
	instances := make([]InstanceMetadata, 0)
	for _, courses := range []int{10, 20, 40, 80} {
		instances = append(instances,
			InstanceMetadata{Satisfiable: true, Courses: courses, ChainLength: 3},
			InstanceMetadata{Satisfiable: false, Courses: courses, ChainLength: 3},
		)
	}
	return instances
}

// makeInstance builds a deterministic synthetic catalog: 12-unit courses
// with rotating offering patterns, prerequisite chains of the given length,
// every fourth course tagged "REST", plus a specific-course, a units and an
// elective requirement. Unsatisfiable variants add a requirement for a
// course offered only during IAP, which no planned term can host.
func makeInstance(courses, chainLength int, satisfiable bool) (planner.Request, InstanceMetadata) {
	catalog := make(map[string]core.Course, courses)
	for i := range courses {
		id := courseId(i)
		course := core.Course{
			Id:    id,
			Title: fmt.Sprintf("Synthetic Course %d", i),
			Units: 12,
			Level: core.LevelUndergrad,
		}
		switch i % 3 {
		case 0:
			course.TermsOffered = []core.Semester{core.SemesterFall, core.SemesterSpring}
		case 1:
			course.TermsOffered = []core.Semester{core.SemesterFall}
		default:
			course.TermsOffered = []core.Semester{core.SemesterSpring}
		}
		if i%chainLength != 0 {
			course.Prerequisites = []string{courseId(i - 1)}
		}
		if i%4 == 0 {
			course.MeetsRequirements = []string{"REST"}
		}
		rating := 2.5 + float64(i%5)*0.5
		course.StudentRating = &rating
		catalog[id] = course
	}

	requirements := []core.Requirement{
		{Id: "req-first", RuleType: core.RequirementSpecificCourse, CoursesAllowed: []string{courseId(0)}},
		{Id: "req-rest", RuleType: core.RequirementUnits, Category: "REST", UnitsRequired: 24},
		{Id: "req-elective", RuleType: core.RequirementElective},
	}
	if !satisfiable {
		catalog["BM.IAP"] = core.Course{
			Id:           "BM.IAP",
			Title:        "IAP-only Course",
			Units:        12,
			TermsOffered: []core.Semester{core.SemesterIAP},
		}
		requirements = append(requirements, core.Requirement{
			Id:             "req-impossible",
			RuleType:       core.RequirementSpecificCourse,
			CoursesAllowed: []string{"BM.IAP"},
		})
	}

	request := planner.Request{
		Student: core.StudentProfile{
			Id:       "bench-student",
			Year:     1,
			Semester: core.SemesterFall,
		},
		Requirements: requirements,
		Courses:      catalog,
	}

	return request, InstanceMetadata{
		Name:         fmt.Sprintf("chain%d-courses%d-sat%v", chainLength, courses, satisfiable),
		Satisfiable:  satisfiable,
		Courses:      len(catalog),
		Requirements: len(requirements),
		ChainLength:  chainLength,
	}
}

func courseId(i int) string {
	return fmt.Sprintf("BM.%03d", i)
}

func toCsv(results []BenchmarkResult, path string) {
	file, err := os.Create(path)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Backend", "Instance", "Satisfiable", "Courses", "Requirements", "ChainLength", "Duration(ms)", "Result", "Score"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		if err := writer.Write(record(result)); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func record(result BenchmarkResult) []string {
	return []string{
		result.Backend,
		result.Instance.Name,
		fmt.Sprintf("%v", result.Instance.Satisfiable),
		fmt.Sprintf("%d", result.Instance.Courses),
		fmt.Sprintf("%d", result.Instance.Requirements),
		fmt.Sprintf("%d", result.Instance.ChainLength),
		fmt.Sprintf("%d", result.Duration.Milliseconds()),
		resultTypes[result.Result],
		fmt.Sprintf("%.4f", result.Score),
	}
}
