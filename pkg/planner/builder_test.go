package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scheduleadvisor/pkg/core"
	"scheduleadvisor/pkg/solver"
)

func catalogOf(courses ...core.Course) map[string]core.Course {
	byId := make(map[string]core.Course, len(courses))
	for _, course := range courses {
		byId[course.Id] = course
	}
	return byId
}

func stateOf(request Request, terms ...string) constraintState {
	return newConstraintState(request, terms, 12, 60)
}

func TestNewConstraintState(t *testing.T) {
	// Arrange
	request := Request{
		Courses: catalogOf(
			core.Course{Id: "6.1010", Units: 12},
			core.Course{Id: "18.01", Units: 12},
			core.Course{Id: "8.01", Units: 12},
		),
	}

	// Act
	state := stateOf(request, "2025FA", "2025SP")

	// Assert: catalog order is sorted and the index mirrors it
	assert.Equal(t, []string{"18.01", "6.1010", "8.01"}, state.courseIds)
	for i, id := range state.courseIds {
		assert.Equal(t, i, state.courseIndex[id])
	}
	assert.Equal(t, int64(12), state.minUnits)
	assert.Equal(t, int64(60), state.maxUnits)
}

func TestTermUnitCap(t *testing.T) {
	scenarios := []struct {
		name        string
		preferences map[string]any
		expected    int64
	}{
		{"No preference falls back", nil, 48},
		{"Integer preference overrides", map[string]any{"max_units_per_term": 24}, 24},
		{"Json numbers decode as float64", map[string]any{"max_units_per_term": 24.0}, 24},
		{"Unparsable preference falls back", map[string]any{"max_units_per_term": "plenty"}, 48},
		{"Non-positive preference falls back", map[string]any{"max_units_per_term": 0}, 48},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			student := core.StudentProfile{Preferences: scenario.preferences}

			assert.Equal(t, scenario.expected, termUnitCap(student, 48))
		})
	}
}

func TestRequirementConstraints(t *testing.T) {
	t.Run("Specific course rule demands one placement", func(t *testing.T) {
		// Arrange
		state := stateOf(Request{
			Courses: catalogOf(
				core.Course{Id: "A", Units: 12},
				core.Course{Id: "B", Units: 12},
			),
			Requirements: []core.Requirement{{
				Id:             "R1",
				RuleType:       core.RequirementSpecificCourse,
				CoursesAllowed: []string{"A", "B"},
			}},
		}, "2025FA", "2025SP")

		// Act
		set := requirementConstraints(state)

		// Assert: one at-least-one constraint over every (course, term) variable
		assert.Len(t, set.linears, 1)
		assert.Empty(t, set.warnings)
		linear := set.linears[0]
		assert.Equal(t, int64(1), linear.Min)
		assert.Equal(t, solver.NoMax, linear.Max)
		assert.Len(t, linear.Terms, 4)
		for _, term := range linear.Terms {
			assert.Equal(t, int64(1), term.Coeff)
		}
	})

	t.Run("Unknown allowed courses warn but the rest is enforced", func(t *testing.T) {
		state := stateOf(Request{
			Courses: catalogOf(core.Course{Id: "A", Units: 12}),
			Requirements: []core.Requirement{{
				Id:             "R1",
				RuleType:       core.RequirementSpecificCourse,
				CoursesAllowed: []string{"A", "GHOST"},
			}},
		}, "2025FA")

		set := requirementConstraints(state)

		assert.Len(t, set.linears, 1)
		assert.Len(t, set.linears[0].Terms, 1)
		assert.Len(t, set.warnings, 1)
		assert.Contains(t, set.warnings[0], "GHOST")
	})

	t.Run("Rule with no satisfiable courses is dropped with a warning", func(t *testing.T) {
		state := stateOf(Request{
			Courses: catalogOf(core.Course{Id: "A", Units: 12}),
			Requirements: []core.Requirement{{
				Id:             "R1",
				RuleType:       core.RequirementSpecificCourse,
				CoursesAllowed: []string{"GHOST"},
			}},
		}, "2025FA")

		set := requirementConstraints(state)

		assert.Empty(t, set.linears)
		assert.Len(t, set.warnings, 2)
		assert.Contains(t, set.warnings[1], "no satisfiable courses")
	})

	t.Run("Category rule sums tagged units across the horizon", func(t *testing.T) {
		// Arrange
		state := stateOf(Request{
			Courses: catalogOf(
				core.Course{Id: "A", Units: 12, MeetsRequirements: []string{"REST"}},
				core.Course{Id: "B", Units: 9},
			),
			Requirements: []core.Requirement{{
				Id:            "R2",
				RuleType:      core.RequirementCategory,
				Category:      "REST",
				UnitsRequired: 24,
			}},
		}, "2025FA", "2025SP")

		// Act
		set := requirementConstraints(state)

		// Assert: only the tagged course contributes, weighted by its units
		assert.Len(t, set.linears, 1)
		linear := set.linears[0]
		assert.Equal(t, int64(24), linear.Min)
		assert.Len(t, linear.Terms, 2)
		for _, term := range linear.Terms {
			assert.Equal(t, int64(12), term.Coeff)
		}
	})

	t.Run("Vacuous units rules impose nothing", func(t *testing.T) {
		state := stateOf(Request{
			Courses: catalogOf(core.Course{Id: "A", Units: 12}),
			Requirements: []core.Requirement{
				{Id: "R3", RuleType: core.RequirementUnits, Category: "REST"},
				{Id: "R4", RuleType: core.RequirementUnits, UnitsRequired: 12},
			},
		}, "2025FA")

		set := requirementConstraints(state)

		assert.Empty(t, set.linears)
		assert.Empty(t, set.warnings)
	})

	t.Run("Category nobody carries warns", func(t *testing.T) {
		state := stateOf(Request{
			Courses: catalogOf(core.Course{Id: "A", Units: 12}),
			Requirements: []core.Requirement{{
				Id:            "R5",
				RuleType:      core.RequirementCategory,
				Category:      "CI-M",
				UnitsRequired: 12,
			}},
		}, "2025FA")

		set := requirementConstraints(state)

		assert.Empty(t, set.linears)
		assert.Len(t, set.warnings, 1)
		assert.Contains(t, set.warnings[0], "CI-M")
	})

	t.Run("Electives impose nothing", func(t *testing.T) {
		state := stateOf(Request{
			Courses:      catalogOf(core.Course{Id: "A", Units: 12}),
			Requirements: []core.Requirement{{Id: "R6", RuleType: core.RequirementElective}},
		}, "2025FA")

		set := requirementConstraints(state)

		assert.Empty(t, set.linears)
		assert.Empty(t, set.warnings)
	})

	t.Run("Unsupported rule types warn", func(t *testing.T) {
		state := stateOf(Request{
			Courses:      catalogOf(core.Course{Id: "A", Units: 12}),
			Requirements: []core.Requirement{{Id: "R7", RuleType: "thesis"}},
		}, "2025FA")

		set := requirementConstraints(state)

		assert.Empty(t, set.linears)
		assert.Len(t, set.warnings, 1)
		assert.Contains(t, set.warnings[0], "thesis")
	})
}

func TestPrerequisiteConstraints(t *testing.T) {
	t.Run("Completed prerequisites are skipped", func(t *testing.T) {
		state := stateOf(Request{
			Student: core.StudentProfile{CompletedCourses: []string{"A"}},
			Courses: catalogOf(
				core.Course{Id: "A", Units: 12},
				core.Course{Id: "B", Units: 12, Prerequisites: []string{"A"}},
			),
		}, "2025FA", "2025SP")

		set := prerequisiteConstraints(state)

		assert.Empty(t, set.linears)
		assert.Empty(t, set.implications)
	})

	t.Run("Prerequisite outside the catalog blocks the course", func(t *testing.T) {
		// Arrange
		state := stateOf(Request{
			Courses: catalogOf(core.Course{Id: "B", Units: 12, Prerequisites: []string{"GHOST"}}),
		}, "2025FA", "2025SP")

		// Act
		set := prerequisiteConstraints(state)

		// Assert: B is pinned to zero in both terms
		assert.Len(t, set.linears, 2)
		for _, linear := range set.linears {
			assert.Equal(t, int64(0), linear.Min)
			assert.Equal(t, int64(0), linear.Max)
		}
		assert.Len(t, set.warnings, 1)
		assert.Contains(t, set.warnings[0], "GHOST")
	})

	t.Run("Placements imply an earlier prerequisite placement", func(t *testing.T) {
		// Arrange: ids sort A before B, three planned terms
		state := stateOf(Request{
			Courses: catalogOf(
				core.Course{Id: "A", Units: 12},
				core.Course{Id: "B", Units: 12, Prerequisites: []string{"A"}},
			),
		}, "2025FA", "2025SP", "2026FA")

		// Act
		set := prerequisiteConstraints(state)

		// Assert: the first term is closed outright
		assert.Equal(t, []solver.Linear{solver.Fix(state.indexer.Index(1, 0), false)}, set.linears)

		// Later terms require A somewhere strictly before
		assert.Equal(t, []solver.Implication{
			{
				If:   state.indexer.Index(1, 1),
				Then: solver.AtLeast([]solver.Term{{Var: state.indexer.Index(0, 0), Coeff: 1}}, 1),
			},
			{
				If: state.indexer.Index(1, 2),
				Then: solver.AtLeast([]solver.Term{
					{Var: state.indexer.Index(0, 0), Coeff: 1},
					{Var: state.indexer.Index(0, 1), Coeff: 1},
				}, 1),
			},
		}, set.implications)
	})
}

func TestOfferingConstraints(t *testing.T) {
	t.Run("Unoffered combinations are pinned to zero", func(t *testing.T) {
		// Arrange
		state := stateOf(Request{
			Courses: catalogOf(
				core.Course{Id: "A", Units: 12},
				core.Course{Id: "B", Units: 12},
			),
			Offerings: map[string][]string{
				"2025FA": {"A"},
				"2025SP": {"A", "B"},
			},
		}, "2025FA", "2025SP")

		// Act
		set := offeringConstraints(state)

		// Assert: only B in Fall is closed
		assert.Equal(t, []solver.Linear{solver.Fix(state.indexer.Index(1, 0), false)}, set.linears)
		assert.Empty(t, set.warnings)
	})

	t.Run("Terms with no offerings data allow nothing", func(t *testing.T) {
		state := stateOf(Request{
			Courses:   catalogOf(core.Course{Id: "A", Units: 12}),
			Offerings: map[string][]string{},
		}, "2025FA", "2025SP")

		set := offeringConstraints(state)

		assert.Len(t, set.linears, 2)
	})

	t.Run("Offered courses missing from the catalog warn", func(t *testing.T) {
		state := stateOf(Request{
			Courses:   catalogOf(core.Course{Id: "A", Units: 12}),
			Offerings: map[string][]string{"2025FA": {"A", "GHOST"}},
		}, "2025FA")

		set := offeringConstraints(state)

		assert.Empty(t, set.linears)
		assert.Len(t, set.warnings, 1)
		assert.Contains(t, set.warnings[0], "GHOST")
	})
}

func TestUnitLoadConstraints(t *testing.T) {
	t.Run("Ceiling always holds and the floor is conditional", func(t *testing.T) {
		// Arrange
		state := stateOf(Request{
			Courses: catalogOf(
				core.Course{Id: "A", Units: 12},
				core.Course{Id: "B", Units: 9},
			),
			Offerings: map[string][]string{"2025FA": {"A", "B"}},
		}, "2025FA")

		// Act
		set := unitLoadConstraints(state)

		// Assert: one ceiling plus one floor implication per offered course
		assert.Len(t, set.linears, 1)
		assert.Equal(t, solver.NoMin, set.linears[0].Min)
		assert.Equal(t, int64(60), set.linears[0].Max)
		assert.Len(t, set.linears[0].Terms, 2)

		assert.Len(t, set.implications, 2)
		for _, implication := range set.implications {
			assert.Equal(t, int64(12), implication.Then.Min)
			assert.Equal(t, solver.NoMax, implication.Then.Max)
		}
	})

	t.Run("Preference overrides the ceiling", func(t *testing.T) {
		state := stateOf(Request{
			Student: core.StudentProfile{
				Preferences: map[string]any{"max_units_per_term": 24},
			},
			Courses:   catalogOf(core.Course{Id: "A", Units: 12}),
			Offerings: map[string][]string{"2025FA": {"A"}},
		}, "2025FA")

		set := unitLoadConstraints(state)

		assert.Equal(t, int64(24), set.linears[0].Max)
	})

	t.Run("Terms offering nothing carry no bounds", func(t *testing.T) {
		state := stateOf(Request{
			Courses:   catalogOf(core.Course{Id: "A", Units: 12}),
			Offerings: map[string][]string{"2025FA": {"A"}},
		}, "2025FA", "2025SP")

		set := unitLoadConstraints(state)

		assert.Len(t, set.linears, 1)
		assert.Len(t, set.implications, 1)
	})
}

func TestSingleAssignmentConstraints(t *testing.T) {
	// Arrange
	state := stateOf(Request{
		Courses: catalogOf(
			core.Course{Id: "A", Units: 12},
			core.Course{Id: "B", Units: 12},
		),
	}, "2025FA", "2025SP", "2026FA")

	// Act
	set := singleAssignmentConstraints(state)

	// Assert: one at-most-one constraint per course over its term variables
	assert.Len(t, set.linears, 2)
	for _, linear := range set.linears {
		assert.Equal(t, solver.NoMin, linear.Min)
		assert.Equal(t, int64(1), linear.Max)
		assert.Len(t, linear.Terms, 3)
	}
}

func TestPinnedCourseConstraints(t *testing.T) {
	t.Run("Pins force the placement", func(t *testing.T) {
		// Arrange
		state := stateOf(Request{
			Courses: catalogOf(core.Course{Id: "A", Units: 12}),
			Fixed:   map[string][]string{"2025SP": {"A"}},
		}, "2025FA", "2025SP")

		// Act
		set := pinnedCourseConstraints(state)

		// Assert
		assert.Equal(t, []solver.Linear{solver.Fix(state.indexer.Index(0, 1), true)}, set.linears)
		assert.Empty(t, set.warnings)
	})

	t.Run("Pins outside the horizon warn and drop", func(t *testing.T) {
		state := stateOf(Request{
			Courses: catalogOf(core.Course{Id: "A", Units: 12}),
			Fixed:   map[string][]string{"2031FA": {"A"}},
		}, "2025FA")

		set := pinnedCourseConstraints(state)

		assert.Empty(t, set.linears)
		assert.Len(t, set.warnings, 1)
		assert.Contains(t, set.warnings[0], "2031FA")
	})

	t.Run("Pins for unknown courses warn and drop", func(t *testing.T) {
		state := stateOf(Request{
			Courses: catalogOf(core.Course{Id: "A", Units: 12}),
			Fixed:   map[string][]string{"2025FA": {"GHOST"}},
		}, "2025FA")

		set := pinnedCourseConstraints(state)

		assert.Empty(t, set.linears)
		assert.Len(t, set.warnings, 1)
		assert.Contains(t, set.warnings[0], "GHOST")
	})
}

func TestBuildModelIsDeterministic(t *testing.T) {
	// Arrange: a request touching every constraint group
	request := Request{
		Student: core.StudentProfile{CompletedCourses: []string{"18.01"}},
		Courses: catalogOf(
			core.Course{Id: "18.01", Units: 12},
			core.Course{Id: "18.02", Units: 12, Prerequisites: []string{"18.01"}},
			core.Course{Id: "8.02", Units: 12, Prerequisites: []string{"8.01"}, MeetsRequirements: []string{"REST"}},
		),
		Requirements: []core.Requirement{
			{Id: "R1", RuleType: core.RequirementSpecificCourse, CoursesAllowed: []string{"18.02"}},
			{Id: "R2", RuleType: core.RequirementCategory, Category: "REST", UnitsRequired: 12},
		},
		Offerings: map[string][]string{
			"2025FA": {"18.02", "8.02"},
			"2025SP": {"18.02", "8.02"},
		},
		Fixed: map[string][]string{"2025SP": {"18.02"}},
	}
	state := stateOf(request, "2025FA", "2025SP")

	// Act: the groups run concurrently yet collect into declaration order
	first, firstWarnings := buildModel(state)
	second, secondWarnings := buildModel(state)

	// Assert
	assert.Equal(t, first, second)
	assert.Equal(t, firstWarnings, secondWarnings)
	assert.Equal(t, len(state.courseIds)*len(state.terms), first.Vars)

	// 8.01 is absent from the catalog, so 8.02 cannot be placed
	assert.Len(t, firstWarnings, 1)
	assert.Contains(t, firstWarnings[0], "8.01")
}
