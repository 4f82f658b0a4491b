package planner

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"

	"scheduleadvisor/pkg/core"
	"scheduleadvisor/pkg/solver"
)

// constraintState is the read-only instance every constraint group works
// from: the request data plus the derived sorted catalog order, the planned
// horizon and the resolved unit band.
type constraintState struct {
	student      core.StudentProfile
	requirements []core.Requirement
	courses      map[string]core.Course
	offerings    map[string][]string
	fixed        map[string][]string

	terms       []string
	courseIds   []string
	courseIndex map[string]int
	indexer     Indexer

	minUnits,
	maxUnits int64
}

func newConstraintState(request Request, terms []string, minUnits, maxUnits int64) constraintState {
	courseIds := lo.Keys(request.Courses)
	slices.Sort(courseIds)

	courseIndex := make(map[string]int, len(courseIds))
	for i, id := range courseIds {
		courseIndex[id] = i
	}

	return constraintState{
		student:      request.Student,
		requirements: request.Requirements,
		courses:      request.Courses,
		offerings:    request.Offerings,
		fixed:        request.Fixed,
		terms:        terms,
		courseIds:    courseIds,
		courseIndex:  courseIndex,
		indexer:      NewIndexer(len(courseIds), len(terms)),
		minUnits:     minUnits,
		maxUnits:     termUnitCap(request.Student, maxUnits),
	}
}

// termUnitCap resolves the per-term unit ceiling: an explicit
// "max_units_per_term" preference overrides the configured cap.
func termUnitCap(student core.StudentProfile, fallback int64) int64 {
	if preference, ok := student.Preferences["max_units_per_term"]; ok {
		if cap := cast.ToInt64(preference); cap > 0 {
			return cap
		}
	}
	return fallback
}

// constraintSet is what one constraint group contributes to the model.
type constraintSet struct {
	linears      []solver.Linear
	implications []solver.Implication
	warnings     []string
}

// buildModel assembles the full boolean model for one request: one variable
// per (course, term) combination plus every constraint group. Groups run on
// their own goroutines and are collected back in a fixed order, so the
// resulting model is deterministic for a given state.
func buildModel(state constraintState) (*solver.Model, []string) {
	model := &solver.Model{Vars: len(state.courseIds) * len(state.terms)}

	constraints := []func(state constraintState) constraintSet{
		requirementConstraints,
		prerequisiteConstraints,
		offeringConstraints,
		unitLoadConstraints,
		singleAssignmentConstraints,
		pinnedCourseConstraints,
	}

	type indexedSet struct {
		position int
		set      constraintSet
	}
	setsChannel := make(chan indexedSet) // Channel to collect constraint sets

	// Execute constraint functions on different goroutines to improve performance
	for i, constraint := range constraints {
		go func(position int, constraint func(state constraintState) constraintSet) {
			setsChannel <- indexedSet{position: position, set: constraint(state)}
		}(i, constraint)
	}

	// Collect generated constraints back into declaration order
	sets := make([]constraintSet, len(constraints))
	for range constraints {
		collected := <-setsChannel
		sets[collected.position] = collected.set
	}

	warnings := make([]string, 0)
	for _, set := range sets {
		model.Linears = append(model.Linears, set.linears...)
		model.Implications = append(model.Implications, set.implications...)
		warnings = append(warnings, set.warnings...)
	}
	return model, warnings
}

// requirementConstraints covers the degree rules. A specific_course rule
// demands at least one allowed course somewhere in the horizon; a
// units/category rule demands enough tagged units across the horizon;
// elective rules impose nothing.
func requirementConstraints(state constraintState) constraintSet {
	set := constraintSet{}

	for _, requirement := range state.requirements {
		switch requirement.RuleType {
		case core.RequirementSpecificCourse:
			unknown := lo.Filter(requirement.CoursesAllowed, func(courseId string, _ int) bool {
				_, ok := state.courseIndex[courseId]
				return !ok
			})
			if len(unknown) > 0 {
				set.warnings = append(set.warnings, fmt.Sprintf("requirement %v references unknown courses: %v", requirement.Id, strings.Join(unknown, ", ")))
			}

			terms := make([]solver.Term, 0)
			for _, courseId := range requirement.CoursesAllowed {
				course, ok := state.courseIndex[courseId]
				if !ok {
					continue
				}
				for term := range state.terms {
					terms = append(terms, solver.Term{Var: state.indexer.Index(course, term), Coeff: 1})
				}
			}
			if len(terms) == 0 {
				set.warnings = append(set.warnings, fmt.Sprintf("requirement %v has no satisfiable courses and was not enforced", requirement.Id))
				continue
			}
			set.linears = append(set.linears, solver.AtLeast(terms, 1))

		case core.RequirementCategory, core.RequirementUnits:
			if requirement.Category == "" || requirement.UnitsRequired <= 0 {
				continue
			}

			terms := make([]solver.Term, 0)
			for _, courseId := range state.courseIds {
				course := state.courses[courseId]
				if !lo.Contains(course.MeetsRequirements, requirement.Category) {
					continue
				}
				for term := range state.terms {
					terms = append(terms, solver.Term{
						Var:   state.indexer.Index(state.courseIndex[courseId], term),
						Coeff: int64(course.Units),
					})
				}
			}
			if len(terms) == 0 {
				set.warnings = append(set.warnings, fmt.Sprintf("requirement %v: no catalog course carries category %q, rule not enforced", requirement.Id, requirement.Category))
				continue
			}
			set.linears = append(set.linears, solver.AtLeast(terms, int64(requirement.UnitsRequired)))

		case core.RequirementElective:
			// Electives are declared but impose no constraint

		default:
			set.warnings = append(set.warnings, fmt.Sprintf("requirement %v has unsupported rule type %q", requirement.Id, requirement.RuleType))
		}
	}
	return set
}

// prerequisiteConstraints forces every prerequisite to be either already
// completed or placed in a strictly earlier term. A course whose
// prerequisite is missing from the catalog entirely cannot be placed at all.
func prerequisiteConstraints(state constraintState) constraintSet {
	set := constraintSet{}

	for course, courseId := range state.courseIds {
		for _, prerequisiteId := range state.courses[courseId].Prerequisites {
			if state.student.Completed(prerequisiteId) {
				continue
			}

			prerequisite, ok := state.courseIndex[prerequisiteId]
			if !ok {
				for term := range state.terms {
					set.linears = append(set.linears, solver.Fix(state.indexer.Index(course, term), false))
				}
				set.warnings = append(set.warnings, fmt.Sprintf("course %v requires %v which is not in the catalog", courseId, prerequisiteId))
				continue
			}

			for term := range state.terms {
				if term == 0 {
					// Nothing can precede the first term
					set.linears = append(set.linears, solver.Fix(state.indexer.Index(course, 0), false))
					continue
				}
				prior := make([]solver.Term, 0, term)
				for earlier := range term {
					prior = append(prior, solver.Term{Var: state.indexer.Index(prerequisite, earlier), Coeff: 1})
				}
				set.implications = append(set.implications, solver.Implication{
					If:   state.indexer.Index(course, term),
					Then: solver.AtLeast(prior, 1),
				})
			}
		}
	}
	return set
}

// offeringConstraints pins every (course, term) combination the offerings
// feed does not list to zero. A term with no offerings entry at all allows
// nothing to be scheduled in it.
func offeringConstraints(state constraintState) constraintSet {
	set := constraintSet{}

	for term, termId := range state.terms {
		offered := make(map[string]bool, len(state.offerings[termId]))
		unknown := make([]string, 0)
		for _, courseId := range state.offerings[termId] {
			if _, ok := state.courseIndex[courseId]; !ok {
				unknown = append(unknown, courseId)
				continue
			}
			offered[courseId] = true
		}
		if len(unknown) > 0 {
			set.warnings = append(set.warnings, fmt.Sprintf("term %v offers unknown courses: %v", termId, strings.Join(unknown, ", ")))
		}

		for course, courseId := range state.courseIds {
			if !offered[courseId] {
				set.linears = append(set.linears, solver.Fix(state.indexer.Index(course, term), false))
			}
		}
	}
	return set
}

// unitLoadConstraints bounds each term's unit load. The ceiling always
// holds; the floor holds only for terms that end up non-empty, expressed as
// an implication from each offered course's variable. Terms where nothing
// is offered carry no bounds: they are forced empty by the offering
// constraints anyway.
func unitLoadConstraints(state constraintState) constraintSet {
	set := constraintSet{}

	for term, termId := range state.terms {
		load := make([]solver.Term, 0)
		guards := make([]int, 0)
		for _, courseId := range state.offerings[termId] {
			course, ok := state.courseIndex[courseId]
			if !ok {
				continue
			}
			variable := state.indexer.Index(course, term)
			load = append(load, solver.Term{Var: variable, Coeff: int64(state.courses[courseId].Units)})
			guards = append(guards, variable)
		}
		if len(load) == 0 {
			continue
		}

		set.linears = append(set.linears, solver.AtMost(load, state.maxUnits))
		for _, guard := range guards {
			set.implications = append(set.implications, solver.Implication{
				If:   guard,
				Then: solver.AtLeast(load, state.minUnits),
			})
		}
	}
	return set
}

// singleAssignmentConstraints keeps every course in at most one term.
func singleAssignmentConstraints(state constraintState) constraintSet {
	set := constraintSet{}

	for course := range state.courseIds {
		terms := make([]solver.Term, 0, len(state.terms))
		for term := range state.terms {
			terms = append(terms, solver.Term{Var: state.indexer.Index(course, term), Coeff: 1})
		}
		if len(terms) == 0 {
			continue
		}
		set.linears = append(set.linears, solver.AtMost(terms, 1))
	}
	return set
}

// pinnedCourseConstraints forces explicitly requested placements. Pins
// referencing unknown terms or courses warn and drop; a pin that collides
// with the offering constraints simply renders the model infeasible.
func pinnedCourseConstraints(state constraintState) constraintSet {
	set := constraintSet{}

	termIndex := make(map[string]int, len(state.terms))
	for i, id := range state.terms {
		termIndex[id] = i
	}

	termIds := lo.Keys(state.fixed)
	slices.Sort(termIds)
	for _, termId := range termIds {
		term, ok := termIndex[termId]
		if !ok {
			set.warnings = append(set.warnings, fmt.Sprintf("pinned term %v is outside the planning horizon", termId))
			continue
		}
		for _, courseId := range state.fixed[termId] {
			course, ok := state.courseIndex[courseId]
			if !ok {
				set.warnings = append(set.warnings, fmt.Sprintf("pinned course %v is not in the catalog", courseId))
				continue
			}
			set.linears = append(set.linears, solver.Fix(state.indexer.Index(course, term), true))
		}
	}
	return set
}
