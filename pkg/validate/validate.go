package validate

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"scheduleadvisor/pkg/core"
)

// Recommended per-term load band used when Options leaves it unset
const (
	defaultRecommendedMin = 36
	defaultRecommendedMax = 60
)

// Options tunes one validation pass. CompletedCourses supplies coursework
// finished before the schedule begins, so prerequisites covered by history
// do not raise errors; nil means no history is credited. Zero band values
// fall back to the recommended load band.
type Options struct {
	CompletedCourses []string
	MinUnitsPerTerm  int
	MaxUnitsPerTerm  int
}

// Schedule checks a schedule against the degree requirements and the
// catalog, independently of how the schedule was produced. It always
// returns a result, never an error: every problem found lands in the
// result's errors, warnings or conflicts. An empty schedule is processed
// like any other.
func Schedule(schedule core.Schedule, requirements []core.Requirement, courses map[string]core.Course, opts Options) core.ValidationResult {
	result := core.ValidationResult{
		RequirementsSatisfied: make(map[string]bool, len(requirements)),
		MissingRequirements:   make([]string, 0),
		Warnings:              make([]string, 0),
		Errors:                make([]string, 0),
		Conflicts:             make([]core.Conflict, 0),
	}

	minUnits, maxUnits := opts.MinUnitsPerTerm, opts.MaxUnitsPerTerm
	if minUnits == 0 {
		minUnits = defaultRecommendedMin
	}
	if maxUnits == 0 {
		maxUnits = defaultRecommendedMax
	}

	scheduled := make(map[string]bool)
	for _, courseId := range schedule.CourseIds() {
		scheduled[courseId] = true
	}

	//** Degree requirements
	for _, requirement := range requirements {
		satisfied, warnings := checkRequirement(requirement, schedule, scheduled, courses)
		result.Warnings = append(result.Warnings, warnings...)
		result.RequirementsSatisfied[requirement.Id] = satisfied
		if !satisfied {
			result.MissingRequirements = append(result.MissingRequirements, requirement.Id)
			result.Errors = append(result.Errors, fmt.Sprintf("requirement %v is not satisfied", requirement.Id))
		}
	}

	//** Per-term checks
	for _, term := range schedule.Terms {
		termId := term.TermID()

		prior := append(schedule.CoursesBefore(term.Year, term.Semester), opts.CompletedCourses...)
		for _, placed := range term.Courses {
			course := placed.Course
			for _, prerequisite := range course.Prerequisites {
				if !lo.Contains(prior, prerequisite) {
					result.Errors = append(result.Errors, fmt.Sprintf("course %v in term %v requires %v first", course.Id, termId, prerequisite))
				}
			}
			// A course with no terms_offered data is treated as unknown, not wrong
			if len(course.TermsOffered) > 0 && !course.OfferedIn(term.Semester) {
				result.Errors = append(result.Errors, fmt.Sprintf("course %v is not offered in %v", course.Id, termId))
			}
		}

		conflicts := term.Conflicts()
		if len(conflicts) > 0 {
			result.Conflicts = append(result.Conflicts, conflicts...)
			result.Errors = append(result.Errors, fmt.Sprintf("term %v has conflicting meeting times", termId))
		}

		units := term.TotalUnits()
		if units < minUnits {
			result.Warnings = append(result.Warnings, fmt.Sprintf("light course load in %v: %d units", termId, units))
		} else if units > maxUnits {
			result.Warnings = append(result.Warnings, fmt.Sprintf("heavy course load in %v: %d units", termId, units))
		}
	}

	result.IsValid = !result.HasErrors()
	return result
}

// checkRequirement evaluates one degree rule over the scheduled courses.
func checkRequirement(requirement core.Requirement, schedule core.Schedule, scheduled map[string]bool, courses map[string]core.Course) (bool, []string) {
	switch requirement.RuleType {
	case core.RequirementSpecificCourse:
		var warnings []string
		unknown := lo.Filter(requirement.CoursesAllowed, func(courseId string, _ int) bool {
			_, ok := courses[courseId]
			return !ok
		})
		if len(unknown) > 0 {
			warnings = append(warnings, fmt.Sprintf("requirement %v references unknown courses: %v", requirement.Id, strings.Join(unknown, ", ")))
		}
		satisfied := lo.SomeBy(requirement.CoursesAllowed, func(courseId string) bool {
			return scheduled[courseId]
		})
		return satisfied, warnings

	case core.RequirementCategory, core.RequirementUnits:
		total := 0
		for _, term := range schedule.Terms {
			for _, placed := range term.Courses {
				if lo.Contains(placed.Course.MeetsRequirements, requirement.Category) {
					total += placed.Course.Units
				}
			}
		}
		return total >= requirement.UnitsRequired, nil

	case core.RequirementElective:
		// Electives constrain nothing at generation time, so they verify clean
		return true, nil

	default:
		return false, []string{fmt.Sprintf("requirement %v has unsupported rule type %q", requirement.Id, requirement.RuleType)}
	}
}
