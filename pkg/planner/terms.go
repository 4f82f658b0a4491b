package planner

import (
	"scheduleadvisor/pkg/core"
)

// planCycle is the semester rotation a planning horizon walks through.
// Summer sessions are never planned.
var planCycle = []core.Semester{core.SemesterFall, core.SemesterIAP, core.SemesterSpring}

// PlanTerms lays out the future term ids for a student, walking the
// Fall→IAP→Spring cycle starting from the student's current semester.
// Every slot consumes horizon budget but IAP slots emit no plannable term,
// so the result is shorter than horizon. Term years follow the
// academic-year convention: a Spring keeps the year label of the Fall
// preceding it. A summer (or unrecognized) current semester starts the
// walk at Fall.
func PlanTerms(year int, current core.Semester, horizon int, baseYear int) []string {
	position := 0
	for i, semester := range planCycle {
		if semester == current {
			position = i
			break
		}
	}

	terms := make([]string, 0, horizon)
	for range horizon {
		semester := planCycle[position]
		if semester != core.SemesterIAP {
			terms = append(terms, core.TermID(baseYear+year, semester))
		}
		position++
		if position == len(planCycle) {
			position = 0
			year++
		}
	}
	return terms
}
