package planner

import (
	"math"

	"scheduleadvisor/pkg/solver"
)

// composeObjective turns the maximize_ratings weight into solver objective
// terms: every variable of a rated course earns round(rating*100) *
// round(weight*100). The remaining optimization weights are accepted but
// contribute nothing to the objective; workload balance in particular is
// measured after the fact by Score.
func composeObjective(state constraintState, weights map[string]float64) []solver.Term {
	weight, ok := weights["maximize_ratings"]
	if !ok {
		weight = 0.5
	}
	scaledWeight := int64(math.Round(weight * 100))
	if scaledWeight == 0 {
		return nil
	}

	terms := make([]solver.Term, 0)
	for course, courseId := range state.courseIds {
		rating := state.courses[courseId].StudentRating
		if rating == nil {
			continue
		}
		coeff := int64(math.Round(*rating*100)) * scaledWeight
		if coeff == 0 {
			continue
		}
		for term := range state.terms {
			terms = append(terms, solver.Term{Var: state.indexer.Index(course, term), Coeff: coeff})
		}
	}
	return terms
}
