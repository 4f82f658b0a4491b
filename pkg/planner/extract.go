package planner

import (
	"scheduleadvisor/pkg/core"
	"scheduleadvisor/pkg/solver"
)

// extractSchedule decodes a satisfying assignment back into a schedule.
// Terms come out in horizon order with their courses in sorted-id order;
// terms the assignment left empty are omitted entirely.
func extractSchedule(state constraintState, assignment solver.Assignment) *core.Schedule {
	schedule := &core.Schedule{
		StudentId: state.student.Id,
		Terms:     make([]core.ScheduledTerm, 0, len(state.terms)),
	}

	for term, termId := range state.terms {
		year, semester, err := core.ParseTermID(termId)
		if err != nil {
			continue
		}

		courses := make([]core.ScheduledCourse, 0)
		for course, courseId := range state.courseIds {
			if !assignment.Value(state.indexer.Index(course, term)) {
				continue
			}
			courses = append(courses, core.ScheduledCourse{
				Course:   state.courses[courseId],
				Term:     termId,
				Year:     year,
				Semester: semester,
			})
		}
		if len(courses) == 0 {
			continue
		}
		schedule.Terms = append(schedule.Terms, core.ScheduledTerm{
			Year:     year,
			Semester: semester,
			Courses:  courses,
		})
	}
	return schedule
}
