package core

import (
	"slices"

	"github.com/samber/lo"
)

// ScheduledCourse places one catalog course into one concrete term.
type ScheduledCourse struct {
	Course       Course        `json:"course" mapstructure:"course"`
	Term         string        `json:"term" mapstructure:"term"`
	Year         int           `json:"year" mapstructure:"year"`
	Semester     Semester      `json:"semester" mapstructure:"semester"`
	MeetingTimes []MeetingTime `json:"meeting_times" mapstructure:"meeting_times"`
	Instructor   string        `json:"instructor,omitempty" mapstructure:"instructor"`
	Section      string        `json:"section,omitempty" mapstructure:"section"`
}

// HasTimeConflict reports whether two placements share a term and any pair
// of their meetings collides. Courses in different terms never conflict.
func (scheduled ScheduledCourse) HasTimeConflict(other ScheduledCourse) bool {
	if scheduled.Term != other.Term {
		return false
	}
	return lo.SomeBy(scheduled.MeetingTimes, func(meeting MeetingTime) bool {
		return lo.SomeBy(other.MeetingTimes, meeting.ConflictsWith)
	})
}

// Conflict records one colliding pair of courses within a term.
type Conflict struct {
	Term    string    `json:"term" mapstructure:"term"`
	Courses [2]string `json:"courses" mapstructure:"courses"`
}

// ScheduledTerm is every course placed into a single term.
type ScheduledTerm struct {
	Year     int               `json:"year" mapstructure:"year"`
	Semester Semester          `json:"semester" mapstructure:"semester"`
	Courses  []ScheduledCourse `json:"courses" mapstructure:"courses"`
}

func (term ScheduledTerm) TermID() string {
	return TermID(term.Year, term.Semester)
}

func (term ScheduledTerm) TotalUnits() int {
	return lo.Reduce(term.Courses, func(total int, scheduled ScheduledCourse, _ int) int {
		return total + scheduled.Course.Units
	}, 0)
}

// Conflicts returns one entry per colliding pair of courses in the term.
func (term ScheduledTerm) Conflicts() []Conflict {
	conflicts := make([]Conflict, 0)
	for i := range len(term.Courses) - 1 {
		for j := i + 1; j < len(term.Courses); j++ {
			if term.Courses[i].HasTimeConflict(term.Courses[j]) {
				conflicts = append(conflicts, Conflict{
					Term:    term.TermID(),
					Courses: [2]string{term.Courses[i].Course.Id, term.Courses[j].Course.Id},
				})
			}
		}
	}
	return conflicts
}

// Schedule is a complete multi-term plan. Terms with no courses are never
// present: the extractor omits them instead of emitting empty ones.
type Schedule struct {
	StudentId string          `json:"student_id" mapstructure:"student_id"`
	Terms     []ScheduledTerm `json:"terms" mapstructure:"terms"`
}

func (schedule Schedule) TotalUnits() int {
	return lo.Reduce(schedule.Terms, func(total int, term ScheduledTerm, _ int) int {
		return total + term.TotalUnits()
	}, 0)
}

// CourseIds lists every course id present anywhere in the schedule, in term
// order.
func (schedule Schedule) CourseIds() []string {
	ids := make([]string, 0)
	for _, term := range schedule.Terms {
		for _, scheduled := range term.Courses {
			ids = append(ids, scheduled.Course.Id)
		}
	}
	return ids
}

// Term returns the scheduled term matching (year, semester), or nil.
func (schedule Schedule) Term(year int, semester Semester) *ScheduledTerm {
	for i, term := range schedule.Terms {
		if term.Year == year && term.Semester == semester {
			return &schedule.Terms[i]
		}
	}
	return nil
}

// CoursesBefore lists the ids of every course placed strictly before
// (year, semester). Together with a completed-courses set this is the basis
// for deciding whether a prerequisite is satisfied as of a term.
func (schedule Schedule) CoursesBefore(year int, semester Semester) []string {
	prior := make([]string, 0)
	for _, term := range schedule.Terms {
		if TermBefore(term.Year, term.Semester, year, semester) {
			for _, scheduled := range term.Courses {
				prior = append(prior, scheduled.Course.Id)
			}
		}
	}
	return prior
}

// OfferingsForTerms derives a term id -> offered course ids mapping from the
// catalog's per-semester offering data, for callers without a live per-term
// offerings feed. Course ids are emitted in sorted order.
func OfferingsForTerms(courses map[string]Course, termIds []string) map[string][]string {
	offerings := make(map[string][]string, len(termIds))

	courseIds := lo.Keys(courses)
	slices.Sort(courseIds)

	for _, termId := range termIds {
		_, semester, err := ParseTermID(termId)
		if err != nil {
			continue
		}
		offered := lo.Filter(courseIds, func(courseId string, _ int) bool {
			return courses[courseId].OfferedIn(semester)
		})
		offerings[termId] = offered
	}
	return offerings
}
