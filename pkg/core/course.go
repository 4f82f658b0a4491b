package core

import "github.com/samber/lo"

// CourseLevel distinguishes undergraduate, graduate and mixed offerings.
type CourseLevel string

const (
	LevelUndergrad CourseLevel = "U"
	LevelGrad      CourseLevel = "G"
	LevelBoth      CourseLevel = "U/G"
)

// Course is an immutable catalog entry. Instances are supplied by the
// catalog collaborators and never mutated by the engine.
type Course struct {
	Id            string      `json:"id" mapstructure:"id" validate:"required"`
	Title         string      `json:"title" mapstructure:"title"`
	Description   string      `json:"description" mapstructure:"description"`
	Units         int         `json:"units" mapstructure:"units" validate:"gte=0"`
	Level         CourseLevel `json:"level" mapstructure:"level"`
	Prerequisites []string    `json:"prerequisites" mapstructure:"prerequisites"`
	Corequisites  []string    `json:"corequisites" mapstructure:"corequisites"`
	TermsOffered  []Semester  `json:"terms_offered" mapstructure:"terms_offered"`
	// Requirement tags the course satisfies (e.g. "REST", "CI-M")
	MeetsRequirements []string `json:"meets_requirements" mapstructure:"meets_requirements"`
	Department        string   `json:"department" mapstructure:"department"`

	DifficultyRating    *float64 `json:"difficulty_rating,omitempty" mapstructure:"difficulty_rating"`
	TimeCommitmentHours *float64 `json:"time_commitment_hours,omitempty" mapstructure:"time_commitment_hours"`
	StudentRating       *float64 `json:"student_rating,omitempty" mapstructure:"student_rating"`
}

// OfferedIn reports whether the course is cataloged as offered during the
// given semester. A course with no terms_offered data reports false for
// every semester; callers deciding how to treat missing data must check
// len(TermsOffered) themselves.
func (course Course) OfferedIn(semester Semester) bool {
	return lo.Contains(course.TermsOffered, semester)
}

// RequirementType discriminates the degree-requirement rule variants.
// "category" and "units" are the same variant on the wire: both carry a
// category tag plus a unit threshold.
type RequirementType string

const (
	RequirementSpecificCourse RequirementType = "specific_course"
	RequirementCategory       RequirementType = "category"
	RequirementUnits          RequirementType = "units"
	RequirementElective       RequirementType = "elective"
)

// Requirement is one degree rule a schedule must cover.
type Requirement struct {
	Id          string          `json:"id" mapstructure:"id" validate:"required"`
	Major       string          `json:"major" mapstructure:"major"`
	Description string          `json:"description" mapstructure:"description"`
	RuleType    RequirementType `json:"rule_type" mapstructure:"rule_type" validate:"oneof=specific_course category units elective"`

	CoursesAllowed []string `json:"courses_allowed" mapstructure:"courses_allowed"`

	Category        string `json:"category" mapstructure:"category"`
	UnitsRequired   int    `json:"units_required" mapstructure:"units_required" validate:"gte=0"`
	CoursesRequired int    `json:"courses_required" mapstructure:"courses_required" validate:"gte=0"`

	Metadata map[string]any `json:"metadata" mapstructure:"metadata"`
}

// StudentProfile carries a student's standing, history and preferences.
type StudentProfile struct {
	Id       string   `json:"id" mapstructure:"id" validate:"required"`
	Name     string   `json:"name" mapstructure:"name"`
	Major    string   `json:"major" mapstructure:"major"`
	Minor    string   `json:"minor" mapstructure:"minor"`
	Year     int      `json:"year" mapstructure:"year" validate:"gte=1,lte=5"`
	Semester Semester `json:"semester" mapstructure:"semester"`

	CompletedCourses  []string `json:"completed_courses" mapstructure:"completed_courses"`
	InProgressCourses []string `json:"in_progress_courses" mapstructure:"in_progress_courses"`

	// Free-form preferences; "max_units_per_term" overrides the configured cap
	Preferences map[string]any `json:"preferences" mapstructure:"preferences"`

	// Named optimization weights in [0,1]
	OptimizationWeights map[string]float64 `json:"optimization_weights" mapstructure:"optimization_weights"`
}

func (profile StudentProfile) Completed(courseId string) bool {
	return lo.Contains(profile.CompletedCourses, courseId)
}

// Weights returns the profile's optimization weights, falling back to the
// defaults when none were supplied.
func (profile StudentProfile) Weights() map[string]float64 {
	if len(profile.OptimizationWeights) == 0 {
		return DefaultOptimizationWeights()
	}
	return profile.OptimizationWeights
}

func DefaultOptimizationWeights() map[string]float64 {
	return map[string]float64{
		"minimize_mornings": 0.5,
		"balance_workload":  0.8,
		"front_load_major":  0.3,
		"maximize_ratings":  0.6,
	}
}
