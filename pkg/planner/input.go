package planner

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"scheduleadvisor/pkg/core"
)

var inputValidator = validator.New()

// RawInput is the wire shape of a plan-input file: the student, the course
// catalog as a list, the degree requirements and optionally per-term
// offerings and pinned placements.
type RawInput struct {
	Student      core.StudentProfile `mapstructure:"student" validate:"required"`
	Courses      []core.Course       `mapstructure:"courses" validate:"dive"`
	Requirements []core.Requirement  `mapstructure:"requirements" validate:"dive"`
	Offerings    map[string][]string `mapstructure:"offerings"`
	Fixed        map[string][]string `mapstructure:"fixed_courses"`
}

// InputFromJson loads a plan-input file into a generation request.
func InputFromJson(file string) (Request, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Request{}, err
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Request{}, err
	}

	var rawInput RawInput
	if err := mapstructure.Decode(inputJson, &rawInput); err != nil {
		return Request{}, err
	}
	return ProcessRawInput(rawInput)
}

// ProcessRawInput validates a raw input and turns its course list into the
// keyed catalog a request carries.
func ProcessRawInput(rawInput RawInput) (Request, error) {
	if err := inputValidator.Struct(rawInput); err != nil {
		return Request{}, fmt.Errorf("invalid plan input: %w", err)
	}

	courses := make(map[string]core.Course, len(rawInput.Courses))
	for _, course := range rawInput.Courses {
		if _, ok := courses[course.Id]; ok {
			return Request{}, fmt.Errorf("duplicate course %q in catalog", course.Id)
		}
		courses[course.Id] = course
	}

	return Request{
		Student:      rawInput.Student,
		Requirements: rawInput.Requirements,
		Courses:      courses,
		Offerings:    rawInput.Offerings,
		Fixed:        rawInput.Fixed,
	}, nil
}
