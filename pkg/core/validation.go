package core

// ValidationResult reports everything the validator found wrong (or not)
// with a schedule. is_valid is true exactly when errors is empty; warnings
// never invalidate a schedule on their own.
type ValidationResult struct {
	IsValid               bool            `json:"is_valid" mapstructure:"is_valid"`
	RequirementsSatisfied map[string]bool `json:"requirements_satisfied" mapstructure:"requirements_satisfied"`
	MissingRequirements   []string        `json:"missing_requirements" mapstructure:"missing_requirements"`
	Warnings              []string        `json:"warnings" mapstructure:"warnings"`
	Errors                []string        `json:"errors" mapstructure:"errors"`
	Conflicts             []Conflict      `json:"conflicts" mapstructure:"conflicts"`
}

func (result ValidationResult) HasErrors() bool {
	return len(result.Errors) > 0
}

func (result ValidationResult) HasWarnings() bool {
	return len(result.Warnings) > 0
}
