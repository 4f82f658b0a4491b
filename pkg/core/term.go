package core

import (
	"fmt"
	"strconv"
)

// Semester identifies one of the academic calendar's periods.
type Semester string

const (
	SemesterFall   Semester = "fall"
	SemesterIAP    Semester = "iap"
	SemesterSpring Semester = "spring"
	SemesterSummer Semester = "summer"
)

var semesterCodes = map[Semester]string{
	SemesterFall:   "FA",
	SemesterIAP:    "IA",
	SemesterSpring: "SP",
	SemesterSummer: "SU",
}

// Semesters ordered as they occur within one academic year
var semesterOrder = map[Semester]int{
	SemesterFall:   0,
	SemesterIAP:    1,
	SemesterSpring: 2,
	SemesterSummer: 3,
}

func (semester Semester) Valid() bool {
	_, ok := semesterCodes[semester]
	return ok
}

// Code returns the 2-letter code used inside term identifiers
func (semester Semester) Code() string {
	code, ok := semesterCodes[semester]
	if !ok {
		return "FA"
	}
	return code
}

// Order returns the semester's position within an academic year
func (semester Semester) Order() int {
	order, ok := semesterOrder[semester]
	if !ok {
		return 0
	}
	return order
}

func SemesterFromCode(code string) (Semester, error) {
	for semester, semesterCode := range semesterCodes {
		if semesterCode == code {
			return semester, nil
		}
	}
	return "", fmt.Errorf("unknown semester code %q", code)
}

// TermID formats a (year, semester) pair as an identifier such as "2025FA".
// It is a pure function: ParseTermID inverts it exactly.
func TermID(year int, semester Semester) string {
	return fmt.Sprintf("%d%s", year, semester.Code())
}

// ParseTermID decodes an identifier produced by TermID.
func ParseTermID(id string) (int, Semester, error) {
	if len(id) < 3 {
		return 0, "", fmt.Errorf("malformed term id %q", id)
	}
	year, err := strconv.Atoi(id[:len(id)-2])
	if err != nil {
		return 0, "", fmt.Errorf("malformed term id %q: %v", id, err)
	}
	semester, err := SemesterFromCode(id[len(id)-2:])
	if err != nil {
		return 0, "", fmt.Errorf("malformed term id %q: %v", id, err)
	}
	return year, semester, nil
}

// TermBefore reports whether (year1, semester1) comes strictly before
// (year2, semester2), ordering semesters Fall < IAP < Spring < Summer
// within a year.
func TermBefore(year1 int, semester1 Semester, year2 int, semester2 Semester) bool {
	if year1 != year2 {
		return year1 < year2
	}
	return semester1.Order() < semester2.Order()
}
