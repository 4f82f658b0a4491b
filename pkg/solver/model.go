package solver

import (
	"fmt"
	"math"
	"strings"
)

// Bound sentinels for Linear. A Linear with Min == NoMin has no lower bound,
// one with Max == NoMax has no upper bound.
const (
	NoMin int64 = math.MinInt64
	NoMax int64 = math.MaxInt64
)

// Term is one weighted boolean variable inside a linear expression.
type Term struct {
	Var   int
	Coeff int64
}

// Linear bounds a weighted sum of boolean variables: Min <= sum <= Max.
type Linear struct {
	Terms []Term
	Min   int64
	Max   int64
}

func AtLeast(terms []Term, min int64) Linear {
	return Linear{Terms: terms, Min: min, Max: NoMax}
}

func AtMost(terms []Term, max int64) Linear {
	return Linear{Terms: terms, Min: NoMin, Max: max}
}

func Between(terms []Term, min, max int64) Linear {
	return Linear{Terms: terms, Min: min, Max: max}
}

// Fix pins a single variable to a concrete value.
func Fix(variable int, value bool) Linear {
	var bound int64
	if value {
		bound = 1
	}
	return Linear{Terms: []Term{{Var: variable, Coeff: 1}}, Min: bound, Max: bound}
}

// Implication activates a linear constraint only while its guard variable is
// true; with the guard false the constraint imposes nothing.
type Implication struct {
	If   int
	Then Linear
}

// Model is an engine-agnostic boolean linear-optimization instance:
// variables 1..Vars, bounded linear constraints, guarded implications and an
// optional maximize objective. Every backend consumes this one structure.
type Model struct {
	Vars         int
	Linears      []Linear
	Implications []Implication
	Objective    []Term
}

// NewVar allocates the next variable id. Ids start at 1.
func (model *Model) NewVar() int {
	model.Vars++
	return model.Vars
}

func (model *Model) AddLinear(linear Linear) {
	model.Linears = append(model.Linears, linear)
}

func (model *Model) AddImplication(guard int, then Linear) {
	model.Implications = append(model.Implications, Implication{If: guard, Then: then})
}

// Maximize appends terms to the objective.
func (model *Model) Maximize(terms []Term) {
	model.Objective = append(model.Objective, terms...)
}

// ObjectiveValue evaluates the maximize objective under a full assignment.
func (model *Model) ObjectiveValue(assignment Assignment) int64 {
	var value int64
	for _, term := range model.Objective {
		if assignment.Value(term.Var) {
			value += term.Coeff
		}
	}
	return value
}

// inequality is the compiled form every backend searches over:
// sum of terms >= bound.
type inequality struct {
	terms []Term
	bound int64
}

// inequalities lowers the model to plain >=-inequalities. Upper bounds are
// negated; implications are compiled over the boolean hull so that the
// guarded constraint holds exactly when the guard is true and imposes
// nothing otherwise.
func (model *Model) inequalities() []inequality {
	ineqs := make([]inequality, 0, len(model.Linears)+len(model.Implications))

	for _, linear := range model.Linears {
		if linear.Min != NoMin {
			ineqs = append(ineqs, inequality{terms: linear.Terms, bound: linear.Min})
		}
		if linear.Max != NoMax {
			ineqs = append(ineqs, inequality{terms: negateTerms(linear.Terms), bound: -linear.Max})
		}
	}

	for _, implication := range model.Implications {
		then := implication.Then
		if then.Min != NoMin {
			// guard=1 forces sum >= Min: encode sum >= floor + (Min-floor)*guard
			if floor := minSum(then.Terms); then.Min > floor {
				terms := make([]Term, 0, len(then.Terms)+1)
				terms = append(terms, then.Terms...)
				terms = append(terms, Term{Var: implication.If, Coeff: -(then.Min - floor)})
				ineqs = append(ineqs, inequality{terms: terms, bound: floor})
			}
		}
		if then.Max != NoMax {
			// guard=1 forces sum <= Max: encode -sum - (ceil-Max)*guard >= -ceil
			if ceil := maxSum(then.Terms); then.Max < ceil {
				terms := negateTerms(then.Terms)
				terms = append(terms, Term{Var: implication.If, Coeff: -(ceil - then.Max)})
				ineqs = append(ineqs, inequality{terms: terms, bound: -ceil})
			}
		}
	}

	return ineqs
}

func negateTerms(terms []Term) []Term {
	negated := make([]Term, len(terms))
	for i, term := range terms {
		negated[i] = Term{Var: term.Var, Coeff: -term.Coeff}
	}
	return negated
}

// minSum is the smallest value the expression can take over all assignments
func minSum(terms []Term) int64 {
	var sum int64
	for _, term := range terms {
		if term.Coeff < 0 {
			sum += term.Coeff
		}
	}
	return sum
}

// maxSum is the largest value the expression can take over all assignments
func maxSum(terms []Term) int64 {
	var sum int64
	for _, term := range terms {
		if term.Coeff > 0 {
			sum += term.Coeff
		}
	}
	return sum
}

// ToOPB serializes the model into OPB text, the pseudo-boolean analogue of
// DIMACS-CNF, understood by both the in-process engine and external PB
// solver binaries. The maximize objective becomes a negated "min:" line.
func (model *Model) ToOPB() string {
	ineqs := model.inequalities()
	lines := make([]string, 0, len(ineqs))
	for _, ineq := range ineqs {
		terms := make([]Term, 0, len(ineq.terms))
		for _, term := range ineq.terms {
			if term.Coeff != 0 {
				terms = append(terms, term)
			}
		}
		if len(terms) == 0 {
			if ineq.bound <= 0 {
				continue
			}
			// Unsatisfiable on its face; anchor to x1 to keep the format well-formed
			lines = append(lines, fmt.Sprintf("+1 x1 -1 x1 >= %d ;", ineq.bound))
			continue
		}
		var line strings.Builder
		for _, term := range terms {
			fmt.Fprintf(&line, "%+d x%d ", term.Coeff, term.Var)
		}
		fmt.Fprintf(&line, ">= %d ;", ineq.bound)
		lines = append(lines, line.String())
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "* #variable= %d #constraint= %d\n", model.Vars, len(lines))
	if len(model.Objective) > 0 {
		builder.WriteString("min:")
		for _, term := range model.Objective {
			if term.Coeff != 0 {
				fmt.Fprintf(&builder, " %+d x%d", -term.Coeff, term.Var)
			}
		}
		builder.WriteString(" ;\n")
	}
	for _, line := range lines {
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
	return builder.String()
}
