package planner

// Indexer gives a unique solver variable to a combination of scheduling
// attributes and vice versa
type Indexer interface {
	// Returns the solver variable for a (course, term) combination
	Index(course, term int) int
	// Returns the (course, term) combination behind a solver variable
	Attributes(variable int) (course, term int)
}

func NewIndexer(courses, terms int) Indexer {
	return &sortedIndexer{
		courses: courses,
		terms:   terms,
	}
}

// sortedIndexer numbers variables term-first within each course, so that
// for courses iterated in sorted-id order the variable ids 1..courses*terms
// come out sorted too.
type sortedIndexer struct {
	courses int
	terms   int
}

func (indexer *sortedIndexer) Index(course, term int) int {
	return term + indexer.terms*course + 1
}

func (indexer *sortedIndexer) Attributes(variable int) (course, term int) {
	variable--

	term = variable % indexer.terms
	variable = variable / indexer.terms

	course = variable % indexer.courses

	return course, term
}
