// ============================================================================
// backend/internal/detention/rules.go
// GTU academic-progression rule table
// ============================================================================

package detention

import (
	"fmt"
	"sort"
)

// requiredPriorSemesters maps the semester a student is entering to the
// earlier semesters that must all be cleared first. Semesters 1-4 carry no
// progression requirement. Semesters 9 and 10 cover dual/extended programs.
var requiredPriorSemesters = map[int][]int{
	5:  {1, 2},
	6:  {3, 4},
	7:  {5},
	8:  {5, 6},
	9:  {7},
	10: {7, 8},
}

// Decision is the outcome of checking the rule table for one student.
type Decision struct {
	Detained bool
	Missing  []int
	Reason   string
}

// RequiredSemesters returns the semesters that must be cleared before
// entering the given semester. Semesters with no requirement return nil.
func RequiredSemesters(entering int) []int {
	req, ok := requiredPriorSemesters[entering]
	if !ok {
		return nil
	}
	out := make([]int, len(req))
	copy(out, req)
	return out
}

// Decide evaluates the rule table for a student entering the given semester
// with the given set of cleared semesters.
func Decide(entering int, cleared []int) Decision {
	required := requiredPriorSemesters[entering]
	if len(required) == 0 {
		return Decision{}
	}

	clearedSet := make(map[int]bool, len(cleared))
	for _, sem := range cleared {
		clearedSet[sem] = true
	}

	var missing []int
	for _, sem := range required {
		if !clearedSet[sem] {
			missing = append(missing, sem)
		}
	}
	if len(missing) == 0 {
		return Decision{}
	}
	sort.Ints(missing)

	return Decision{
		Detained: true,
		Missing:  missing,
		Reason:   fmt.Sprintf("Required semesters %v not cleared before semester %d (missing %v)", required, entering, missing),
	}
}
