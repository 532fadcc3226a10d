// ============================================================================
// backend/internal/progression/filter.go
// Academic-year eligibility filtering over gradesheet rows
// ============================================================================

package progression

import (
	"resultanalyzer/backend/internal/dataset"
)

// Options tunes how result cells are read during qualification checks.
type Options struct {
	// ResultPolicy decides unrecognized result text; the zero value keeps
	// the historical benefit-of-the-doubt behavior (unknown reads as pass).
	ResultPolicy dataset.ResultPolicy
}

// SemesterPair maps an academic year (1-4) to its two semesters {2y-1, 2y}.
// Invalid years yield (0, 0).
func SemesterPair(year int) (int, int) {
	if year < 1 || year > 4 {
		return 0, 0
	}
	return 2*year - 1, 2 * year
}

// semesterStanding tracks one student's footprint in the two target
// semesters while scanning rows.
type semesterStanding struct {
	present [2]bool
	unclean [2]bool
}

// FilterByYear restricts rows to students who qualify for the given academic
// year and to that year's two semesters.
//
// A student qualifies when at least one target semester has a row for them
// and no target semester with rows is unclean. A semester is unclean when
// any of the student's rows in it fails the result reading or carries a
// non-zero backlog; with merged datasets a single bad duplicate row
// disqualifies the semester. Semesters with no rows at all are given the
// benefit of the doubt.
//
// When the student-key, semester, or result column cannot be resolved the
// filter is a no-op and returns its input unchanged. The input slice is
// never mutated; qualifying rows are returned in their original order.
func FilterByYear(rows []dataset.Row, headers []string, year int, opts Options) []dataset.Row {
	firstSem, secondSem := SemesterPair(year)
	if firstSem == 0 {
		return rows
	}

	keyCol := dataset.ResolveColumn(headers, dataset.RoleStudentKey)
	semCol := dataset.ResolveColumn(headers, dataset.RoleSemester)
	resultCol := dataset.ResolveColumn(headers, dataset.RoleResult)
	if keyCol < 0 || semCol < 0 || resultCol < 0 {
		return rows
	}
	backlogCol := dataset.ResolveColumn(headers, dataset.RoleBacklog)

	standings := make(map[string]*semesterStanding)
	for _, row := range rows {
		key := dataset.StringOf(dataset.Cell(row, keyCol))
		if key == "" {
			continue
		}

		var slot int
		switch dataset.SemesterOf(dataset.Cell(row, semCol)) {
		case firstSem:
			slot = 0
		case secondSem:
			slot = 1
		default:
			continue
		}

		standing := standings[key]
		if standing == nil {
			standing = &semesterStanding{}
			standings[key] = standing
		}
		standing.present[slot] = true
		if !rowIsClean(row, resultCol, backlogCol, opts.ResultPolicy) {
			standing.unclean[slot] = true
		}
	}

	qualified := make(map[string]bool, len(standings))
	for key, s := range standings {
		if (s.present[0] || s.present[1]) && !s.unclean[0] && !s.unclean[1] {
			qualified[key] = true
		}
	}

	filtered := make([]dataset.Row, 0, len(rows))
	for _, row := range rows {
		key := dataset.StringOf(dataset.Cell(row, keyCol))
		if !qualified[key] {
			continue
		}
		sem := dataset.SemesterOf(dataset.Cell(row, semCol))
		if sem == firstSem || sem == secondSem {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// rowIsClean reports whether a row reads as an outright pass with zero
// backlog. Unknown results under a strict policy do not count as clean.
func rowIsClean(row dataset.Row, resultCol, backlogCol int, policy dataset.ResultPolicy) bool {
	if dataset.ResultOf(dataset.Cell(row, resultCol), policy) != dataset.OutcomePass {
		return false
	}
	return dataset.BacklogOf(dataset.Cell(row, backlogCol)) == 0
}
