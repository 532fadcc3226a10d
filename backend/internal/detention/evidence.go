// ============================================================================
// backend/internal/detention/evidence.go
// Per-student evidence accumulation from raw gradesheet rows
// ============================================================================

package detention

import (
	"sort"
	"strings"

	"resultanalyzer/backend/internal/dataset"
)

// DefaultCoreSubjectKeywords flags the subjects whose failure weighs extra
// in risk scoring. A failed subject is "core" when its name or code contains
// one of these stems (case-insensitive).
var DefaultCoreSubjectKeywords = []string{
	"math", "physics", "chemistry", "mechanics", "programming",
	"electrical", "thermo",
}

// Options tunes evidence collection and classification.
type Options struct {
	// ResultPolicy decides unrecognized result text; zero value reads
	// unknowns as pass, matching the historical behavior.
	ResultPolicy dataset.ResultPolicy

	// CoreSubjectKeywords overrides DefaultCoreSubjectKeywords when set.
	CoreSubjectKeywords []string
}

func (o Options) coreKeywords() []string {
	if len(o.CoreSubjectKeywords) > 0 {
		return o.CoreSubjectKeywords
	}
	return DefaultCoreSubjectKeywords
}

// Evidence is the immutable multi-row summary of one student, produced by a
// single pass over the rows. Classification consumes it without further
// mutation, so rows may arrive in any order.
type Evidence struct {
	StudentKey   string
	Name         string
	Branch       string
	AcademicYear string

	MaxSemester      int
	PresentSemesters []int
	ClearedSemesters []int // semesters with at least one clean row
	FailedSemesters  []int // semesters with an explicit fail/detained result

	Backlog            int
	FailedSubjects     []string
	FailedCoreSubjects []string

	SPIHistory []float64
	CPIHistory []float64
}

type evidenceAccum struct {
	ev *Evidence

	present        map[int]bool
	cleared        map[int]bool
	failed         map[int]bool
	failedSubjects map[string]bool
	maxReported    int // largest value seen in the backlog column
}

// BuildEvidence groups rows by student key and accumulates per-student
// evidence. When the student-key column cannot be resolved there is nothing
// to group by and the result is empty; every other missing column only
// shrinks the evidence it would have fed.
func BuildEvidence(rows []dataset.Row, headers []string, opts Options) []*Evidence {
	keyCol := dataset.ResolveColumn(headers, dataset.RoleStudentKey)
	if keyCol < 0 {
		return nil
	}

	semCol := dataset.ResolveColumn(headers, dataset.RoleSemester)
	resultCol := dataset.ResolveColumn(headers, dataset.RoleResult)
	backlogCol := dataset.ResolveColumn(headers, dataset.RoleBacklog)
	branchCol := dataset.ResolveColumn(headers, dataset.RoleBranch)
	nameCol := dataset.ResolveColumn(headers, dataset.RoleStudentName)
	yearCol := dataset.ResolveColumn(headers, dataset.RoleAcademicYear)
	spiCol := dataset.ResolveColumn(headers, dataset.RoleSPI)
	cpiCol := dataset.ResolveColumn(headers, dataset.RoleCPI)
	subjects := dataset.SubjectColumns(headers)
	core := opts.coreKeywords()

	accums := make(map[string]*evidenceAccum)
	var order []string

	for _, row := range rows {
		key := dataset.StringOf(dataset.Cell(row, keyCol))
		if key == "" {
			continue
		}

		acc := accums[key]
		if acc == nil {
			acc = &evidenceAccum{
				ev:             &Evidence{StudentKey: key},
				present:        make(map[int]bool),
				cleared:        make(map[int]bool),
				failed:         make(map[int]bool),
				failedSubjects: make(map[string]bool),
			}
			accums[key] = acc
			order = append(order, key)
		}

		if name := dataset.StringOf(dataset.Cell(row, nameCol)); name != "" {
			acc.ev.Name = name
		}
		if branch := dataset.StringOf(dataset.Cell(row, branchCol)); branch != "" {
			acc.ev.Branch = branch
		}
		if year := dataset.StringOf(dataset.Cell(row, yearCol)); year != "" {
			acc.ev.AcademicYear = year
		}
		if spi, ok := dataset.FloatOf(dataset.Cell(row, spiCol)); ok {
			acc.ev.SPIHistory = append(acc.ev.SPIHistory, spi)
		}
		if cpi, ok := dataset.FloatOf(dataset.Cell(row, cpiCol)); ok {
			acc.ev.CPIHistory = append(acc.ev.CPIHistory, cpi)
		}
		if reported := dataset.BacklogOf(dataset.Cell(row, backlogCol)); reported > acc.maxReported {
			acc.maxReported = reported
		}

		// Failed subject grades in this row.
		rowHasFailedSubject := false
		for _, sc := range subjects {
			if !dataset.IsFailGrade(dataset.Cell(row, sc.GradeIndex)) {
				continue
			}
			rowHasFailedSubject = true
			name := sc.SubjectName(row)
			if !acc.failedSubjects[name] {
				acc.failedSubjects[name] = true
				acc.ev.FailedSubjects = append(acc.ev.FailedSubjects, name)
				if isCoreSubject(name, core) {
					acc.ev.FailedCoreSubjects = append(acc.ev.FailedCoreSubjects, name)
				}
			}
		}

		outcome := dataset.ResultOf(dataset.Cell(row, resultCol), opts.ResultPolicy)

		sem := dataset.SemesterOf(dataset.Cell(row, semCol))
		if sem == 0 {
			continue
		}
		acc.present[sem] = true
		if sem > acc.ev.MaxSemester {
			acc.ev.MaxSemester = sem
		}
		if outcome == dataset.OutcomeFail {
			acc.failed[sem] = true
		} else if outcome == dataset.OutcomePass && !rowHasFailedSubject {
			acc.cleared[sem] = true
		}
	}

	evidence := make([]*Evidence, 0, len(order))
	for _, key := range order {
		acc := accums[key]
		acc.ev.PresentSemesters = sortedSemesters(acc.present)
		acc.ev.ClearedSemesters = sortedSemesters(acc.cleared)
		acc.ev.FailedSemesters = sortedSemesters(acc.failed)
		acc.ev.Backlog = len(acc.ev.FailedSubjects)
		if acc.maxReported > acc.ev.Backlog {
			acc.ev.Backlog = acc.maxReported
		}
		evidence = append(evidence, acc.ev)
	}
	sort.Slice(evidence, func(i, j int) bool { return evidence[i].StudentKey < evidence[j].StudentKey })
	return evidence
}

func sortedSemesters(set map[int]bool) []int {
	if len(set) == 0 {
		return nil
	}
	out := make([]int, 0, len(set))
	for sem := range set {
		out = append(out, sem)
	}
	sort.Ints(out)
	return out
}

func isCoreSubject(name string, keywords []string) bool {
	lowered := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
