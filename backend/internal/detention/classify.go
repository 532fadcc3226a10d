// ============================================================================
// backend/internal/detention/classify.go
// Pure evidence -> classification stage (status, reasons, risk)
// ============================================================================

package detention

import "fmt"

// Classification statuses and risk levels.
const (
	StatusDetained = "detained"
	StatusAtRisk   = "at-risk"
	StatusClear    = "clear"

	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// StudentRecord is the final per-student classification.
type StudentRecord struct {
	StudentKey   string   `json:"student_key"`
	Name         string   `json:"name,omitempty"`
	Branch       string   `json:"branch,omitempty"`
	AcademicYear string   `json:"academic_year,omitempty"`
	Semester     int      `json:"semester"`
	Status       string   `json:"status"`
	RiskLevel    string   `json:"risk_level"`
	Reasons      []string `json:"reasons,omitempty"`
	Backlog      int      `json:"backlog"`

	FailedSubjects []string  `json:"failed_subjects,omitempty"`
	SPIHistory     []float64 `json:"spi_history,omitempty"`
	CPIHistory     []float64 `json:"cpi_history,omitempty"`
}

// Classify derives status, reasons and risk level from evidence.
//
// Before the rule table is checked, every semester from 1 up to the highest
// semester seen that has no rows at all is treated as cleared: an unreported
// semester is assumed to be a pass, not a failure. A semester that has rows
// but no clean one stays uncleared.
func Classify(ev *Evidence) StudentRecord {
	rec := StudentRecord{
		StudentKey:     ev.StudentKey,
		Name:           ev.Name,
		Branch:         ev.Branch,
		AcademicYear:   ev.AcademicYear,
		Semester:       ev.MaxSemester,
		Backlog:        ev.Backlog,
		FailedSubjects: ev.FailedSubjects,
		SPIHistory:     ev.SPIHistory,
		CPIHistory:     ev.CPIHistory,
	}

	detained := false
	for _, sem := range ev.FailedSemesters {
		detained = true
		rec.Reasons = append(rec.Reasons, fmt.Sprintf("Failed in semester %d", sem))
	}

	decision := Decide(ev.MaxSemester, reconciledCleared(ev))
	if decision.Detained {
		detained = true
		rec.Reasons = append(rec.Reasons, decision.Reason)
	}

	rec.RiskLevel = riskLevel(detained, ev)
	switch {
	case detained:
		rec.Status = StatusDetained
	case rec.RiskLevel != RiskLow:
		rec.Status = StatusAtRisk
	default:
		rec.Status = StatusClear
	}
	return rec
}

// reconciledCleared merges explicitly cleared semesters with semesters that
// have no rows at all up to the highest semester seen.
func reconciledCleared(ev *Evidence) []int {
	present := make(map[int]bool, len(ev.PresentSemesters))
	for _, sem := range ev.PresentSemesters {
		present[sem] = true
	}
	cleared := make(map[int]bool, len(ev.ClearedSemesters))
	for _, sem := range ev.ClearedSemesters {
		cleared[sem] = true
	}

	out := make([]int, 0, ev.MaxSemester)
	for sem := 1; sem <= ev.MaxSemester; sem++ {
		if cleared[sem] || !present[sem] {
			out = append(out, sem)
		}
	}
	return out
}

func riskLevel(detained bool, ev *Evidence) string {
	failedCore := len(ev.FailedCoreSubjects)

	switch {
	case detained,
		ev.Backlog >= 3,
		failedCore >= 2,
		ev.MaxSemester >= 7 && ev.Backlog >= 2:
		return RiskHigh
	case ev.Backlog == 2,
		failedCore == 1,
		ev.MaxSemester >= 5 && ev.Backlog >= 1:
		return RiskMedium
	default:
		return RiskLow
	}
}
