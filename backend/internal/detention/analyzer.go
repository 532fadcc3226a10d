// ============================================================================
// backend/internal/detention/analyzer.go
// Aggregate detention report over a full gradesheet dataset
// ============================================================================

package detention

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"resultanalyzer/backend/internal/dataset"
)

// Filter narrows the report to a slice of the student population. Zero
// values mean "no restriction".
type Filter struct {
	Branch       string `json:"branch,omitempty"`
	Semester     int    `json:"semester,omitempty"`
	AcademicYear string `json:"academic_year,omitempty"`
	RiskLevel    string `json:"risk_level,omitempty"`
	Status       string `json:"status,omitempty"`
}

// Breakdown is one bucket of a branch/semester/subject summary.
type Breakdown struct {
	Total    int     `json:"total"`
	Detained int     `json:"detained"`
	Rate     float64 `json:"rate"`
}

// TrendPoint is the detention rate for one academic year.
type TrendPoint struct {
	AcademicYear string  `json:"academic_year"`
	Total        int     `json:"total"`
	Detained     int     `json:"detained"`
	Rate         float64 `json:"rate"`
}

// IndexStats summarizes the SPI values of the classified students.
type IndexStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Report is the aggregate detention analysis.
type Report struct {
	TotalStudents int     `json:"total_students"`
	DetainedCount int     `json:"detained_count"`
	AtRiskCount   int     `json:"at_risk_count"`
	ClearCount    int     `json:"clear_count"`
	DetentionRate float64 `json:"detention_rate"`

	DetainedStudents []StudentRecord `json:"detained_students"`
	AtRiskStudents   []StudentRecord `json:"at_risk_students"`

	BranchWise   map[string]*Breakdown `json:"branch_wise,omitempty"`
	SemesterWise map[int]*Breakdown    `json:"semester_wise,omitempty"`
	SubjectWise  map[string]*Breakdown `json:"subject_wise,omitempty"`
	YearTrend    []TrendPoint          `json:"year_trend,omitempty"`

	SPI IndexStats `json:"spi"`
}

// Analyze classifies every student in the dataset and aggregates the
// results. Columns that fail to resolve silently shrink the corresponding
// sections; the analyzer never errors for any input shape.
func Analyze(rows []dataset.Row, headers []string, f Filter, opts Options) *Report {
	report := &Report{
		DetainedStudents: []StudentRecord{},
		AtRiskStudents:   []StudentRecord{},
	}

	var spiValues []float64
	yearBuckets := make(map[string]*Breakdown)

	for _, ev := range BuildEvidence(rows, headers, opts) {
		rec := Classify(ev)
		if !matches(rec, f) {
			continue
		}

		report.TotalStudents++
		detained := rec.Status == StatusDetained
		switch rec.Status {
		case StatusDetained:
			report.DetainedCount++
			report.DetainedStudents = append(report.DetainedStudents, rec)
		case StatusAtRisk:
			report.AtRiskCount++
			report.AtRiskStudents = append(report.AtRiskStudents, rec)
		default:
			report.ClearCount++
		}

		if rec.Branch != "" {
			if report.BranchWise == nil {
				report.BranchWise = make(map[string]*Breakdown)
			}
			bump(bucketIn(report.BranchWise, rec.Branch), detained)
		}
		if rec.Semester > 0 {
			if report.SemesterWise == nil {
				report.SemesterWise = make(map[int]*Breakdown)
			}
			b := report.SemesterWise[rec.Semester]
			if b == nil {
				b = &Breakdown{}
				report.SemesterWise[rec.Semester] = b
			}
			bump(b, detained)
		}
		for _, subject := range rec.FailedSubjects {
			if report.SubjectWise == nil {
				report.SubjectWise = make(map[string]*Breakdown)
			}
			bump(bucketIn(report.SubjectWise, subject), detained)
		}
		if rec.AcademicYear != "" {
			bump(bucketIn(yearBuckets, rec.AcademicYear), detained)
		}

		spiValues = append(spiValues, rec.SPIHistory...)
	}

	if report.TotalStudents > 0 {
		report.DetentionRate = rate(report.DetainedCount, report.TotalStudents)
	}
	finishRates(report.BranchWise)
	finishRates(report.SubjectWise)
	for _, b := range report.SemesterWise {
		b.Rate = rate(b.Detained, b.Total)
	}

	for year, b := range yearBuckets {
		report.YearTrend = append(report.YearTrend, TrendPoint{
			AcademicYear: year,
			Total:        b.Total,
			Detained:     b.Detained,
			Rate:         rate(b.Detained, b.Total),
		})
	}
	sort.Slice(report.YearTrend, func(i, j int) bool {
		return report.YearTrend[i].AcademicYear < report.YearTrend[j].AcademicYear
	})

	report.SPI = indexStats(spiValues)
	return report
}

func matches(rec StudentRecord, f Filter) bool {
	if f.Branch != "" && !strings.EqualFold(strings.TrimSpace(f.Branch), rec.Branch) {
		return false
	}
	if f.Semester > 0 && rec.Semester != f.Semester {
		return false
	}
	if f.AcademicYear != "" && !strings.EqualFold(strings.TrimSpace(f.AcademicYear), rec.AcademicYear) {
		return false
	}
	if f.RiskLevel != "" && !strings.EqualFold(f.RiskLevel, rec.RiskLevel) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(f.Status, rec.Status) {
		return false
	}
	return true
}

func bucketIn(m map[string]*Breakdown, key string) *Breakdown {
	b := m[key]
	if b == nil {
		b = &Breakdown{}
		m[key] = b
	}
	return b
}

func bump(b *Breakdown, detained bool) {
	b.Total++
	if detained {
		b.Detained++
	}
}

func finishRates(m map[string]*Breakdown) {
	for _, b := range m {
		b.Rate = rate(b.Detained, b.Total)
	}
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func indexStats(values []float64) IndexStats {
	if len(values) == 0 {
		return IndexStats{}
	}

	out := IndexStats{Count: len(values)}
	if mean, err := stats.Mean(values); err == nil {
		out.Mean = mean
	}
	if median, err := stats.Median(values); err == nil {
		out.Median = median
	}
	if sd, err := stats.StandardDeviation(values); err == nil {
		out.StdDev = sd
	}
	return out
}
