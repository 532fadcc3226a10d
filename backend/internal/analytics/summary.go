// ============================================================================
// backend/internal/analytics/summary.go
// Branch/semester performance summaries over gradesheet rows
// ============================================================================

package analytics

import (
	"sort"

	"github.com/montanaflynn/stats"

	"resultanalyzer/backend/internal/dataset"
)

// IndexSummary describes the distribution of a grade-point index (SPI/CPI).
type IndexSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P90    float64 `json:"p90"`
}

// GroupSummary is the performance picture of one branch or semester bucket.
type GroupSummary struct {
	Rows     int          `json:"rows"`
	Students int          `json:"students"`
	SPI      IndexSummary `json:"spi"`
	PassRate float64      `json:"pass_rate"`
}

// Performer is a top-performer entry, ranked by best SPI.
type Performer struct {
	StudentKey string  `json:"student_key"`
	Name       string  `json:"name,omitempty"`
	Branch     string  `json:"branch,omitempty"`
	SPI        float64 `json:"spi"`
}

// Summary is the aggregate performance report for a dataset.
type Summary struct {
	Rows     int `json:"rows"`
	Students int `json:"students"`

	SPI IndexSummary `json:"spi"`
	CPI IndexSummary `json:"cpi"`

	PassRate float64 `json:"pass_rate"`

	ByBranch   map[string]*GroupSummary `json:"by_branch,omitempty"`
	BySemester map[int]*GroupSummary    `json:"by_semester,omitempty"`

	GradeDistribution map[string]int `json:"grade_distribution,omitempty"`
	TopPerformers     []Performer    `json:"top_performers,omitempty"`
}

// Options tunes the summary computation.
type Options struct {
	// ResultPolicy decides unrecognized result text for the pass rate.
	ResultPolicy dataset.ResultPolicy

	// TopN bounds the top-performers list; zero means 10.
	TopN int
}

type groupAccum struct {
	rows     int
	students map[string]bool
	spi      []float64
	passed   int
	results  int
}

func newGroupAccum() *groupAccum {
	return &groupAccum{students: make(map[string]bool)}
}

// Summarize computes the performance report. Missing columns shrink the
// sections they would feed: no SPI column yields empty index summaries, no
// branch column yields no branch buckets, and so on. It never errors.
func Summarize(rows []dataset.Row, headers []string, opts Options) *Summary {
	keyCol := dataset.ResolveColumn(headers, dataset.RoleStudentKey)
	nameCol := dataset.ResolveColumn(headers, dataset.RoleStudentName)
	branchCol := dataset.ResolveColumn(headers, dataset.RoleBranch)
	semCol := dataset.ResolveColumn(headers, dataset.RoleSemester)
	resultCol := dataset.ResolveColumn(headers, dataset.RoleResult)
	spiCol := dataset.ResolveColumn(headers, dataset.RoleSPI)
	cpiCol := dataset.ResolveColumn(headers, dataset.RoleCPI)
	subjects := dataset.SubjectColumns(headers)

	summary := &Summary{Rows: len(rows)}

	var spiValues, cpiValues []float64
	students := make(map[string]bool)
	best := make(map[string]*Performer)
	branchGroups := make(map[string]*groupAccum)
	semGroups := make(map[int]*groupAccum)
	passed, results := 0, 0

	for _, row := range rows {
		key := dataset.StringOf(dataset.Cell(row, keyCol))
		if key != "" {
			students[key] = true
		}

		spi, hasSPI := dataset.FloatOf(dataset.Cell(row, spiCol))
		if hasSPI {
			spiValues = append(spiValues, spi)
		}
		if cpi, ok := dataset.FloatOf(dataset.Cell(row, cpiCol)); ok {
			cpiValues = append(cpiValues, cpi)
		}

		pass := false
		if resultCol >= 0 {
			results++
			pass = dataset.ResultOf(dataset.Cell(row, resultCol), opts.ResultPolicy) == dataset.OutcomePass
			if pass {
				passed++
			}
		}

		if branch := dataset.StringOf(dataset.Cell(row, branchCol)); branch != "" {
			feedGroup(groupIn(branchGroups, branch), key, spi, hasSPI, pass, resultCol >= 0)
		}
		if sem := dataset.SemesterOf(dataset.Cell(row, semCol)); sem > 0 {
			g := semGroups[sem]
			if g == nil {
				g = newGroupAccum()
				semGroups[sem] = g
			}
			feedGroup(g, key, spi, hasSPI, pass, resultCol >= 0)
		}

		for _, sc := range subjects {
			if grade := dataset.StringOf(dataset.Cell(row, sc.GradeIndex)); grade != "" {
				if summary.GradeDistribution == nil {
					summary.GradeDistribution = make(map[string]int)
				}
				summary.GradeDistribution[grade]++
			}
		}

		if hasSPI && key != "" {
			if p := best[key]; p == nil || spi > p.SPI {
				best[key] = &Performer{
					StudentKey: key,
					Name:       dataset.StringOf(dataset.Cell(row, nameCol)),
					Branch:     dataset.StringOf(dataset.Cell(row, branchCol)),
					SPI:        spi,
				}
			}
		}
	}

	summary.Students = len(students)
	summary.SPI = indexSummary(spiValues)
	summary.CPI = indexSummary(cpiValues)
	if results > 0 {
		summary.PassRate = float64(passed) / float64(results) * 100
	}

	if len(branchGroups) > 0 {
		summary.ByBranch = make(map[string]*GroupSummary, len(branchGroups))
		for branch, g := range branchGroups {
			summary.ByBranch[branch] = g.finish()
		}
	}
	if len(semGroups) > 0 {
		summary.BySemester = make(map[int]*GroupSummary, len(semGroups))
		for sem, g := range semGroups {
			summary.BySemester[sem] = g.finish()
		}
	}

	summary.TopPerformers = topPerformers(best, opts.TopN)
	return summary
}

func groupIn(m map[string]*groupAccum, key string) *groupAccum {
	g := m[key]
	if g == nil {
		g = newGroupAccum()
		m[key] = g
	}
	return g
}

func feedGroup(g *groupAccum, key string, spi float64, hasSPI, pass, hasResult bool) {
	g.rows++
	if key != "" {
		g.students[key] = true
	}
	if hasSPI {
		g.spi = append(g.spi, spi)
	}
	if hasResult {
		g.results++
		if pass {
			g.passed++
		}
	}
}

func (g *groupAccum) finish() *GroupSummary {
	out := &GroupSummary{
		Rows:     g.rows,
		Students: len(g.students),
		SPI:      indexSummary(g.spi),
	}
	if g.results > 0 {
		out.PassRate = float64(g.passed) / float64(g.results) * 100
	}
	return out
}

func indexSummary(values []float64) IndexSummary {
	if len(values) == 0 {
		return IndexSummary{}
	}

	out := IndexSummary{Count: len(values)}
	if v, err := stats.Mean(values); err == nil {
		out.Mean = v
	}
	if v, err := stats.Median(values); err == nil {
		out.Median = v
	}
	if v, err := stats.StandardDeviation(values); err == nil {
		out.StdDev = v
	}
	if v, err := stats.Min(values); err == nil {
		out.Min = v
	}
	if v, err := stats.Max(values); err == nil {
		out.Max = v
	}
	if v, err := stats.Percentile(values, 90); err == nil {
		out.P90 = v
	}
	return out
}

func topPerformers(best map[string]*Performer, topN int) []Performer {
	if len(best) == 0 {
		return nil
	}
	if topN <= 0 {
		topN = 10
	}

	out := make([]Performer, 0, len(best))
	for _, p := range best {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SPI != out[j].SPI {
			return out[i].SPI > out[j].SPI
		}
		return out[i].StudentKey < out[j].StudentKey
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
