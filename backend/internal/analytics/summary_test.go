package analytics

import (
	"math"
	"testing"

	"resultanalyzer/backend/internal/dataset"
)

var testHeaders = []string{"Map Number", "Name", "Branch", "Sem", "Result", "SPI", "CPI"}

func row(key, name, branch string, sem int, result string, spi, cpi float64) dataset.Row {
	return dataset.Row{key, name, branch, sem, result, spi, cpi}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize(t *testing.T) {
	rows := []dataset.Row{
		row("S1", "A", "Computer", 1, "PASS", 8.0, 8.0),
		row("S1", "A", "Computer", 2, "PASS", 9.0, 8.5),
		row("S2", "B", "Computer", 1, "FAIL", 5.0, 5.0),
		row("S3", "C", "Mechanical", 1, "PASS", 7.0, 7.0),
	}

	s := Summarize(rows, testHeaders, Options{})

	if s.Rows != 4 || s.Students != 3 {
		t.Fatalf("Rows/Students = %d/%d, want 4/3", s.Rows, s.Students)
	}
	if s.SPI.Count != 4 || !almostEqual(s.SPI.Mean, 7.25) {
		t.Errorf("SPI = %+v, want count 4 mean 7.25", s.SPI)
	}
	if !almostEqual(s.SPI.Min, 5.0) || !almostEqual(s.SPI.Max, 9.0) {
		t.Errorf("SPI min/max = %v/%v, want 5/9", s.SPI.Min, s.SPI.Max)
	}
	if !almostEqual(s.PassRate, 75) {
		t.Errorf("PassRate = %v, want 75", s.PassRate)
	}

	computer := s.ByBranch["Computer"]
	if computer == nil || computer.Rows != 3 || computer.Students != 2 {
		t.Fatalf("ByBranch[Computer] = %+v, want rows 3 students 2", computer)
	}
	if !almostEqual(computer.PassRate, 100.0*2/3) {
		t.Errorf("Computer pass rate = %v", computer.PassRate)
	}

	sem1 := s.BySemester[1]
	if sem1 == nil || sem1.Rows != 3 || sem1.SPI.Count != 3 {
		t.Errorf("BySemester[1] = %+v, want 3 rows with 3 SPI values", sem1)
	}
}

func TestSummarizeTopPerformers(t *testing.T) {
	rows := []dataset.Row{
		row("S1", "A", "Computer", 1, "PASS", 6.0, 6.0),
		row("S1", "A", "Computer", 2, "PASS", 9.5, 7.7), // best SPI for S1
		row("S2", "B", "Computer", 1, "PASS", 8.0, 8.0),
		row("S3", "C", "Computer", 1, "PASS", 7.0, 7.0),
	}

	s := Summarize(rows, testHeaders, Options{TopN: 2})
	if len(s.TopPerformers) != 2 {
		t.Fatalf("TopPerformers = %+v, want 2 entries", s.TopPerformers)
	}
	if s.TopPerformers[0].StudentKey != "S1" || !almostEqual(s.TopPerformers[0].SPI, 9.5) {
		t.Errorf("TopPerformers[0] = %+v, want S1 at 9.5", s.TopPerformers[0])
	}
	if s.TopPerformers[1].StudentKey != "S2" {
		t.Errorf("TopPerformers[1] = %+v, want S2", s.TopPerformers[1])
	}
}

func TestSummarizeGradeDistribution(t *testing.T) {
	headers := []string{"Map Number", "Sem", "MA101GR", "MA101Name"}
	rows := []dataset.Row{
		{"S1", 1, "AA", "Maths"},
		{"S2", 1, "AB", "Maths"},
		{"S3", 1, "AA", "Maths"},
		{"S4", 1, "FF", "Maths"},
	}

	s := Summarize(rows, headers, Options{})
	if s.GradeDistribution["AA"] != 2 || s.GradeDistribution["AB"] != 1 || s.GradeDistribution["FF"] != 1 {
		t.Errorf("GradeDistribution = %+v", s.GradeDistribution)
	}
}

func TestSummarizeDegradesWithoutColumns(t *testing.T) {
	headers := []string{"Foo", "Bar"}
	rows := []dataset.Row{{"x", "y"}}

	s := Summarize(rows, headers, Options{})
	if s.Rows != 1 || s.Students != 0 {
		t.Errorf("Rows/Students = %d/%d, want 1/0", s.Rows, s.Students)
	}
	if s.SPI.Count != 0 || s.PassRate != 0 {
		t.Errorf("SPI/PassRate = %+v/%v, want zero values", s.SPI, s.PassRate)
	}
	if s.ByBranch != nil || s.BySemester != nil {
		t.Errorf("group sections must be empty: %+v %+v", s.ByBranch, s.BySemester)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil, Options{})
	if s.Rows != 0 || s.Students != 0 || s.SPI.Count != 0 {
		t.Errorf("empty input: %+v", s)
	}
}
