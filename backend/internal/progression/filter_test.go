package progression

import (
	"reflect"
	"testing"

	"resultanalyzer/backend/internal/dataset"
)

var testHeaders = []string{"Map Number", "Sem", "Result", "Backlog", "Branch"}

func row(key string, sem any, result string, backlog any) dataset.Row {
	return dataset.Row{key, sem, result, backlog, "Computer Engineering"}
}

func TestSemesterPair(t *testing.T) {
	cases := []struct {
		year, first, second int
	}{
		{1, 1, 2},
		{2, 3, 4},
		{3, 5, 6},
		{4, 7, 8},
		{0, 0, 0},
		{5, 0, 0},
		{-1, 0, 0},
	}
	for _, tc := range cases {
		first, second := SemesterPair(tc.year)
		if first != tc.first || second != tc.second {
			t.Errorf("SemesterPair(%d) = (%d, %d), want (%d, %d)", tc.year, first, second, tc.first, tc.second)
		}
	}
}

func TestFilterByYearEndToEnd(t *testing.T) {
	// Four students across semesters 1-4. B fails semester 2, which is a
	// target semester of year 1, so B is fully excluded.
	var rows []dataset.Row
	for _, key := range []string{"A", "B", "C", "D"} {
		for sem := 1; sem <= 4; sem++ {
			result, backlog := "PASS", 0
			if key == "B" && sem == 2 {
				result, backlog = "FAIL", 1
			}
			rows = append(rows, row(key, sem, result, backlog))
		}
	}

	got := FilterByYear(rows, testHeaders, 1, Options{})

	if len(got) != 6 {
		t.Fatalf("got %d rows, want 6", len(got))
	}
	for _, r := range got {
		key := dataset.StringOf(r[0])
		sem := dataset.SemesterOf(r[1])
		if key == "B" {
			t.Errorf("student B must be excluded, got row %v", r)
		}
		if sem != 1 && sem != 2 {
			t.Errorf("row outside target semesters: %v", r)
		}
	}
}

func TestFilterByYearIdempotent(t *testing.T) {
	rows := []dataset.Row{
		row("A", 1, "PASS", 0),
		row("A", 2, "PASS", 0),
		row("B", 3, "PASS", 0),
		row("C", 1, "FAIL", 2),
	}

	once := FilterByYear(rows, testHeaders, 1, Options{})
	twice := FilterByYear(once, testHeaders, 1, Options{})
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second application changed the result:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestFilterByYearContainment(t *testing.T) {
	rows := []dataset.Row{
		row("A", 1, "PASS", 0),
		row("A", 5, "PASS", 0),
		row("B", 2, "PASS", 0),
	}

	got := FilterByYear(rows, testHeaders, 1, Options{})
	for _, r := range got {
		found := false
		for _, orig := range rows {
			if reflect.DeepEqual(r, orig) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("fabricated row in output: %v", r)
		}
		if sem := dataset.SemesterOf(r[1]); sem != 1 && sem != 2 {
			t.Errorf("row with semester %d leaked through", sem)
		}
	}
}

func TestFilterByYearSinglePresentSemesterQualifies(t *testing.T) {
	// Present cleanly in only one of the two target semesters still
	// qualifies; the absent semester is vacuously satisfied.
	rows := []dataset.Row{row("A", 3, "PASS", 0)}
	got := FilterByYear(rows, testHeaders, 2, Options{})
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
}

func TestFilterByYearAbsentStudentExcluded(t *testing.T) {
	// A has rows, but none in year 2's semesters.
	rows := []dataset.Row{
		row("A", 1, "PASS", 0),
		row("A", 2, "PASS", 0),
	}
	got := FilterByYear(rows, testHeaders, 2, Options{})
	if len(got) != 0 {
		t.Fatalf("got %d rows, want 0", len(got))
	}
}

func TestFilterByYearDuplicateRowsAnyUncleanDisqualifies(t *testing.T) {
	// Merged datasets may duplicate a (student, semester); one bad copy
	// disqualifies the semester.
	rows := []dataset.Row{
		row("A", 1, "PASS", 0),
		row("A", 1, "FAIL", 0),
		row("A", 2, "PASS", 0),
	}
	got := FilterByYear(rows, testHeaders, 1, Options{})
	if len(got) != 0 {
		t.Fatalf("got %d rows, want 0: %v", len(got), got)
	}
}

func TestFilterByYearBacklogMakesUnclean(t *testing.T) {
	rows := []dataset.Row{
		row("A", 1, "PASS", 2),
		row("B", 1, "PASS", 0),
	}
	got := FilterByYear(rows, testHeaders, 1, Options{})
	if len(got) != 1 || dataset.StringOf(got[0][0]) != "B" {
		t.Fatalf("got %v, want only B's row", got)
	}
}

func TestFilterByYearMissingColumnsNoOp(t *testing.T) {
	rows := []dataset.Row{
		{"A", 1, "FAIL"},
		{"B", 2, "PASS"},
	}

	// No result column resolvable.
	headers := []string{"Map Number", "Sem", "Something"}
	got := FilterByYear(rows, headers, 1, Options{})
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("missing result column must be a no-op, got %v", got)
	}

	// No headers at all.
	got = FilterByYear(rows, nil, 1, Options{})
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("missing headers must be a no-op, got %v", got)
	}
}

func TestFilterByYearInvalidYearNoOp(t *testing.T) {
	rows := []dataset.Row{row("A", 1, "PASS", 0)}
	got := FilterByYear(rows, testHeaders, 7, Options{})
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("invalid year must be a no-op, got %v", got)
	}
}

func TestFilterByYearEmptyInput(t *testing.T) {
	if got := FilterByYear(nil, testHeaders, 1, Options{}); len(got) != 0 {
		t.Errorf("nil rows: got %v", got)
	}
	if got := FilterByYear([]dataset.Row{}, nil, 1, Options{}); len(got) != 0 {
		t.Errorf("empty rows: got %v", got)
	}
}

func TestFilterByYearStrictPolicy(t *testing.T) {
	rows := []dataset.Row{
		row("A", 1, "withheld", 0),
		row("B", 1, "PASS", 0),
	}

	// Default policy reads unknown text as pass.
	got := FilterByYear(rows, testHeaders, 1, Options{})
	if len(got) != 2 {
		t.Fatalf("default policy: got %d rows, want 2", len(got))
	}

	// Strict policy keeps unknowns out.
	got = FilterByYear(rows, testHeaders, 1, Options{ResultPolicy: dataset.PolicyUnknown})
	if len(got) != 1 || dataset.StringOf(got[0][0]) != "B" {
		t.Fatalf("unknown policy: got %v, want only B's row", got)
	}
}
