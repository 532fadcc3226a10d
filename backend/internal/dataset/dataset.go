// ============================================================================
// backend/internal/dataset/dataset.go
// In-memory gradesheet model and cell value coercion helpers
// ============================================================================

package dataset

import (
	"strconv"
	"strings"
)

// Row is one student's record for one semester/exam instance. Cells are
// positionally aligned with the header list and may be string, float64 (as
// JSON decoding yields), other numeric types, or nil.
type Row []any

// Dataset pairs a header list with its rows. This is the wire shape uploads
// arrive in and the shape every analysis call consumes.
type Dataset struct {
	Headers []string `json:"headers" bson:"headers"`
	Rows    []Row    `json:"rows" bson:"rows"`
}

// ResultPolicy controls how an unrecognized result string is classified.
// Gradesheets in the wild carry noisy result text; the historical behavior
// is to give the student the benefit of the doubt and treat unknowns as pass.
type ResultPolicy string

const (
	PolicyPass    ResultPolicy = "pass"
	PolicyFail    ResultPolicy = "fail"
	PolicyUnknown ResultPolicy = "unknown"
)

// Outcome is a normalized pass/fail reading of a result cell.
type Outcome int

const (
	OutcomePass Outcome = iota
	OutcomeFail
	OutcomeUnknown
)

// MaxSemester bounds the semester range; values outside 1..MaxSemester are
// treated as "not present".
const MaxSemester = 8

var failResultWords = map[string]bool{
	"fail": true, "f": true, "r": true, "reappear": true, "repeat": true,
	"detained": true, "kt": true, "drop": true, "dropped": true, "absent": true,
}

var passResultWords = map[string]bool{
	"pass": true, "p": true, "promoted": true, "cleared": true,
	"successful": true, "success": true,
}

var failGradeLiterals = map[string]bool{
	"FF": true, "F": true, "FAIL": true, "0": true,
}

// StringOf renders a cell as a trimmed string. Nil cells become "".
func StringOf(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case int:
		return strconv.Itoa(c)
	case int32:
		return strconv.FormatInt(int64(c), 10)
	case int64:
		return strconv.FormatInt(c, 10)
	case bool:
		return strconv.FormatBool(c)
	default:
		return ""
	}
}

// FloatOf reads a cell as a number. The second return reports whether the
// cell held a usable numeric value.
func FloatOf(v any) (float64, bool) {
	switch c := v.(type) {
	case float64:
		return c, true
	case float32:
		return float64(c), true
	case int:
		return float64(c), true
	case int32:
		return float64(c), true
	case int64:
		return float64(c), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// SemesterOf extracts a semester number from a cell via the first run of
// digits ("Sem 3", "3", "Semester-03" all normalize to 3). Returns 0 when no
// digits are found or the value falls outside 1..MaxSemester.
func SemesterOf(v any) int {
	s := StringOf(v)

	digits := ""
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits += string(r)
			continue
		}
		if digits != "" {
			break
		}
	}
	if digits == "" {
		return 0
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > MaxSemester {
		return 0
	}
	return n
}

// BacklogOf reads a backlog count cell. Non-numeric and empty cells count as
// zero outstanding subjects.
func BacklogOf(v any) int {
	f, ok := FloatOf(v)
	if !ok || f < 0 {
		return 0
	}
	return int(f)
}

// ResultOf classifies a free-text result cell. Fail keywords win over pass
// keywords when both appear ("pass with kt" is a fail); text matching
// neither set falls to the supplied policy. An empty policy behaves as
// PolicyPass.
func ResultOf(v any, policy ResultPolicy) Outcome {
	s := Normalize(StringOf(v))
	if s != "" {
		if failResultWords[s] {
			return OutcomeFail
		}
		if passResultWords[s] {
			return OutcomePass
		}
		tokens := strings.Fields(s)
		for _, tok := range tokens {
			if failResultWords[tok] {
				return OutcomeFail
			}
		}
		for _, tok := range tokens {
			if passResultWords[tok] {
				return OutcomePass
			}
		}
	}

	switch policy {
	case PolicyFail:
		return OutcomeFail
	case PolicyUnknown:
		return OutcomeUnknown
	default:
		return OutcomePass
	}
}

// IsFailGrade reports whether a subject grade cell is a failing grade.
// GTU sheets mix theory/practical grade literals, so FF, F, FAIL and 0 are
// all accepted.
func IsFailGrade(v any) bool {
	return failGradeLiterals[strings.ToUpper(StringOf(v))]
}

// Cell returns the cell at index idx, or nil when the index is -1 (an
// unresolved column) or out of range for the row.
func Cell(row Row, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}
