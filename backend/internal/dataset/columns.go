// ============================================================================
// backend/internal/dataset/columns.go
// Fuzzy header-to-role resolution for inconsistently named gradesheets
// ============================================================================

package dataset

import (
	"strings"
	"unicode"
)

// Role identifies a semantic column to locate among free-form headers.
type Role string

const (
	RoleStudentKey   Role = "student-key"
	RoleStudentName  Role = "student-name"
	RoleSemester     Role = "semester"
	RoleResult       Role = "result"
	RoleBacklog      Role = "backlog"
	RoleBranch       Role = "branch"
	RoleSPI          Role = "spi"
	RoleCPI          Role = "cpi"
	RoleCGPA         Role = "cgpa"
	RoleSubjectGrade Role = "subject-grade"
	RoleAcademicYear Role = "academic-year"
	RoleSourceFile   Role = "source-file"
)

// roleRule is the matching recipe for one role: exact normalized names,
// accepted prefixes, and accepted substrings with optional disqualifiers.
// Kept as data so new header variants are a table edit, not a code change.
type roleRule struct {
	names    []string
	prefixes []string
	contains []string
	excludes []string
}

var roleRules = map[Role]roleRule{
	RoleStudentKey: {
		names: []string{
			"map number", "mapnumber", "map no", "mapno",
			"enrollment no", "enrollment number", "enrollmentno", "enrollment",
			"student id", "studentid", "roll no", "rollno", "roll number",
			"seat no", "seatno", "seat number",
		},
	},
	RoleStudentName: {
		names: []string{"name", "student name", "studentname", "name of student"},
	},
	RoleSemester: {
		names:    []string{"sem", "semester", "sem no", "semno", "semester no", "current sem", "current semester"},
		prefixes: []string{"sem"},
	},
	RoleResult: {
		names: []string{"result", "results", "remark", "remarks", "status", "result status", "pass fail", "passfail"},
	},
	RoleBacklog: {
		names: []string{
			"backlog", "backlogs", "backlog count", "no of backlog", "no of backlogs",
			"total backlog", "total backlogs", "kt", "no of kt", "pending subjects",
		},
	},
	RoleBranch: {
		names: []string{"branch", "branch name", "branchname", "department", "dept", "program", "programme"},
	},
	RoleSPI: {
		names:    []string{"spi", "sgpa"},
		prefixes: []string{"spi", "sgpa"},
	},
	RoleCPI: {
		names:    []string{"cpi"},
		prefixes: []string{"cpi"},
	},
	RoleCGPA: {
		names:    []string{"cgpa"},
		prefixes: []string{"cgpa"},
	},
	RoleSubjectGrade: {
		names:    []string{"subject grade", "subjectgrade", "grade"},
		contains: []string{"grade"},
	},
	RoleAcademicYear: {
		names: []string{"academic year", "academicyear", "acad year", "ay", "exam year", "year of exam"},
	},
	RoleSourceFile: {
		names: []string{"source file", "sourcefile", "file name", "filename", "source", "file"},
	},
}

// Normalize lowercases a header, replaces punctuation runs with a single
// space and trims the result, so "Sem-No." and "sem   no" compare equal.
func Normalize(header string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(header) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// ResolveColumn locates the column serving a semantic role. It returns the
// first matching header index, or -1 when no header matches. Callers must
// treat -1 as "feature unavailable" and degrade, never fail.
func ResolveColumn(headers []string, role Role) int {
	rule, ok := roleRules[role]
	if !ok {
		return -1
	}

	for i, header := range headers {
		if matchesRule(Normalize(header), rule) {
			return i
		}
	}
	return -1
}

func matchesRule(normalized string, rule roleRule) bool {
	if normalized == "" {
		return false
	}
	for _, ex := range rule.excludes {
		if strings.Contains(normalized, ex) {
			return false
		}
	}
	for _, name := range rule.names {
		if normalized == name {
			return true
		}
	}
	for _, prefix := range rule.prefixes {
		if strings.HasPrefix(normalized, prefix) {
			return true
		}
	}
	for _, sub := range rule.contains {
		if strings.Contains(normalized, sub) {
			return true
		}
	}
	return false
}

// SubjectColumn is one subject's grade column, optionally paired with the
// column holding that subject's name.
type SubjectColumn struct {
	Code       string
	GradeIndex int
	NameIndex  int // -1 when the sheet carries no name column for the subject
}

// SubjectName resolves the display name for a subject in the given row,
// falling back to the subject code when no name column exists.
func (c SubjectColumn) SubjectName(row Row) string {
	if c.NameIndex >= 0 {
		if name := StringOf(Cell(row, c.NameIndex)); name != "" {
			return name
		}
	}
	return c.Code
}

// SubjectColumns discovers subject grade/name column pairs. Two header
// conventions are supported: "<CODE>GR" paired with "<CODE>Name", and
// "Subject Grade" paired with "Subject Name" (optionally numbered, as in
// "Subject 1 Grade" / "Subject 1 Name").
func SubjectColumns(headers []string) []SubjectColumn {
	compact := make([]string, len(headers))
	for i, h := range headers {
		compact[i] = strings.ReplaceAll(Normalize(h), " ", "")
	}

	used := make(map[int]bool)
	var cols []SubjectColumn

	// <CODE>GR / <CODE>Name pairs.
	for i, c := range compact {
		if len(c) <= 2 || !strings.HasSuffix(c, "gr") || strings.Contains(c, "subject") {
			continue
		}
		code := strings.TrimSuffix(c, "gr")
		nameIdx := -1
		for j, cn := range compact {
			if j != i && cn == code+"name" {
				nameIdx = j
				break
			}
		}
		if nameIdx < 0 && !hasSubjectCode(code) {
			continue
		}
		used[i] = true
		if nameIdx >= 0 {
			used[nameIdx] = true
		}
		cols = append(cols, SubjectColumn{Code: strings.ToUpper(code), GradeIndex: i, NameIndex: nameIdx})
	}

	// Subject Grade / Subject Name pairs.
	for i, c := range compact {
		if used[i] || !strings.Contains(c, "subject") || !strings.Contains(c, "grade") {
			continue
		}
		key := strings.Replace(c, "grade", "", 1)
		nameIdx := -1
		for j, cn := range compact {
			if j == i || used[j] || !strings.Contains(cn, "subject") || strings.Contains(cn, "grade") {
				continue
			}
			if strings.Replace(cn, "name", "", 1) == key {
				nameIdx = j
				break
			}
		}
		used[i] = true
		if nameIdx >= 0 {
			used[nameIdx] = true
		}
		cols = append(cols, SubjectColumn{Code: strings.ToUpper(key), GradeIndex: i, NameIndex: nameIdx})
	}

	return cols
}

// hasSubjectCode guards the bare "<CODE>GR" form (no paired name column):
// the prefix must look like a course code, i.e. contain at least one digit.
// This keeps ordinary words ending in "gr" from being read as subjects.
func hasSubjectCode(code string) bool {
	for _, r := range code {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
