package dataset

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Sem-No.", "sem no"},
		{"  SEMESTER  ", "semester"},
		{"Map__Number", "map number"},
		{"SPI (Sem 1)", "spi sem 1"},
		{"", ""},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveColumnSemesterSynonyms(t *testing.T) {
	// Any of these must resolve as the semester column.
	for _, header := range []string{"Sem", "SEMESTER", "Sem No", "semno", "Semester-03", "sem_2"} {
		headers := []string{"Name", header, "Result"}
		if got := ResolveColumn(headers, RoleSemester); got != 1 {
			t.Errorf("ResolveColumn(%q, semester) = %d, want 1", header, got)
		}
	}

	// "Subject" must not match the semester role.
	if got := ResolveColumn([]string{"Subject"}, RoleSemester); got != -1 {
		t.Errorf("ResolveColumn([Subject], semester) = %d, want -1", got)
	}
}

func TestResolveColumnRoles(t *testing.T) {
	headers := []string{"Map Number", "Student Name", "BRANCH", "Sem", "Result", "No. of Backlogs", "SPI", "CPI", "CGPA", "Academic Year"}

	cases := []struct {
		role Role
		want int
	}{
		{RoleStudentKey, 0},
		{RoleStudentName, 1},
		{RoleBranch, 2},
		{RoleSemester, 3},
		{RoleResult, 4},
		{RoleBacklog, 5},
		{RoleSPI, 6},
		{RoleCPI, 7},
		{RoleCGPA, 8},
		{RoleAcademicYear, 9},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			if got := ResolveColumn(headers, tc.role); got != tc.want {
				t.Errorf("ResolveColumn(%s) = %d, want %d", tc.role, got, tc.want)
			}
		})
	}
}

func TestResolveColumnDegradesToMinusOne(t *testing.T) {
	if got := ResolveColumn(nil, RoleResult); got != -1 {
		t.Errorf("nil headers: got %d, want -1", got)
	}
	if got := ResolveColumn([]string{}, RoleBranch); got != -1 {
		t.Errorf("empty headers: got %d, want -1", got)
	}
	if got := ResolveColumn([]string{"Foo", "Bar"}, RoleBacklog); got != -1 {
		t.Errorf("no match: got %d, want -1", got)
	}
	if got := ResolveColumn([]string{"Sem"}, Role("no-such-role")); got != -1 {
		t.Errorf("unknown role: got %d, want -1", got)
	}
}

func TestResolveColumnFirstMatchWins(t *testing.T) {
	headers := []string{"Semester", "Sem No"}
	if got := ResolveColumn(headers, RoleSemester); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestSubjectColumnsCodePairs(t *testing.T) {
	headers := []string{"Map Number", "MA101GR", "MA101Name", "PH102GR", "PH102Name", "Result"}
	cols := SubjectColumns(headers)

	if len(cols) != 2 {
		t.Fatalf("got %d subject columns, want 2: %+v", len(cols), cols)
	}
	if cols[0].Code != "MA101" || cols[0].GradeIndex != 1 || cols[0].NameIndex != 2 {
		t.Errorf("first pair = %+v", cols[0])
	}
	if cols[1].Code != "PH102" || cols[1].GradeIndex != 3 || cols[1].NameIndex != 4 {
		t.Errorf("second pair = %+v", cols[1])
	}
}

func TestSubjectColumnsGenericPairs(t *testing.T) {
	headers := []string{"Subject 1 Grade", "Subject 1 Name", "Subject 2 Grade", "Subject 2 Name"}
	cols := SubjectColumns(headers)

	if len(cols) != 2 {
		t.Fatalf("got %d subject columns, want 2: %+v", len(cols), cols)
	}
	if cols[0].GradeIndex != 0 || cols[0].NameIndex != 1 {
		t.Errorf("first pair = %+v", cols[0])
	}
	if cols[1].GradeIndex != 2 || cols[1].NameIndex != 3 {
		t.Errorf("second pair = %+v", cols[1])
	}

	row := Row{"FF", "Maths-1", "AB", "Physics"}
	if name := cols[0].SubjectName(row); name != "Maths-1" {
		t.Errorf("SubjectName = %q, want Maths-1", name)
	}
}

func TestSubjectColumnsIgnoresNonSubjects(t *testing.T) {
	// "gr"-suffixed words without a digit or a paired name column are not
	// subject codes.
	headers := []string{"Mgr", "Backlog", "Result"}
	if cols := SubjectColumns(headers); len(cols) != 0 {
		t.Errorf("got %+v, want none", cols)
	}
}

func TestSubjectColumnsGradeOnly(t *testing.T) {
	headers := []string{"CE203GR", "Result"}
	cols := SubjectColumns(headers)
	if len(cols) != 1 || cols[0].NameIndex != -1 {
		t.Fatalf("got %+v, want one grade-only column", cols)
	}
	if name := cols[0].SubjectName(Row{"FF", "FAIL"}); name != "CE203" {
		t.Errorf("SubjectName fallback = %q, want CE203", name)
	}
}
