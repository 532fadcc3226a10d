package detention

import (
	"reflect"
	"strings"
	"testing"
)

func TestRequiredSemesters(t *testing.T) {
	cases := []struct {
		entering int
		want     []int
	}{
		{1, nil},
		{4, nil},
		{5, []int{1, 2}},
		{6, []int{3, 4}},
		{7, []int{5}},
		{8, []int{5, 6}},
		{9, []int{7}},
		{10, []int{7, 8}},
		{11, nil},
		{0, nil},
	}
	for _, tc := range cases {
		if got := RequiredSemesters(tc.entering); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("RequiredSemesters(%d) = %v, want %v", tc.entering, got, tc.want)
		}
	}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		name     string
		entering int
		cleared  []int
		detained bool
		missing  []int
	}{
		{"semester 5 missing semester 2", 5, []int{1}, true, []int{2}},
		{"semester 5 both cleared", 5, []int{1, 2}, false, nil},
		{"semester 5 nothing cleared", 5, nil, true, []int{1, 2}},
		{"semester 6 missing both", 6, []int{1, 2}, true, []int{3, 4}},
		{"semester 7 cleared 5", 7, []int{5}, false, nil},
		{"semester 8 missing 6", 8, []int{1, 2, 3, 4, 5}, true, []int{6}},
		{"semester 10 missing 8", 10, []int{7}, true, []int{8}},
		{"no rule below 5", 4, nil, false, nil},
		{"extra cleared semesters ignored", 5, []int{1, 2, 3, 4, 5, 6}, false, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(tc.entering, tc.cleared)
			if d.Detained != tc.detained {
				t.Fatalf("Detained = %t, want %t", d.Detained, tc.detained)
			}
			if !reflect.DeepEqual(d.Missing, tc.missing) {
				t.Errorf("Missing = %v, want %v", d.Missing, tc.missing)
			}
			if d.Detained && !strings.Contains(d.Reason, "not cleared") {
				t.Errorf("Reason %q must mention the uncleared requirement", d.Reason)
			}
			if !d.Detained && d.Reason != "" {
				t.Errorf("Reason must be empty when not detained, got %q", d.Reason)
			}
		})
	}
}
