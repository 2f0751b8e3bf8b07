package retrieval

import "testing"

func TestFormatContext(t *testing.T) {
	pruned := PrunedResult{Tables: []TableColumns{
		{Table: "student_details", Columns: []string{"student_id", "given_name", "last_name"}},
		{Table: "grade", Columns: []string{"student_id", "grade"}},
	}}

	got := FormatContext(pruned)
	want := "(TABLE: student_details COLUMNS: student_id, given_name, last_name) (TABLE: grade COLUMNS: student_id, grade)"
	if got != want {
		t.Fatalf("FormatContext() = %q, want %q", got, want)
	}
}

func TestFormatContextEmpty(t *testing.T) {
	if got := FormatContext(PrunedResult{}); got != "" {
		t.Fatalf("FormatContext(empty) = %q, want empty string", got)
	}
}
