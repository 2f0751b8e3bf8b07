package schema

import (
	"reflect"
	"testing"
)

const studentSchema = `-- Personal details of each enrolled student
CREATE TABLE student_details (
-- Unique identifier assigned to the student on admission
student_id INTEGER PRIMARY KEY,
-- Given name of the student
given_name TEXT NOT NULL,
-- Age of the student in years
age INTEGER NOT NULL
);

-- Units each student is enrolled in for the current semester
CREATE TABLE unit_enrolment (
-- Identifier of the enrolled student
student_id INTEGER,
-- Title of the unit the student is taking
unit_title TEXT,
FOREIGN KEY (student_id) REFERENCES student_details (student_id)
);
`

func TestParseStudentSchema(t *testing.T) {
	model := Parse(studentSchema)

	if len(model.Tables) != 2 {
		t.Fatalf("Parse() returned %d tables, want 2", len(model.Tables))
	}

	details := model.Tables[0]
	if details.Name != "student_details" {
		t.Fatalf("first table = %q, want student_details", details.Name)
	}
	if details.Comment != "Personal details of each enrolled student" {
		t.Fatalf("table comment = %q", details.Comment)
	}
	wantColumns := []Column{
		{Name: "given_name", Type: "TEXT", Comment: "Given name of the student"},
		{Name: "age", Type: "INTEGER", Comment: "Age of the student in years"},
	}
	if !reflect.DeepEqual(details.Columns, wantColumns) {
		t.Fatalf("student_details columns = %+v, want %+v", details.Columns, wantColumns)
	}
	wantConstraints := []string{"student_id INTEGER PRIMARY KEY"}
	if !reflect.DeepEqual(details.Constraints, wantConstraints) {
		t.Fatalf("student_details constraints = %+v, want %+v", details.Constraints, wantConstraints)
	}

	enrolment := model.Tables[1]
	if enrolment.Name != "unit_enrolment" {
		t.Fatalf("second table = %q, want unit_enrolment", enrolment.Name)
	}
	if len(enrolment.Columns) != 2 || enrolment.Columns[0].Name != "student_id" || enrolment.Columns[1].Name != "unit_title" {
		t.Fatalf("unit_enrolment columns = %+v", enrolment.Columns)
	}
	refs := ForeignKeyRefs(enrolment.Constraints)
	if len(refs) != 1 || refs[0].ReferencedTable != "student_details" {
		t.Fatalf("ForeignKeyRefs() = %+v", refs)
	}
	if !reflect.DeepEqual(refs[0].Columns, []string{"student_id"}) {
		t.Fatalf("foreign key columns = %+v", refs[0].Columns)
	}
}

func TestParseSkipsUncommentedTable(t *testing.T) {
	text := `-- Commented table
CREATE TABLE first (
-- A column
a INTEGER
);

CREATE TABLE second (
b INTEGER
);
`
	model := Parse(text)
	if len(model.Tables) != 1 {
		t.Fatalf("Parse() returned %d tables, want 1", len(model.Tables))
	}
	if model.Tables[0].Name != "first" {
		t.Fatalf("surviving table = %q, want first", model.Tables[0].Name)
	}
}

func TestParseTableCommentSeedsFirstColumnComment(t *testing.T) {
	// The header comment line doubles as the pending column comment, so a
	// first column with no comment of its own inherits it.
	text := `-- Orders placed by customers
CREATE TABLE orders (
order_id INTEGER,
-- Total order value
total REAL
);
`
	model := Parse(text)
	if len(model.Tables) != 1 {
		t.Fatalf("Parse() returned %d tables, want 1", len(model.Tables))
	}
	columns := model.Tables[0].Columns
	if len(columns) != 2 {
		t.Fatalf("columns = %+v", columns)
	}
	if columns[0].Comment != "Orders placed by customers" {
		t.Fatalf("first column comment = %q, want inherited header comment", columns[0].Comment)
	}
	if columns[1].Comment != "Total order value" {
		t.Fatalf("second column comment = %q", columns[1].Comment)
	}
}

func TestParseDuplicateColumnKeepsPositionLastWins(t *testing.T) {
	text := `-- Duplicated columns
CREATE TABLE dup (
-- first declaration
a INTEGER,
-- other column
b TEXT,
-- second declaration
a REAL
);
`
	model := Parse(text)
	columns := model.Tables[0].Columns
	if len(columns) != 2 {
		t.Fatalf("columns = %+v, want 2 entries", columns)
	}
	if columns[0].Name != "a" || columns[0].Type != "REAL" || columns[0].Comment != "second declaration" {
		t.Fatalf("redeclared column = %+v, want latest declaration in original slot", columns[0])
	}
	if columns[1].Name != "b" {
		t.Fatalf("second column = %+v", columns[1])
	}
}

func TestParseDuplicateTableLastWins(t *testing.T) {
	text := `-- First declaration
CREATE TABLE t (
-- one
a INTEGER
);

-- Marker so the next table splits
CREATE TABLE other (
-- x
x INTEGER
);

-- Second declaration
CREATE TABLE t (
-- two
b INTEGER
);
`
	model := Parse(text)
	if len(model.Tables) != 2 {
		t.Fatalf("Parse() returned %d tables, want 2", len(model.Tables))
	}
	if model.Tables[0].Name != "t" || model.Tables[0].Comment != "Second declaration" {
		t.Fatalf("redeclared table = %+v, want second declaration in original slot", model.Tables[0])
	}
	if _, ok := model.Tables[0].Column("b"); !ok {
		t.Fatalf("redeclared table columns = %+v", model.Tables[0].Columns)
	}
}

func TestParseEmptyInput(t *testing.T) {
	model := Parse("")
	if !model.Empty() {
		t.Fatalf("Parse(\"\") = %+v, want empty model", model)
	}
}

func TestSplitSegmentsOnlyBeforeCommentedHeaders(t *testing.T) {
	// A semicolon not followed by a commented CREATE TABLE header stays
	// inside its segment.
	text := "-- a\nCREATE TABLE a (\n-- c\nc INTEGER\n);\nINSERT INTO a VALUES (1);\n\n-- b\nCREATE TABLE b (\n-- d\nd INTEGER\n);\n"
	segments := splitSegments(text)
	if len(segments) != 2 {
		t.Fatalf("splitSegments() produced %d segments, want 2: %q", len(segments), segments)
	}
	model := Parse(text)
	if len(model.Tables) != 2 {
		t.Fatalf("Parse() returned %d tables, want 2", len(model.Tables))
	}
}

func TestForeignKeyRefsMultiColumn(t *testing.T) {
	refs := ForeignKeyRefs([]string{
		"FOREIGN KEY (tenant_id, user_id) REFERENCES users (tenant_id, user_id)",
		"PRIMARY KEY (id)",
	})
	if len(refs) != 1 {
		t.Fatalf("ForeignKeyRefs() = %+v, want 1 ref", refs)
	}
	if refs[0].ReferencedTable != "users" {
		t.Fatalf("referenced table = %q", refs[0].ReferencedTable)
	}
	if !reflect.DeepEqual(refs[0].Columns, []string{"tenant_id", "user_id"}) {
		t.Fatalf("columns = %+v", refs[0].Columns)
	}
}
