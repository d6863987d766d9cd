
package ingestion

import (
	"errors"
	"strings"
	"testing"
)

const validCSV = `StudentID,Name,Department,Semester,CourseCode,CourseName,CreditHours,Marks
S001,alice smith,computer science,2024-1,cs101,Intro to Programming,3,85
S001,alice smith,computer science,2024-1,ma101,Calculus I,3.14,90.456
S002,bob jones,computer science,2024-1,cs101,Intro to Programming,4,78
`

func TestLoadRecords(t *testing.T) {
	records, err := LoadRecords(strings.NewReader(validCSV))
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("record count = %d, want 3", len(records))
	}

	first := records[0]
	if first.StudentID != "S001" {
		t.Errorf("StudentID = %s, want S001", first.StudentID)
	}
	if first.Name != "Alice Smith" {
		t.Errorf("Name = %s, want Alice Smith (title-cased)", first.Name)
	}
	if first.Department != "Computer Science" {
		t.Errorf("Department = %s, want Computer Science", first.Department)
	}
	if first.CourseCode != "CS101" {
		t.Errorf("CourseCode = %s, want CS101 (upper-cased)", first.CourseCode)
	}

	second := records[1]
	if second.CreditHours != 3.1 {
		t.Errorf("CreditHours = %v, want 3.1 (rounded to one decimal)", second.CreditHours)
	}
	if second.Marks != 90.46 {
		t.Errorf("Marks = %v, want 90.46 (rounded to two decimals)", second.Marks)
	}
}

func TestLoadRecords_AliasHeaders(t *testing.T) {
	csv := `student_id,student_name,dept,sem,course_code,course_name,credits,marks
S001,alice smith,cs,2024-1,CS101,Intro,3,85
`
	records, err := LoadRecords(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadRecords with alias headers failed: %v", err)
	}
	if len(records) != 1 || records[0].StudentID != "S001" {
		t.Errorf("records = %+v, want one record for S001", records)
	}
}

func TestLoadRecords_EmptyInput(t *testing.T) {
	_, err := LoadRecords(strings.NewReader(""))
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("error = %v, want ErrEmptyFile", err)
	}

	// A header with no data rows is also empty.
	_, err = LoadRecords(strings.NewReader("StudentID,Name,Department,Semester,CourseCode,CourseName,CreditHours,Marks\n"))
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("header-only error = %v, want ErrEmptyFile", err)
	}
}

func TestLoadRecords_MissingColumnsAggregated(t *testing.T) {
	csv := `StudentID,Name
S001,alice smith
`
	_, err := LoadRecords(strings.NewReader(csv))

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if len(vErr.Problems) != 1 {
		t.Fatalf("problems = %v, want a single aggregated message", vErr.Problems)
	}
	for _, col := range []string{"Department", "Semester", "CourseCode", "CourseName", "CreditHours", "Marks"} {
		if !strings.Contains(vErr.Problems[0], col) {
			t.Errorf("missing-column message %q does not name %s", vErr.Problems[0], col)
		}
	}
}

func TestLoadRecords_DecodesLatin1(t *testing.T) {
	// "josé garcía" with 0xE9/0xED bytes is invalid UTF-8 and must fall back
	// to a single-byte decoder.
	csv := "StudentID,Name,Department,Semester,CourseCode,CourseName,CreditHours,Marks\n" +
		"S001,jos\xe9 garc\xeda,computer science,2024-1,CS101,Intro,3,85\n"
	records, err := LoadRecords(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	if records[0].Name != "José García" {
		t.Errorf("Name = %s, want José García", records[0].Name)
	}
}

func TestCoerceTypes_DropsUnusableRows(t *testing.T) {
	table := &Table{
		Header: []string{"StudentID", "Name", "Department", "Semester", "CourseCode", "CourseName", "CreditHours", "Marks"},
		Rows: [][]string{
			{"S001", "alice", "cs", "2024-1", "CS101", "Intro", "3", "85"},
			{"", "bob", "cs", "2024-1", "CS101", "Intro", "3", "70"},          // missing student ID
			{"S003", "carol", "cs", "2024-1", "CS101", "Intro", "3", "high"}, // unparseable marks
			{"S004", "  dan  ", "cs", "2024-1", "CS101", "Intro", "3", "60"},
		},
	}

	dropped := CoerceTypes(table)
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("remaining rows = %d, want 2", len(table.Rows))
	}
	if table.Rows[1][1] != "dan" {
		t.Errorf("cells should be trimmed, got %q", table.Rows[1][1])
	}
}

func TestValidateRecords_AggregatesRowProblems(t *testing.T) {
	table := &Table{
		Header: []string{"StudentID", "Name", "Department", "Semester", "CourseCode", "CourseName", "CreditHours", "Marks"},
		Rows: [][]string{
			{"S001", "alice", "cs", "2024-1", "CS101", "Intro", "3", "150"}, // marks out of range
			{"S002", "bob", "cs", "2024-1", "CS101", "Intro", "12", "85"},   // credits too large
			{"S003", "carol", "", "2024-1", "CS101", "Intro", "3", "85"},    // empty department
		},
	}

	_, err := ValidateRecords(table)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if len(vErr.Problems) != 3 {
		t.Fatalf("problems = %v, want 3 entries", vErr.Problems)
	}
	wantSubstrings := []string{
		"row 1: marks must be between 0 and 100",
		"row 2: credit hours must not exceed 10",
		"row 3: department cannot be empty",
	}
	for i, want := range wantSubstrings {
		if vErr.Problems[i] != want {
			t.Errorf("problems[%d] = %q, want %q", i, vErr.Problems[i], want)
		}
	}
}

func TestValidateRecords_AllOrNothing(t *testing.T) {
	table := &Table{
		Header: []string{"StudentID", "Name", "Department", "Semester", "CourseCode", "CourseName", "CreditHours", "Marks"},
		Rows: [][]string{
			{"S001", "alice", "cs", "2024-1", "CS101", "Intro", "3", "85"},
			{"S002", "bob", "cs", "2024-1", "CS101", "Intro", "0", "85"}, // zero credits
		},
	}

	records, err := ValidateRecords(table)
	if err == nil {
		t.Fatal("expected an error")
	}
	if records != nil {
		t.Errorf("records = %v, want nil when any row fails", records)
	}
}

func TestReadTable_RaggedRows(t *testing.T) {
	table, err := ReadTable(strings.NewReader("A,B,C\n1,2\n1,2,3,4\n"))
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if got := table.Cell(table.Rows[0], "C"); got != "" {
		t.Errorf("short row cell = %q, want empty", got)
	}
	if got := table.Cell(table.Rows[1], "C"); got != "3" {
		t.Errorf("long row cell = %q, want 3", got)
	}
}

func TestNormalizeColumnNames(t *testing.T) {
	table := &Table{Header: []string{" studentid ", "STUDENT_NAME", "Dept", "unknown_column"}}
	NormalizeColumnNames(table)

	want := []string{"StudentID", "Name", "Department", "unknown_column"}
	for i, h := range want {
		if table.Header[i] != h {
			t.Errorf("header[%d] = %s, want %s", i, table.Header[i], h)
		}
	}
}
