// --- uniperf-server/ingestion/ingestion.go ---
package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"uniperf-server/models"
	"uniperf-server/utils"
)

// RequiredColumns is the canonical schema for uploaded record sets. Column
// matching is case-insensitive.
var RequiredColumns = []string{
	"StudentID", "Name", "Department", "Semester",
	"CourseCode", "CourseName", "CreditHours", "Marks",
}

// columnAliases maps common synonym headers (lower-cased) to canonical names.
var columnAliases = map[string]string{
	"student_id":   "StudentID",
	"student_name": "Name",
	"dept":         "Department",
	"sem":          "Semester",
	"course_code":  "CourseCode",
	"course_name":  "CourseName",
	"credits":      "CreditHours",
	"marks":        "Marks",
	"grade":        "Grade",
	"gpa":          "GPA",
}

// criticalColumns are the columns a row must carry a usable value in to
// survive type coercion.
var criticalColumns = []string{"StudentID", "Name", "Marks", "CreditHours"}

// Structural input errors.
var (
	ErrEmptyFile           = errors.New("uploaded file is empty")
	ErrUnsupportedEncoding = errors.New("could not decode CSV file with any supported encoding")
)

// ValidationError aggregates every schema violation found in a batch, so a
// caller sees the full list at once instead of the first failure.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Problems, "; "))
}

// Table is an in-memory tabular dataset: a header row plus data rows. Rows
// may be ragged; missing cells read as empty strings.
type Table struct {
	Header []string
	Rows   [][]string
}

// Cell returns the value of the named column in the given row, or "" if the
// column does not exist or the row is too short.
func (t *Table) Cell(row []string, column string) string {
	for i, h := range t.Header {
		if h == column && i < len(row) {
			return row[i]
		}
	}
	return ""
}

func (t *Table) hasColumn(column string) bool {
	for _, h := range t.Header {
		if h == column {
			return true
		}
	}
	return false
}

// supported text encodings, tried in order; the first that decodes wins.
var encodings = []struct {
	name    string
	decoder *encoding.Decoder
}{
	{"utf-8", nil}, // validated, not transcoded
	{"latin-1", charmap.ISO8859_1.NewDecoder()},
	{"windows-1252", charmap.Windows1252.NewDecoder()},
	{"iso-8859-1", charmap.ISO8859_1.NewDecoder()},
}

// ReadTable reads comma-delimited data from r, resolving the text encoding
// by fallback, and returns the raw table. An empty input (not even a header
// row) fails with ErrEmptyFile.
func ReadTable(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyFile
	}

	text, err := decodeText(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1 // ragged rows surface as missing cells, not parse failures
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	return &Table{Header: rows[0], Rows: rows[1:]}, nil
}

func decodeText(raw []byte) (string, error) {
	for _, enc := range encodings {
		if enc.decoder == nil {
			if utf8.Valid(raw) {
				log.Printf("Decoded CSV input as %s", enc.name)
				return string(raw), nil
			}
			continue
		}
		decoded, err := enc.decoder.Bytes(raw)
		if err != nil {
			continue
		}
		log.Printf("Decoded CSV input as %s", enc.name)
		return string(decoded), nil
	}
	return "", ErrUnsupportedEncoding
}

// ValidateColumns checks that every required column is present, matching
// case-insensitively. An empty table (no data rows) fails with ErrEmptyFile;
// otherwise every missing column is reported in a single ValidationError.
func ValidateColumns(t *Table) error {
	if t == nil || len(t.Rows) == 0 {
		return ErrEmptyFile
	}

	present := make(map[string]bool, len(t.Header))
	for _, h := range t.Header {
		present[strings.ToLower(strings.TrimSpace(h))] = true
	}

	var missing []string
	for _, req := range RequiredColumns {
		if !present[strings.ToLower(req)] {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{
			Problems: []string{fmt.Sprintf("required columns missing: %s", strings.Join(missing, ", "))},
		}
	}

	log.Printf("Column validation passed with %d columns", len(t.Header))
	return nil
}

// NormalizeColumnNames renames headers matching a required column
// (case-insensitive) or a known alias to the canonical form. Unmatched
// headers pass through unchanged.
func NormalizeColumnNames(t *Table) {
	for i, h := range t.Header {
		clean := strings.ToLower(strings.TrimSpace(h))
		renamed := false
		for _, req := range RequiredColumns {
			if clean == strings.ToLower(req) {
				t.Header[i] = req
				renamed = true
				break
			}
		}
		if renamed {
			continue
		}
		if canonical, ok := columnAliases[clean]; ok {
			t.Header[i] = canonical
		}
	}
}

// CoerceTypes trims every cell and drops rows that are missing a usable
// value in any critical column (empty strings, or unparseable numerics in
// CreditHours/Marks). Malformed individual cells never raise an error; the
// number of dropped rows is returned and logged.
func CoerceTypes(t *Table) int {
	for _, row := range t.Rows {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
	}

	kept := t.Rows[:0]
	dropped := 0
	for _, row := range t.Rows {
		if rowUsable(t, row) {
			kept = append(kept, row)
		} else {
			dropped++
		}
	}
	t.Rows = kept

	if dropped > 0 {
		log.Printf("Warning: removed %d rows with missing critical data", dropped)
	}
	log.Printf("Type coercion completed, %d rows remaining", len(t.Rows))
	return dropped
}

func rowUsable(t *Table, row []string) bool {
	for _, col := range criticalColumns {
		if !t.hasColumn(col) {
			continue // missing columns are a schema problem, reported elsewhere
		}
		value := t.Cell(row, col)
		if value == "" {
			return false
		}
		if col == "Marks" || col == "CreditHours" {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return false
			}
		}
	}
	return true
}

// ValidateRecords converts every table row into a CourseRecord, collecting
// all per-row violations. The full record list is returned only when zero
// rows failed; otherwise a single aggregated ValidationError reports every
// failing row index and reason.
func ValidateRecords(t *Table) ([]models.CourseRecord, error) {
	var (
		records  []models.CourseRecord
		problems []string
	)

	for i, row := range t.Rows {
		record, errs := buildRecord(t, row)
		if len(errs) > 0 {
			for _, e := range errs {
				problems = append(problems, fmt.Sprintf("row %d: %s", i+1, e))
			}
			continue
		}
		records = append(records, record)
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	log.Printf("Successfully validated %d student records", len(records))
	return records, nil
}

func buildRecord(t *Table, row []string) (models.CourseRecord, []string) {
	var errs []string

	studentID := strings.TrimSpace(t.Cell(row, "StudentID"))
	if studentID == "" {
		errs = append(errs, "student ID cannot be empty")
	}
	name := strings.TrimSpace(t.Cell(row, "Name"))
	if name == "" {
		errs = append(errs, "student name cannot be empty")
	}
	department := strings.TrimSpace(t.Cell(row, "Department"))
	if department == "" {
		errs = append(errs, "department cannot be empty")
	}
	semester := strings.TrimSpace(t.Cell(row, "Semester"))
	if semester == "" {
		errs = append(errs, "semester cannot be empty")
	}
	courseCode := strings.TrimSpace(t.Cell(row, "CourseCode"))
	if courseCode == "" {
		errs = append(errs, "course code cannot be empty")
	}
	courseName := strings.TrimSpace(t.Cell(row, "CourseName"))
	if courseName == "" {
		errs = append(errs, "course name cannot be empty")
	}

	credits, err := strconv.ParseFloat(t.Cell(row, "CreditHours"), 64)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid credit hours '%s'", t.Cell(row, "CreditHours")))
	} else if credits <= 0 {
		errs = append(errs, "credit hours must be positive")
	} else if credits > 10 {
		errs = append(errs, "credit hours must not exceed 10")
	}

	marks, err := strconv.ParseFloat(t.Cell(row, "Marks"), 64)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid marks '%s'", t.Cell(row, "Marks")))
	} else if marks < 0 || marks > 100 {
		errs = append(errs, "marks must be between 0 and 100")
	}

	if len(errs) > 0 {
		return models.CourseRecord{}, errs
	}

	return models.CourseRecord{
		StudentID:   studentID,
		Name:        utils.TitleCase(name),
		Department:  utils.TitleCase(department),
		Semester:    semester,
		CourseCode:  strings.ToUpper(courseCode),
		CourseName:  courseName,
		CreditHours: utils.Round1(credits),
		Marks:       utils.Round2(marks),
	}, nil
}

// LoadRecords runs the full ingestion pipeline: decode, parse, validate
// columns, normalize headers, coerce types and validate rows.
func LoadRecords(r io.Reader) ([]models.CourseRecord, error) {
	table, err := ReadTable(r)
	if err != nil {
		return nil, err
	}
	NormalizeColumnNames(table)
	if err := ValidateColumns(table); err != nil {
		return nil, err
	}
	CoerceTypes(table)
	return ValidateRecords(table)
}
