
package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"uniperf-server/config"
	"uniperf-server/models"
)

const cohortCSV = `StudentID,Name,Department,Semester,CourseCode,CourseName,CreditHours,Marks
S001,alice smith,computer science,2024-1,CS101,Intro to Programming,3,85
S001,alice smith,computer science,2024-1,MA101,Calculus I,3,90
S002,bob jones,computer science,2024-1,CS101,Intro to Programming,4,78
S002,bob jones,computer science,2024-1,MA101,Calculus I,4,82
`

func testConfig() *config.Config {
	return &config.Config{
		DefaultGradeScale: "4.0",
		LeaderboardSize:   10,
		MaxUploadSizeMB:   50,
	}
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	router := gin.New()
	router.POST("/analyze/cohort", AnalyzeCohort(cfg))
	router.POST("/analyze/top", AnalyzeTopStudents(cfg))
	router.POST("/analyze/summary", AnalyzeSummary())
	router.GET("/scales/:scale_type", GetScaleConfig())
	router.POST("/scales/validate", ValidateScaleConfig())
	return router
}

func uploadRequest(t *testing.T, target, csv string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if csv != "" {
		part, err := writer.CreateFormFile("file", "cohort.csv")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write([]byte(csv)); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %s: %v", key, err)
		}
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestAnalyzeCohort(t *testing.T) {
	router := testRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/analyze/cohort", cohortCSV, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var summary models.CohortSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if summary.TotalStudents != 2 {
		t.Errorf("TotalStudents = %d, want 2", summary.TotalStudents)
	}
	if summary.PassRate != 100.0 {
		t.Errorf("PassRate = %v, want 100.0", summary.PassRate)
	}
}

func TestAnalyzeCohort_MissingFile(t *testing.T) {
	router := testRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/analyze/cohort", "", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalyzeCohort_ValidationFailure(t *testing.T) {
	badCSV := `StudentID,Name,Department,Semester,CourseCode,CourseName,CreditHours,Marks
S001,alice smith,cs,2024-1,CS101,Intro,3,150
`
	router := testRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/analyze/cohort", badCSV, nil))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "marks must be between 0 and 100") {
		t.Errorf("response does not carry the row problem: %s", w.Body.String())
	}
}

func TestAnalyzeCohort_UnknownScale(t *testing.T) {
	router := testRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/analyze/cohort", cohortCSV, map[string]string{"scale": "letters"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestAnalyzeTopStudents_QueryOverridesSize(t *testing.T) {
	router := testRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/analyze/top?n=1", cohortCSV, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var top []models.StudentSummary
	if err := json.Unmarshal(w.Body.Bytes(), &top); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("leaderboard size = %d, want 1", len(top))
	}
	if top[0].StudentID != "S001" {
		t.Errorf("top student = %s, want S001", top[0].StudentID)
	}
}

func TestAnalyzeSummary(t *testing.T) {
	router := testRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/analyze/summary", cohortCSV, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var summary models.DataSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if summary.TotalRecords != 4 || summary.UniqueStudents != 2 {
		t.Errorf("summary = %+v, want 4 records over 2 students", summary)
	}
}

func TestGetScaleConfig(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scales/4.0", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"scale_type", "grade_mappings", "grade_boundaries", "passing_grade"} {
		if !strings.Contains(body, want) {
			t.Errorf("export missing %q: %s", want, body)
		}
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scales/unknown", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown scale status = %d, want 404", w.Code)
	}
}

func TestValidateScaleConfig(t *testing.T) {
	router := testRouter()

	valid := `
scale_type: custom
grade_mappings:
  Pass: 4.0
  Fail: 0.0
grade_boundaries:
  Pass: [50, 100]
  Fail: [0, 49]
passing_grade: Pass
`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scales/validate", strings.NewReader(valid)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var result struct {
		Valid      bool     `json:"valid"`
		Violations []string `json:"violations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !result.Valid || len(result.Violations) != 0 {
		t.Errorf("result = %+v, want valid with no violations", result)
	}

	inconsistent := `
grade_mappings:
  A: 4.0
grade_boundaries:
  B: [0, 100]
passing_grade: A
`
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scales/validate", strings.NewReader(inconsistent)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Valid || len(result.Violations) == 0 {
		t.Errorf("result = %+v, want invalid with violations", result)
	}
}

func TestAnalyzeCohort_CustomScaleUpload(t *testing.T) {
	customScale := `
scale_type: custom
grade_mappings:
  Pass: 4.0
  Fail: 0.0
grade_boundaries:
  Pass: [50, 100]
  Fail: [0, 49]
passing_grade: Pass
`
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	filePart, _ := writer.CreateFormFile("file", "cohort.csv")
	filePart.Write([]byte(cohortCSV))
	scalePart, _ := writer.CreateFormFile("scale_config", "scale.yaml")
	scalePart.Write([]byte(customScale))
	writer.WriteField("scale", "custom")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/analyze/cohort", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	router := testRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var summary models.CohortSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	// Every mark is above 50, so both students earn flat 4.0 GPAs.
	if summary.AverageGPA != 4.0 || summary.PassRate != 100.0 {
		t.Errorf("summary = %+v, want average 4.0 and pass rate 100.0", summary)
	}
}
