// --- uniperf-server/handlers/api_handlers.go ---
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"uniperf-server/analytics"
	"uniperf-server/config"
	"uniperf-server/grading"
	"uniperf-server/ingestion"
	"uniperf-server/models"
)

// recordsFromRequest reads the uploaded CSV from the "file" multipart field
// and runs the full ingestion pipeline. On failure it writes the HTTP error
// response itself and returns false.
func recordsFromRequest(c *gin.Context) ([]models.CourseRecord, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV upload required in 'file' field"})
		return nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return nil, false
	}
	defer file.Close()

	records, err := ingestion.LoadRecords(file)
	if err != nil {
		writeIngestionError(c, err)
		return nil, false
	}
	return records, true
}

func writeIngestionError(c *gin.Context, err error) {
	var vErr *ingestion.ValidationError
	switch {
	case errors.Is(err, ingestion.ErrEmptyFile), errors.Is(err, ingestion.ErrUnsupportedEncoding):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "problems": vErr.Problems})
	default:
		log.Printf("Error ingesting uploaded data: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// scaleFromRequest resolves the grade scale for a request from the "scale"
// form field: a preset name, "custom" (with a YAML document in the
// "scale_config" field), or "none" to select the marks/25 proxy mode.
func scaleFromRequest(c *gin.Context, cfg *config.Config) (*grading.Scale, bool) {
	scaleType := c.DefaultPostForm("scale", cfg.DefaultGradeScale)
	switch scaleType {
	case "none":
		return nil, true // proxy mode: GPA approximated from raw marks
	case "custom":
		fileHeader, err := c.FormFile("scale_config")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Custom scale requires a YAML document in 'scale_config' field"})
			return nil, false
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open scale configuration"})
			return nil, false
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read scale configuration"})
			return nil, false
		}
		scale, err := grading.ParseConfig(data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		if violations := scale.Validate(); len(violations) > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Inconsistent scale configuration", "problems": violations})
			return nil, false
		}
		return scale, true
	default:
		if !grading.IsPresetScale(scaleType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown grade scale '%s'", scaleType)})
			return nil, false
		}
		return grading.NewScale(scaleType), true
	}
}

// AnalyzeReport computes every view in one pass.
// POST /api/v1/analyze/report
func AnalyzeReport(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, ok := recordsFromRequest(c)
		if !ok {
			return
		}
		scale, ok := scaleFromRequest(c, cfg)
		if !ok {
			return
		}
		n := leaderboardSize(c, cfg)
		c.JSON(http.StatusOK, analytics.FullReport(records, scale, n))
	}
}

// AnalyzeCohort computes cohort-wide summary statistics.
// POST /api/v1/analyze/cohort
func AnalyzeCohort(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, ok := recordsFromRequest(c)
		if !ok {
			return
		}
		scale, ok := scaleFromRequest(c, cfg)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, analytics.CohortSummary(records, scale))
	}
}

// AnalyzeSubjects computes per-course statistics sorted by average marks.
// POST /api/v1/analyze/subjects
func AnalyzeSubjects(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, ok := recordsFromRequest(c)
		if !ok {
			return
		}
		scale, ok := scaleFromRequest(c, cfg)
		if !ok {
			return
		}
		subjects := analytics.SubjectStats(records, scale)
		if subjects == nil {
			subjects = []models.SubjectStats{}
		}
		c.JSON(http.StatusOK, subjects)
	}
}

// AnalyzeTopStudents computes the GPA leaderboard.
// POST /api/v1/analyze/top?n=10
func AnalyzeTopStudents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, ok := recordsFromRequest(c)
		if !ok {
			return
		}
		scale, ok := scaleFromRequest(c, cfg)
		if !ok {
			return
		}
		top := analytics.TopNStudents(records, leaderboardSize(c, cfg), scale)
		if top == nil {
			top = []models.StudentSummary{}
		}
		c.JSON(http.StatusOK, top)
	}
}

// AnalyzeDepartments computes per-department statistics.
// POST /api/v1/analyze/departments
func AnalyzeDepartments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, ok := recordsFromRequest(c)
		if !ok {
			return
		}
		scale, ok := scaleFromRequest(c, cfg)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, analytics.DepartmentAnalysis(records, scale))
	}
}

// AnalyzeSemesters computes per-semester statistics.
// POST /api/v1/analyze/semesters
func AnalyzeSemesters(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, ok := recordsFromRequest(c)
		if !ok {
			return
		}
		scale, ok := scaleFromRequest(c, cfg)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, analytics.SemesterAnalysis(records, scale))
	}
}

// AnalyzeTrends computes per-semester trend arrays for charting.
// POST /api/v1/analyze/trends
func AnalyzeTrends(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, ok := recordsFromRequest(c)
		if !ok {
			return
		}
		scale, ok := scaleFromRequest(c, cfg)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, analytics.PerformanceTrends(records, scale))
	}
}

// AnalyzeSummary describes the uploaded record set without grading it.
// POST /api/v1/analyze/summary
func AnalyzeSummary() gin.HandlerFunc {
	return func(c *gin.Context) {
		records, ok := recordsFromRequest(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, analytics.Summarize(records))
	}
}

// GetScaleConfig exports a preset grade scale as a YAML document.
// GET /api/v1/scales/:scale_type
func GetScaleConfig() gin.HandlerFunc {
	return func(c *gin.Context) {
		scaleType := c.Param("scale_type")
		if !grading.IsPresetScale(scaleType) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No preset scale '%s'", scaleType)})
			return
		}
		data, err := grading.NewScale(scaleType).ExportConfig()
		if err != nil {
			log.Printf("Error exporting scale %s: %v", scaleType, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export scale configuration"})
			return
		}
		c.Data(http.StatusOK, "application/x-yaml", data)
	}
}

// ValidateScaleConfig checks a custom scale configuration for consistency.
// POST /api/v1/scales/validate (body: YAML document)
func ValidateScaleConfig() gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil || len(data) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "YAML scale configuration required in request body"})
			return
		}
		scale, err := grading.ParseConfig(data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		violations := scale.Validate()
		if violations == nil {
			violations = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"valid": len(violations) == 0, "violations": violations})
	}
}

func leaderboardSize(c *gin.Context, cfg *config.Config) int {
	n := cfg.LeaderboardSize
	if raw := c.Query("n"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			n = parsed
		}
	}
	return n
}
