// --- uniperf-server/handlers/admin_handlers.go ---
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"uniperf-server/analytics"
	"uniperf-server/config"
)

// AdminDashboard renders the upload form for generating performance reports.
// GET /admin/dashboard
func AdminDashboard(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin_dashboard", gin.H{
			"Title":        "UNIPERF Admin Dashboard",
			"DefaultScale": cfg.DefaultGradeScale,
			"PresetScales": []string{"4.0", "100"},
			"MaxUploadMB":  cfg.MaxUploadSizeMB,
			"UserEmail":    c.GetString("user_email"),
		})
	}
}

// AdminReport ingests an uploaded CSV and renders the full performance
// report as a printable page.
// POST /admin/report
func AdminReport(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, ok := recordsFromRequest(c)
		if !ok {
			return
		}
		scale, ok := scaleFromRequest(c, cfg)
		if !ok {
			return
		}

		report := analytics.FullReport(records, scale, leaderboardSize(c, cfg))

		scaleLabel := "marks-based approximation"
		if scale != nil {
			scaleLabel = scale.ScaleType
		}
		passingGrade := ""
		if scale != nil {
			passingGrade = scale.PassingGrade
		}

		c.HTML(http.StatusOK, "admin_report", gin.H{
			"Title":        "Cohort Performance Report",
			"GeneratedAt":  time.Now().Format("2006-01-02 15:04 MST"),
			"ScaleLabel":   scaleLabel,
			"PassingGrade": passingGrade,
			"Report":       report,
			"UserEmail":    c.GetString("user_email"),
		})
	}
}
