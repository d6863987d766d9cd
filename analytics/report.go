
package analytics

import (
	"github.com/montanaflynn/stats"

	"uniperf-server/grading"
	"uniperf-server/models"
	"uniperf-server/utils"
)

// GradeStatistics computes row-level grade statistics: letter-grade
// distribution, pass/fail counts over rows, GPA-point summary statistics and
// a compact per-department snapshot. Unlike the cohort views this treats each
// course row independently.
func GradeStatistics(records []models.CourseRecord, scale *grading.Scale) models.GradeStatistics {
	result := models.GradeStatistics{
		GradeDistribution: make(map[string]int),
		DepartmentStats:   make(map[string]models.DepartmentSnapshot),
		TotalRecords:      len(records),
	}
	if len(records) == 0 || scale == nil {
		return result
	}

	points := make([]float64, 0, len(records))
	passing := 0
	for _, r := range records {
		grade := scale.MarksToGrade(r.Marks)
		result.GradeDistribution[grade]++
		if scale.IsPassingGrade(grade) {
			passing++
		}
		points = append(points, scale.MarksToPoints(r.Marks))
	}

	result.PassingCount = passing
	result.FailingCount = len(records) - passing
	result.PassRate = passRate(passing, len(records))

	mean, _ := stats.Mean(points)
	median, _ := stats.Median(points)
	stdDev, _ := stats.StandardDeviationSample(points)
	min, _ := stats.Min(points)
	max, _ := stats.Max(points)
	result.GPAStatistics = models.GPAStatistics{
		Mean:   utils.Round3(mean),
		Median: utils.Round3(median),
		StdDev: utils.Round3(stdDev),
		Min:    utils.Round3(min),
		Max:    utils.Round3(max),
	}

	threshold := scale.PassingPoints()
	for dept, rows := range groupBy(records, func(r models.CourseRecord) string { return r.Department }) {
		students := make(map[string]bool)
		deptPassing := 0
		deptPoints := 0.0
		for _, r := range rows {
			students[r.StudentID] = true
			pts := scale.MarksToPoints(r.Marks)
			deptPoints += pts
			if pts >= threshold {
				deptPassing++
			}
		}
		result.DepartmentStats[dept] = models.DepartmentSnapshot{
			TotalStudents: len(students),
			AverageGPA:    utils.Round3(deptPoints / float64(len(rows))),
			PassRate:      passRate(deptPassing, len(rows)),
		}
	}

	return result
}

// Summarize describes an ingested record set before grading: counts, the
// departments and semesters seen (in encounter order) and the observed marks
// and credit ranges.
func Summarize(records []models.CourseRecord) models.DataSummary {
	summary := models.DataSummary{TotalRecords: len(records)}
	if len(records) == 0 {
		return summary
	}

	students := make(map[string]bool)
	courses := make(map[string]bool)
	seenDept := make(map[string]bool)
	seenSem := make(map[string]bool)
	summary.MarksRange = models.ValueRange{Min: records[0].Marks, Max: records[0].Marks}
	summary.CreditsRange = models.ValueRange{Min: records[0].CreditHours, Max: records[0].CreditHours}

	for _, r := range records {
		students[r.StudentID] = true
		courses[r.CourseCode] = true
		if !seenDept[r.Department] {
			seenDept[r.Department] = true
			summary.Departments = append(summary.Departments, r.Department)
		}
		if !seenSem[r.Semester] {
			seenSem[r.Semester] = true
			summary.Semesters = append(summary.Semesters, r.Semester)
		}
		if r.Marks < summary.MarksRange.Min {
			summary.MarksRange.Min = r.Marks
		}
		if r.Marks > summary.MarksRange.Max {
			summary.MarksRange.Max = r.Marks
		}
		if r.CreditHours < summary.CreditsRange.Min {
			summary.CreditsRange.Min = r.CreditHours
		}
		if r.CreditHours > summary.CreditsRange.Max {
			summary.CreditsRange.Max = r.CreditHours
		}
		summary.TotalCredits += r.CreditHours
	}

	summary.UniqueStudents = len(students)
	summary.UniqueCourses = len(courses)
	summary.TotalCredits = utils.Round1(summary.TotalCredits)
	return summary
}

// FullReport assembles every computed view for one record set. This is the
// payload behind the full-report endpoint and the printable admin report.
func FullReport(records []models.CourseRecord, scale *grading.Scale, topN int) models.PerformanceReport {
	return models.PerformanceReport{
		Cohort:      CohortSummary(records, scale),
		Subjects:    SubjectStats(records, scale),
		TopStudents: TopNStudents(records, topN, scale),
		Departments: DepartmentAnalysis(records, scale),
		Semesters:   SemesterAnalysis(records, scale),
		Trends:      PerformanceTrends(records, scale),
		Grades:      GradeStatistics(records, scale),
		Data:        Summarize(records),
	}
}
