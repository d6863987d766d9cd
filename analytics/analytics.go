
package analytics

import (
	"log"
	"sort"

	"github.com/montanaflynn/stats"

	"uniperf-server/grading"
	"uniperf-server/models"
	"uniperf-server/utils"
)

// Proxy-mode policy: when no grade scale is supplied, GPA is approximated by
// dividing marks by 25 (a linear projection of 0-100 marks onto a 0-4 scale)
// and a student passes when their average marks reach 60.
const (
	proxyGPADivisor   = 25.0
	proxyPassingMarks = 60.0
)

// studentGroup is one student's rows in encounter order.
type studentGroup struct {
	id      string
	records []models.CourseRecord
}

// studentEntry pairs a group with its GPA, computed once and reused by every
// view so cohort, department, semester and leaderboard results stay mutually
// consistent.
type studentEntry struct {
	studentGroup
	gpa float64
}

func groupByStudent(records []models.CourseRecord) []studentGroup {
	index := make(map[string]int)
	var groups []studentGroup
	for _, r := range records {
		i, ok := index[r.StudentID]
		if !ok {
			i = len(groups)
			index[r.StudentID] = i
			groups = append(groups, studentGroup{id: r.StudentID})
		}
		groups[i].records = append(groups[i].records, r)
	}
	return groups
}

// studentTable computes the shared per-student GPA table for a record set.
// In proxy mode (nil scale) GPA is the student's average marks / 25.
func studentTable(records []models.CourseRecord, scale *grading.Scale) []studentEntry {
	groups := groupByStudent(records)
	entries := make([]studentEntry, 0, len(groups))
	for _, g := range groups {
		entries = append(entries, studentEntry{
			studentGroup: g,
			gpa:          studentGPA(g.records, scale),
		})
	}
	return entries
}

func studentGPA(records []models.CourseRecord, scale *grading.Scale) float64 {
	if scale != nil {
		return grading.ComputeGPA(records, scale)
	}
	return utils.Round3(meanMarks(records) / proxyGPADivisor)
}

func meanMarks(records []models.CourseRecord) float64 {
	if len(records) == 0 {
		return 0.0
	}
	total := 0.0
	for _, r := range records {
		total += r.Marks
	}
	return total / float64(len(records))
}

func studentPasses(e studentEntry, scale *grading.Scale) bool {
	if scale != nil {
		return e.gpa >= scale.PassingPoints()
	}
	return meanMarks(e.records) >= proxyPassingMarks
}

func distinctCourses(records []models.CourseRecord) int {
	seen := make(map[string]bool)
	for _, r := range records {
		seen[r.CourseCode] = true
	}
	return len(seen)
}

// mean, median and population standard deviation with the shared
// divide-by-zero policy: empty input resolves to 0.0, never NaN.
func gpaStatistics(values []float64) (mean, median, stdDev float64) {
	if len(values) == 0 {
		return 0.0, 0.0, 0.0
	}
	mean, _ = stats.Mean(values)
	median, _ = stats.Median(values)
	stdDev, _ = stats.StandardDeviationPopulation(values)
	return utils.Round3(mean), utils.Round3(median), utils.Round3(stdDev)
}

// proxyStats projects raw row marks onto the 0-4 scale for proxy mode.
func proxyStats(rows []models.CourseRecord) (mean, median, stdDev float64) {
	if len(rows) == 0 {
		return 0.0, 0.0, 0.0
	}
	marks := make([]float64, 0, len(rows))
	for _, r := range rows {
		marks = append(marks, r.Marks)
	}
	m, _ := stats.Mean(marks)
	md, _ := stats.Median(marks)
	sd, _ := stats.StandardDeviationSample(marks)
	return utils.Round3(m / proxyGPADivisor), utils.Round3(md / proxyGPADivisor), utils.Round3(sd / proxyGPADivisor)
}

func passRate(passing, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return utils.Round2(float64(passing) / float64(total) * 100)
}

// CohortSummary computes cohort-wide statistics for a record set. A nil
// scale selects proxy mode. Empty input yields an all-zero summary.
func CohortSummary(records []models.CourseRecord, scale *grading.Scale) models.CohortSummary {
	if len(records) == 0 {
		return models.CohortSummary{}
	}

	table := studentTable(records, scale)
	totalCredits := 0.0
	for _, r := range records {
		totalCredits += r.CreditHours
	}

	var avgGPA, medianGPA, stdDev float64
	if scale != nil {
		gpas := make([]float64, 0, len(table))
		for _, e := range table {
			gpas = append(gpas, e.gpa)
		}
		avgGPA, medianGPA, stdDev = gpaStatistics(gpas)
	} else {
		// Proxy mode works on raw row marks, not the per-student table.
		avgGPA, medianGPA, stdDev = proxyStats(records)
	}

	passing := 0
	for _, e := range table {
		if studentPasses(e, scale) {
			passing++
		}
	}

	summary := models.CohortSummary{
		TotalStudents: len(table),
		TotalCourses:  distinctCourses(records),
		AverageGPA:    avgGPA,
		MedianGPA:     medianGPA,
		PassRate:      passRate(passing, len(table)),
		FailCount:     len(table) - passing,
		GPAStdDev:     stdDev,
		TotalCredits:  utils.Round1(totalCredits),
	}

	log.Printf("Computed cohort summary for %d students", summary.TotalStudents)
	return summary
}

// SubjectStats computes per-course statistics, one entry per distinct course
// code, sorted by average marks descending. Empty input yields an empty list.
func SubjectStats(records []models.CourseRecord, scale *grading.Scale) []models.SubjectStats {
	if len(records) == 0 {
		return nil
	}

	// Pass threshold converted onto the marks scale.
	threshold := proxyPassingMarks
	if scale != nil {
		threshold = scale.PassingPoints() * proxyGPADivisor
	}

	index := make(map[string]int)
	var courses [][]models.CourseRecord
	for _, r := range records {
		i, ok := index[r.CourseCode]
		if !ok {
			i = len(courses)
			index[r.CourseCode] = i
			courses = append(courses, nil)
		}
		courses[i] = append(courses[i], r)
	}

	subjects := make([]models.SubjectStats, 0, len(courses))
	for _, rows := range courses {
		first := rows[0]
		marksTotal := 0.0
		passing := 0
		top := 0 // index of the top scorer; ties keep the first occurrence
		for i, r := range rows {
			marksTotal += r.Marks
			if r.Marks >= threshold {
				passing++
			}
			if r.Marks > rows[top].Marks {
				top = i
			}
		}
		subjects = append(subjects, models.SubjectStats{
			CourseCode:    first.CourseCode,
			CourseName:    first.CourseName,
			Department:    first.Department,
			TotalStudents: len(rows),
			AverageMarks:  utils.Round2(marksTotal / float64(len(rows))),
			PassRate:      passRate(passing, len(rows)),
			TopScorer:     utils.StringPtr(rows[top].Name),
			TopScore:      utils.Float64Ptr(utils.Round2(rows[top].Marks)),
			CreditHours:   utils.Round1(first.CreditHours),
		})
	}

	sort.SliceStable(subjects, func(i, j int) bool {
		return subjects[i].AverageMarks > subjects[j].AverageMarks
	})

	log.Printf("Computed statistics for %d subjects", len(subjects))
	return subjects
}

// TopNStudents returns up to n students sorted by GPA descending. The sort is
// stable: students with equal GPA keep their encounter order in the input.
func TopNStudents(records []models.CourseRecord, n int, scale *grading.Scale) []models.StudentSummary {
	if len(records) == 0 || n <= 0 {
		return nil
	}

	table := studentTable(records, scale)
	ranked := make([]models.StudentSummary, 0, len(table))
	for _, e := range table {
		first := e.records[0]
		totalCredits := 0.0
		for _, r := range e.records {
			totalCredits += r.CreditHours
		}
		ranked = append(ranked, models.StudentSummary{
			StudentID:    e.id,
			Name:         first.Name,
			Department:   first.Department,
			Semester:     first.Semester,
			GPA:          e.gpa,
			TotalCredits: utils.Round1(totalCredits),
			CoursesCount: len(e.records),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].GPA > ranked[j].GPA
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	log.Printf("Computed top %d students", len(ranked))
	return ranked
}

// DepartmentAnalysis computes cohort-shaped statistics per distinct
// department. Empty input yields an empty map.
func DepartmentAnalysis(records []models.CourseRecord, scale *grading.Scale) map[string]models.DepartmentStats {
	result := make(map[string]models.DepartmentStats)
	for dept, rows := range groupBy(records, func(r models.CourseRecord) string { return r.Department }) {
		table := studentTable(rows, scale)

		var avgGPA, medianGPA, stdDev float64
		if scale != nil {
			gpas := make([]float64, 0, len(table))
			for _, e := range table {
				gpas = append(gpas, e.gpa)
			}
			avgGPA, medianGPA, stdDev = gpaStatistics(gpas)
		} else {
			avgGPA, medianGPA, stdDev = proxyStats(rows)
		}

		passing := 0
		for _, e := range table {
			if studentPasses(e, scale) {
				passing++
			}
		}

		result[dept] = models.DepartmentStats{
			TotalStudents: len(table),
			TotalCourses:  distinctCourses(rows),
			AverageGPA:    avgGPA,
			MedianGPA:     medianGPA,
			GPAStdDev:     stdDev,
			PassRate:      passRate(passing, len(table)),
		}
	}

	log.Printf("Computed department analysis for %d departments", len(result))
	return result
}

// SemesterAnalysis computes per-semester statistics. Empty input yields an
// empty map.
func SemesterAnalysis(records []models.CourseRecord, scale *grading.Scale) map[string]models.SemesterStats {
	result := make(map[string]models.SemesterStats)
	for sem, rows := range groupBy(records, func(r models.CourseRecord) string { return r.Semester }) {
		table := studentTable(rows, scale)

		var avgGPA, medianGPA float64
		if scale != nil {
			gpas := make([]float64, 0, len(table))
			for _, e := range table {
				gpas = append(gpas, e.gpa)
			}
			avgGPA, medianGPA, _ = gpaStatistics(gpas)
		} else {
			avgGPA, medianGPA, _ = proxyStats(rows)
		}

		result[sem] = models.SemesterStats{
			TotalStudents: len(table),
			TotalCourses:  distinctCourses(rows),
			AverageGPA:    avgGPA,
			MedianGPA:     medianGPA,
		}
	}

	log.Printf("Computed semester analysis for %d semesters", len(result))
	return result
}

// PerformanceTrends returns parallel per-semester arrays (semesters sorted
// lexicographically ascending) for trend charting. Pass rate is only
// meaningful with a scale; proxy mode reports 0.0 there.
func PerformanceTrends(records []models.CourseRecord, scale *grading.Scale) models.PerformanceTrends {
	if len(records) == 0 {
		return models.PerformanceTrends{}
	}

	bySemester := groupBy(records, func(r models.CourseRecord) string { return r.Semester })
	semesters := make([]string, 0, len(bySemester))
	for sem := range bySemester {
		semesters = append(semesters, sem)
	}
	sort.Strings(semesters)

	trends := models.PerformanceTrends{Semesters: semesters}
	for _, sem := range semesters {
		rows := bySemester[sem]
		table := studentTable(rows, scale)

		var avgGPA float64
		rate := 0.0
		if scale != nil {
			gpas := make([]float64, 0, len(table))
			for _, e := range table {
				gpas = append(gpas, e.gpa)
			}
			avgGPA, _, _ = gpaStatistics(gpas)

			passing := 0
			for _, e := range table {
				if studentPasses(e, scale) {
					passing++
				}
			}
			rate = passRate(passing, len(table))
		} else {
			avgGPA, _, _ = proxyStats(rows)
		}

		trends.AverageGPABySemester = append(trends.AverageGPABySemester, avgGPA)
		trends.PassRateBySemester = append(trends.PassRateBySemester, rate)
		trends.TotalStudentsBySemester = append(trends.TotalStudentsBySemester, len(table))
	}

	log.Printf("Computed performance trends for %d semesters", len(semesters))
	return trends
}

func groupBy(records []models.CourseRecord, key func(models.CourseRecord) string) map[string][]models.CourseRecord {
	groups := make(map[string][]models.CourseRecord)
	for _, r := range records {
		k := key(r)
		groups[k] = append(groups[k], r)
	}
	return groups
}
