
package models

// CourseRecord represents one student's result in one course. Records are
// built by the ingestion package and are never mutated afterwards.
type CourseRecord struct {
	StudentID   string  `json:"student_id"`
	Name        string  `json:"name"`
	Department  string  `json:"department"`
	Semester    string  `json:"semester"`
	CourseCode  string  `json:"course_code"`
	CourseName  string  `json:"course_name"`
	CreditHours float64 `json:"credit_hours"` // > 0, <= 10, rounded to 1 decimal
	Marks       float64 `json:"marks"`        // 0-100, rounded to 2 decimals
}

// StudentSummary is one student's computed profile for a slice of data.
// Derived fresh on every computation pass, never cached.
type StudentSummary struct {
	StudentID    string  `json:"student_id"`
	Name         string  `json:"name"`
	Department   string  `json:"department"`
	Semester     string  `json:"semester"`
	GPA          float64 `json:"gpa"`
	TotalCredits float64 `json:"total_credits"`
	CoursesCount int     `json:"courses_count"`
}

// CohortSummary holds cohort-wide statistics.
type CohortSummary struct {
	TotalStudents int     `json:"total_students"`
	TotalCourses  int     `json:"total_courses"`
	AverageGPA    float64 `json:"average_gpa"`
	MedianGPA     float64 `json:"median_gpa"`
	PassRate      float64 `json:"pass_rate"`
	FailCount     int     `json:"fail_count"`
	GPAStdDev     float64 `json:"gpa_std_dev"`
	TotalCredits  float64 `json:"total_credits"`
}

// SubjectStats holds per-course statistics.
type SubjectStats struct {
	CourseCode    string   `json:"course_code"`
	CourseName    string   `json:"course_name"`
	Department    string   `json:"department"`
	TotalStudents int      `json:"total_students"`
	AverageMarks  float64  `json:"average_marks"`
	PassRate      float64  `json:"pass_rate"`
	TopScorer     *string  `json:"top_scorer"` // Pointer to allow null when the course has no rows
	TopScore      *float64 `json:"top_score"`
	CreditHours   float64  `json:"credit_hours"`
}

// DepartmentStats holds cohort-shaped statistics for one department.
type DepartmentStats struct {
	TotalStudents int     `json:"total_students"`
	TotalCourses  int     `json:"total_courses"`
	AverageGPA    float64 `json:"average_gpa"`
	MedianGPA     float64 `json:"median_gpa"`
	GPAStdDev     float64 `json:"gpa_std_dev"`
	PassRate      float64 `json:"pass_rate"`
}

// SemesterStats holds per-semester statistics.
type SemesterStats struct {
	TotalStudents int     `json:"total_students"`
	TotalCourses  int     `json:"total_courses"`
	AverageGPA    float64 `json:"average_gpa"`
	MedianGPA     float64 `json:"median_gpa"`
}

// PerformanceTrends holds parallel per-semester arrays for trend charting.
// Semesters are sorted lexicographically ascending.
type PerformanceTrends struct {
	Semesters               []string  `json:"semesters"`
	AverageGPABySemester    []float64 `json:"average_gpa_by_semester"`
	PassRateBySemester      []float64 `json:"pass_rate_by_semester"`
	TotalStudentsBySemester []int     `json:"total_students_by_semester"`
}

// GPAStatistics holds summary statistics over per-row GPA points.
type GPAStatistics struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// DepartmentSnapshot is the compact per-department view embedded in
// GradeStatistics (row-level, unlike the student-level DepartmentStats).
type DepartmentSnapshot struct {
	TotalStudents int     `json:"total_students"`
	AverageGPA    float64 `json:"average_gpa"`
	PassRate      float64 `json:"pass_rate"`
}

// GradeStatistics holds row-level grade statistics for a whole record set.
type GradeStatistics struct {
	GradeDistribution map[string]int                `json:"grade_distribution"`
	PassRate          float64                       `json:"pass_rate"`
	PassingCount      int                           `json:"passing_count"`
	FailingCount      int                           `json:"failing_count"`
	GPAStatistics     GPAStatistics                 `json:"gpa_statistics"`
	DepartmentStats   map[string]DepartmentSnapshot `json:"department_statistics"`
	TotalRecords      int                           `json:"total_records"`
}

// ValueRange describes the observed min/max of a numeric column.
type ValueRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DataSummary describes an ingested record set before any grading is applied.
type DataSummary struct {
	TotalRecords   int        `json:"total_records"`
	UniqueStudents int        `json:"unique_students"`
	UniqueCourses  int        `json:"unique_courses"`
	Departments    []string   `json:"departments"`
	Semesters      []string   `json:"semesters"`
	MarksRange     ValueRange `json:"marks_range"`
	CreditsRange   ValueRange `json:"credits_range"`
	TotalCredits   float64    `json:"total_credits"`
}

// PerformanceReport bundles every computed view for the full-report endpoint
// and the printable admin report page.
type PerformanceReport struct {
	Cohort      CohortSummary              `json:"cohort"`
	Subjects    []SubjectStats             `json:"subjects"`
	TopStudents []StudentSummary           `json:"top_students"`
	Departments map[string]DepartmentStats `json:"departments"`
	Semesters   map[string]SemesterStats   `json:"semesters"`
	Trends      PerformanceTrends          `json:"trends"`
	Grades      GradeStatistics            `json:"grade_statistics"`
	Data        DataSummary                `json:"data_summary"`
}
