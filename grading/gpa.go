
package grading

import (
	"uniperf-server/models"
	"uniperf-server/utils"
)

// ComputeGPA computes the credit-weighted GPA for one student's course
// records: sum(points*credits)/sum(credits) over records with positive
// credit hours, rounded to 3 decimals.
//
// Every aggregate view (cohort, department, semester, leaderboard) funnels
// through this one function so independently computed views can never
// disagree on a student's GPA. Empty input, zero usable credits or a nil
// scale all yield the sentinel 0.0 rather than an error.
func ComputeGPA(records []models.CourseRecord, scale *Scale) float64 {
	if len(records) == 0 || scale == nil {
		return 0.0
	}

	totalPoints := 0.0
	totalCredits := 0.0
	for _, r := range records {
		if r.CreditHours <= 0 {
			continue // zero/negative credit rows never weigh into GPA
		}
		totalPoints += scale.MarksToPoints(r.Marks) * r.CreditHours
		totalCredits += r.CreditHours
	}

	if totalCredits == 0 {
		return 0.0
	}
	return utils.Round3(totalPoints / totalCredits)
}
