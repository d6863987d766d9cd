
package grading

import (
	"fmt"
	"math"
)

// FallbackGrade is returned when marks match no boundary band or are not a
// finite number.
const FallbackGrade = "F"

// DefaultPassingGrade is the minimum passing grade unless configured otherwise.
const DefaultPassingGrade = "D"

// Band is one inclusive marks range mapped to a letter grade. Bands are kept
// in insertion order and the first matching band wins on lookup.
type Band struct {
	Grade string
	Min   float64
	Max   float64
}

// Scale converts numeric marks to letter grades and GPA points. A Scale is
// immutable after construction and safe to share across concurrent readers.
type Scale struct {
	ScaleType    string
	Bands        []Band
	Points       map[string]float64
	PassingGrade string
}

// Preset boundary and point tables. The 4.0 scale is the default used across
// the analytics views.
var (
	presetPoints = map[string]map[string]float64{
		"4.0": {
			"A+": 4.0, "A": 4.0, "A-": 3.7,
			"B+": 3.3, "B": 3.0, "B-": 2.7,
			"C+": 2.3, "C": 2.0, "C-": 1.7,
			"D+": 1.3, "D": 1.0, "F": 0.0,
		},
		"100": {
			"A+": 95, "A": 90, "A-": 85,
			"B+": 80, "B": 75, "B-": 70,
			"C+": 65, "C": 60, "C-": 55,
			"D+": 50, "D": 45, "F": 0,
		},
	}
	presetBands = map[string][]Band{
		"4.0": {
			{"A+", 97, 100}, {"A", 93, 96}, {"A-", 90, 92},
			{"B+", 87, 89}, {"B", 83, 86}, {"B-", 80, 82},
			{"C+", 77, 79}, {"C", 73, 76}, {"C-", 70, 72},
			{"D+", 67, 69}, {"D", 63, 66}, {"F", 0, 62},
		},
		"100": {
			{"A+", 95, 100}, {"A", 90, 94}, {"A-", 85, 89},
			{"B+", 80, 84}, {"B", 75, 79}, {"B-", 70, 74},
			{"C+", 65, 69}, {"C", 60, 64}, {"C-", 55, 59},
			{"D+", 50, 54}, {"D", 45, 49}, {"F", 0, 44},
		},
	}
)

// IsPresetScale reports whether scaleType names a built-in scale.
func IsPresetScale(scaleType string) bool {
	_, ok := presetPoints[scaleType]
	return ok
}

// NewScale constructs a preset scale ("4.0" or "100"). Unknown scale types
// fall back to the 4.0 tables, matching the behavior of unrecognized
// configuration elsewhere in the pipeline.
func NewScale(scaleType string) *Scale {
	points, ok := presetPoints[scaleType]
	bands := presetBands[scaleType]
	if !ok {
		points = presetPoints["4.0"]
		bands = presetBands["4.0"]
	}
	return &Scale{
		ScaleType:    scaleType,
		Bands:        append([]Band(nil), bands...),
		Points:       copyPoints(points),
		PassingGrade: DefaultPassingGrade,
	}
}

// NewCustomScale constructs a scale from explicit tables. Consistency is NOT
// checked here; callers opt in via Validate.
func NewCustomScale(points map[string]float64, bands []Band, passingGrade string) *Scale {
	if passingGrade == "" {
		passingGrade = DefaultPassingGrade
	}
	return &Scale{
		ScaleType:    "custom",
		Bands:        append([]Band(nil), bands...),
		Points:       copyPoints(points),
		PassingGrade: passingGrade,
	}
}

func copyPoints(src map[string]float64) map[string]float64 {
	dst := make(map[string]float64, len(src))
	for grade, pts := range src {
		dst[grade] = pts
	}
	return dst
}

// MarksToGrade converts numeric marks to a letter grade. Bands are scanned in
// configured order and the first inclusive match wins. NaN, infinities and
// marks outside every band map to FallbackGrade rather than an error.
func (s *Scale) MarksToGrade(marks float64) string {
	if math.IsNaN(marks) || math.IsInf(marks, 0) {
		return FallbackGrade
	}
	for _, band := range s.Bands {
		if marks >= band.Min && marks <= band.Max {
			return band.Grade
		}
	}
	return FallbackGrade
}

// GradeToPoints converts a letter grade to GPA points. Empty or unknown
// grades yield 0.0.
func (s *Scale) GradeToPoints(grade string) float64 {
	if grade == "" {
		return 0.0
	}
	points, ok := s.Points[grade]
	if !ok {
		return 0.0
	}
	return points
}

// MarksToPoints converts numeric marks directly to GPA points.
func (s *Scale) MarksToPoints(marks float64) float64 {
	return s.GradeToPoints(s.MarksToGrade(marks))
}

// IsPassingGrade reports whether a grade meets the passing threshold. Empty
// or unknown grades never pass.
func (s *Scale) IsPassingGrade(grade string) bool {
	if grade == "" {
		return false
	}
	if _, ok := s.Points[grade]; !ok {
		return false
	}
	return s.GradeToPoints(grade) >= s.GradeToPoints(s.PassingGrade)
}

// PassingPoints returns the point value of the passing grade.
func (s *Scale) PassingPoints() float64 {
	return s.GradeToPoints(s.PassingGrade)
}

// GradeDistribution tallies the letter grade for every marks value.
func (s *Scale) GradeDistribution(marks []float64) map[string]int {
	dist := make(map[string]int)
	for _, m := range marks {
		dist[s.MarksToGrade(m)]++
	}
	return dist
}

// Validate checks scale consistency and returns a human-readable description
// of every violation found (empty slice means the scale is valid). It checks
// that boundary grades and point mappings cover each other, that no two bands
// overlap, and that the passing grade has a point mapping.
func (s *Scale) Validate() []string {
	var violations []string
	for _, band := range s.Bands {
		if _, ok := s.Points[band.Grade]; !ok {
			violations = append(violations, fmt.Sprintf("grade '%s' in boundaries but not in mappings", band.Grade))
		}
	}
	banded := make(map[string]bool, len(s.Bands))
	for _, band := range s.Bands {
		banded[band.Grade] = true
	}
	for grade := range s.Points {
		if !banded[grade] {
			violations = append(violations, fmt.Sprintf("grade '%s' in mappings but not in boundaries", grade))
		}
	}
	for i := 0; i < len(s.Bands); i++ {
		for j := i + 1; j < len(s.Bands); j++ {
			a, b := s.Bands[i], s.Bands[j]
			if !(a.Max < b.Min || b.Max < a.Min) {
				violations = append(violations, fmt.Sprintf("overlapping grade boundaries: '%s' [%g, %g] and '%s' [%g, %g]",
					a.Grade, a.Min, a.Max, b.Grade, b.Min, b.Max))
			}
		}
	}
	if _, ok := s.Points[s.PassingGrade]; !ok {
		violations = append(violations, fmt.Sprintf("passing grade '%s' not found in mappings", s.PassingGrade))
	}
	return violations
}
