package course

import "math"

// Point costs before the multiplier is applied.
const (
	multiplier = 1.3

	basePoints            = 400
	perWeekPoints         = 120
	perSessionPoints      = 8
	injurySafePoints      = 120
	specialEquipPoints    = 80
	nutritionPoints       = 100
	pdfPoints             = 60
	perImagePoints        = 10
	perWorkoutTypePoints  = 15
	perTargetMusclePoints = 8
)

// BaselineTokens is the cost of the default course: 4 weeks, 4 sessions a
// week, text PDF, no add-ons.
const BaselineTokens = 1388

// LineItems itemizes a course price. Every field is already scaled and rounded.
type LineItems struct {
	Base             int `json:"base"`
	InjurySafe       int `json:"injurySafe"`
	SpecialEquipment int `json:"specialEquipment"`
	NutritionTips    int `json:"nutritionTips"`
	PDF              int `json:"pdf"`
	WorkoutTypes     int `json:"workoutTypes"`
	TargetMuscles    int `json:"targetMuscles"`
	Total            int `json:"total"`
}

// Breakdown prices o line by line.
func Breakdown(o GeneratorOptions) LineItems {
	o = o.WithDefaults()

	var li LineItems
	li.Base = scaled(basePoints + o.Weeks*perWeekPoints + o.SessionsPerWeek*o.Weeks*perSessionPoints)
	if o.InjurySafe {
		li.InjurySafe = scaled(injurySafePoints)
	}
	if o.SpecialEquipment {
		li.SpecialEquipment = scaled(specialEquipPoints)
	}
	if o.NutritionTips {
		li.NutritionTips = scaled(nutritionPoints)
	}
	switch o.PDF.Style {
	case PDFIllustrated:
		li.PDF = scaled(pdfPoints + o.PDF.Images*perImagePoints)
	default:
		// unknown styles price as text
		li.PDF = scaled(pdfPoints)
	}
	if n := len(o.WorkoutTypes); n > 0 {
		li.WorkoutTypes = scaled(n * perWorkoutTypePoints)
	}
	if n := len(o.TargetMuscles); n > 0 {
		li.TargetMuscles = scaled(n * perTargetMusclePoints)
	}

	li.Total = li.Base + li.InjurySafe + li.SpecialEquipment + li.NutritionTips +
		li.PDF + li.WorkoutTypes + li.TargetMuscles
	if li.Total < 0 {
		li.Total = 0
	}
	return li
}

// Tokens returns the total token cost of o.
func Tokens(o GeneratorOptions) int {
	return Breakdown(o).Total
}

// WeeksAffordable approximates how many weeks of the baseline course n tokens
// buy, scaling linearly from BaselineTokens. It is a display hint only.
func WeeksAffordable(n int) int {
	if n <= 0 {
		return 0
	}
	return n/BaselineTokens*DefaultWeeks + n%BaselineTokens*DefaultWeeks/BaselineTokens
}

// scaled applies the multiplier and rounds half-up.
func scaled(points int) int {
	return int(math.Floor(float64(points)*multiplier + 0.5))
}
