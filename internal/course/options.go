package course

// PDFStyle selects how the generated course PDF is rendered.
type PDFStyle string

const (
	PDFText        PDFStyle = "text"
	PDFIllustrated PDFStyle = "illustrated"
)

// PDF carries the style and, for illustrated PDFs, the image count.
type PDF struct {
	Style  PDFStyle `json:"style"`
	Images int      `json:"images,omitempty"`
}

// GeneratorOptions describes one AI-generated course configuration.
// Zero Weeks, SessionsPerWeek and an empty PDF style mean "not set".
type GeneratorOptions struct {
	Weeks            int      `json:"weeks"`
	SessionsPerWeek  int      `json:"sessionsPerWeek"`
	InjurySafe       bool     `json:"injurySafe"`
	SpecialEquipment bool     `json:"specialEquipment"`
	NutritionTips    bool     `json:"nutritionTips"`
	PDF              PDF      `json:"pdf"`
	Gender           string   `json:"gender,omitempty"` // not priced
	WorkoutTypes     []string `json:"workoutTypes,omitempty"`
	TargetMuscles    []string `json:"targetMuscles,omitempty"`
}

const (
	DefaultWeeks           = 4
	DefaultSessionsPerWeek = 4
)

// WithDefaults fills unset fields.
func (o GeneratorOptions) WithDefaults() GeneratorOptions {
	if o.Weeks == 0 {
		o.Weeks = DefaultWeeks
	}
	if o.SessionsPerWeek == 0 {
		o.SessionsPerWeek = DefaultSessionsPerWeek
	}
	if o.PDF.Style == "" {
		o.PDF.Style = PDFText
	}
	return o
}
