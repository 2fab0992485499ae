package coach

import "strings"

// Request is a coach-built plan request as submitted by a user.
type Request struct {
	Level        string `json:"level"`
	TrainingType string `json:"trainingType"`
	Equipment    string `json:"equipment"`
	DaysPerWeek  int    `json:"daysPerWeek"`
}

// BaseTokens is charged for every coach request.
const BaseTokens = 10000

const (
	MinDaysPerWeek = 2
	MaxDaysPerWeek = 6
)

var (
	levelTokens = map[string]int{
		"beginner":     0,
		"intermediate": 5000,
		"advanced":     12000,
	}
	trainingTypeTokens = map[string]int{
		"home":  0,
		"gym":   0,
		"mixed": 4000,
	}
	equipmentTokens = map[string]int{
		"none":     0,
		"basic":    3000,
		"full_gym": 6000,
	}
	daysTokens = map[int]int{
		2: 0,
		3: 0,
		4: 4000,
		5: 8000,
		6: 12000,
	}
)

// Field names reported in Breakdown.Unrecognized.
const (
	FieldLevel        = "level"
	FieldTrainingType = "trainingType"
	FieldEquipment    = "equipment"
	FieldDaysPerWeek  = "daysPerWeek"
)

// Breakdown itemizes a coach request price.
type Breakdown struct {
	Base         int `json:"base"`
	Level        int `json:"level"`
	TrainingType int `json:"trainingType"`
	Equipment    int `json:"equipment"`
	Days         int `json:"days"`
	Total        int `json:"total"`
	// Unrecognized names the fields whose value matched no table row and
	// therefore contributed 0.
	Unrecognized []string `json:"unrecognized,omitempty"`
}

// Normalize lower-cases and trims the categorical fields and folds the
// equipment synonyms onto their table keys.
func Normalize(r Request) Request {
	r.Level = strings.ToLower(strings.TrimSpace(r.Level))
	r.TrainingType = strings.ToLower(strings.TrimSpace(r.TrainingType))
	r.Equipment = normalizeEquipment(r.Equipment)
	return r
}

func normalizeEquipment(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "full gym", "fullgym", "full_gym":
		return "full_gym"
	}
	return strings.Join(strings.Fields(s), "_")
}

// Calculate prices r. Values outside the tables add 0 and are listed in
// Unrecognized; Calculate never fails. Callers enforce ValidDays themselves.
func Calculate(r Request) Breakdown {
	r = Normalize(r)
	b := Breakdown{Base: BaseTokens}

	var ok bool
	if b.Level, ok = levelTokens[r.Level]; !ok {
		b.Unrecognized = append(b.Unrecognized, FieldLevel)
	}
	if b.TrainingType, ok = trainingTypeTokens[r.TrainingType]; !ok {
		b.Unrecognized = append(b.Unrecognized, FieldTrainingType)
	}
	if b.Equipment, ok = equipmentTokens[r.Equipment]; !ok {
		b.Unrecognized = append(b.Unrecognized, FieldEquipment)
	}
	if b.Days, ok = daysTokens[r.DaysPerWeek]; !ok {
		b.Unrecognized = append(b.Unrecognized, FieldDaysPerWeek)
	}

	b.Total = b.Base + b.Level + b.TrainingType + b.Equipment + b.Days
	return b
}

// ValidDays reports whether d is an accepted days-per-week value.
func ValidDays(d int) bool {
	return d >= MinDaysPerWeek && d <= MaxDaysPerWeek
}
