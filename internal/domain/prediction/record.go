// Package prediction implements the dual-mode predictive analytics module:
// a model-based path (least-squares regression plus a bagged-tree sector
// classifier fitted per run) for cohorts of three or more students, and a
// deterministic rule-based fallback below that. Both paths emit fully
// populated PredictionRecords so consumers never null-check.
package prediction

import "fmt"

// ══════════════════════════════════════════════════════════════════════════════
// PREDICTION RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record is the per-student prediction output. Every field is always set:
// string fields default to "N/A" and KeyStrengths is never empty. A Record
// is never mutated after creation.
type Record struct {
	// StudentName is the display name the prediction belongs to.
	StudentName string `json:"student_name"`

	// CurrentPerformance is the current total with its band label,
	// e.g. "85.0 marks (Excellent)".
	CurrentPerformance string `json:"current_performance"`

	// PredictedNextTerm is the estimated next-term score, e.g. "88.2 marks".
	PredictedNextTerm string `json:"predicted_next_semester"`

	// GrowthPercentage is the relative change versus the current total,
	// e.g. "3.8%". Exactly "0.0%" when the current total is zero.
	GrowthPercentage string `json:"growth_percentage"`

	// RecommendedCareerSector is the suggested career-sector label.
	RecommendedCareerSector string `json:"recommended_career_sector"`

	// KeyStrengths holds up to three strength phrases.
	KeyStrengths []string `json:"key_strengths"`

	// Recommendation is the band-specific free-text advice.
	Recommendation string `json:"recommendation"`

	// ConfidenceLevel is "Medium" or "Low" on the model path and always
	// "Low (Rule-based)" on the fallback path.
	ConfidenceLevel string `json:"confidence_level"`
}

// newRecord returns a Record with every field defaulted so that partially
// filled paths still satisfy the always-present contract.
func newRecord(name string) *Record {
	return &Record{
		StudentName:             name,
		CurrentPerformance:      "N/A",
		PredictedNextTerm:       "N/A",
		GrowthPercentage:        "N/A",
		RecommendedCareerSector: "N/A",
		KeyStrengths:            []string{},
		Recommendation:          "N/A",
		ConfidenceLevel:         "N/A",
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PERFORMANCE BANDS
// ══════════════════════════════════════════════════════════════════════════════

// performanceBand couples a marks threshold with its label and canned advice.
type performanceBand struct {
	minMarks       float64
	label          string
	recommendation string
}

// performanceBands is ordered highest threshold first; the first band the
// current total reaches wins.
var performanceBands = []performanceBand{
	{80, "Excellent", "Consider graduate studies or research positions"},
	{70, "Good", "Focus on specialization in your strong areas"},
	{60, "Average", "Improve weak areas through practice and mentorship"},
	{40, "Satisfactory", "Maintain consistency and seek guidance"},
	{0, "Needs Improvement", "Seek academic support and focus on fundamentals"},
}

// bandFor returns the performance band for a current total.
func bandFor(totalMarks float64) performanceBand {
	for _, b := range performanceBands {
		if totalMarks >= b.minMarks {
			return b
		}
	}
	return performanceBands[len(performanceBands)-1]
}

// ══════════════════════════════════════════════════════════════════════════════
// CAREER SECTORS (MODEL PATH)
// ══════════════════════════════════════════════════════════════════════════════

// careerSectors is the fixed 7-way label set of the sector classifier,
// indexed by class label.
var careerSectors = []string{
	"Power Systems & Energy",
	"Electronics & Embedded Systems",
	"Telecommunications",
	"Control & Automation",
	"Research & Academia",
	"Renewable Energy",
	"AI & Machine Learning in EEE",
}

// sectorLabel derives the synthetic class label for one feature vector via
// priority-ordered threshold rules (highest band wins). The classifier is
// fitted on these labels and acts as a smoothing layer over them, not as an
// independent ground truth.
func sectorLabel(f Features) int {
	switch {
	case f.TotalMarks >= 80 && f.SGPA >= 3.5:
		return 0
	case f.TotalMarks >= 75 && f.ClassTests >= 15:
		return 1
	case f.TotalMarks >= 70 && f.Final >= 30:
		return 2
	case f.TotalMarks >= 65 && f.MeanCO >= 15:
		return 3
	case f.TotalMarks >= 60:
		return 4
	case f.TotalMarks >= 50:
		return 5
	default:
		return 6
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// STRENGTH PHRASES
// ══════════════════════════════════════════════════════════════════════════════

// coStrengthThreshold unlocks a strength phrase when the CO score reaches it.
const coStrengthThreshold = 15.0

// coStrengths maps CO identifiers to their strength phrases, consulted in
// canonical CO order.
var coStrengths = map[string]string{
	"CO1": "Strong theoretical foundation",
	"CO2": "Good problem-solving ability",
	"CO3": "Analytical and investigative skills",
	"CO4": "Strong professional and communication skills",
}

// genericStrengthModel is emitted when no CO threshold is met.
const genericStrengthModel = "Developing core engineering skills"

// maxStrengths caps the emitted strength phrases.
const maxStrengths = 3

// ══════════════════════════════════════════════════════════════════════════════
// FORMATTING
// ══════════════════════════════════════════════════════════════════════════════

func formatMarksWithBand(marks float64, band string) string {
	return fmt.Sprintf("%.1f marks (%s)", marks, band)
}

func formatMarks(marks float64) string {
	return fmt.Sprintf("%.1f marks", marks)
}

func formatGrowth(current, predicted float64) string {
	if current <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", (predicted-current)/current*100)
}
