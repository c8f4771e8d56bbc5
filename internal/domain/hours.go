package domain

// HoursBreakdown holds aggregated duration statistics over a set of
// plan entries, in fractional hours. It is derived on demand and never
// persisted. The same breakdown shape serves both the weekly view and
// the full-batch view.
type HoursBreakdown struct {
	Course        float64 `json:"course"`
	HRSession     float64 `json:"hrSession"`
	MockInterview float64 `json:"mockInterview"`
	Break         float64 `json:"break"`

	// TrainingTotal = Course + HRSession + MockInterview.
	TrainingTotal float64 `json:"trainingTotal"`
	// Total = TrainingTotal + Break.
	Total float64 `json:"total"`

	// ByActivity breaks the non-break types down per activity name.
	// Breaks are excluded.
	ByActivity map[string]float64 `json:"byActivity"`
	// ByTrainer breaks the non-break types down per trainer display
	// name; entries without a trainer are attributed to "Unassigned".
	ByTrainer map[string]float64 `json:"byTrainer"`
}
