package schedule

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"skillbridge/batch-scheduler/internal/domain"
)

// UnassignedTrainer is the per-trainer bucket for entries without a
// trainer reference.
const UnassignedTrainer = "Unassigned"

// AggregateHours reduces an entry list (weekly slice or full batch,
// the logic is identical) into an HoursBreakdown. trainerNames maps
// roster user ids to display names for the per-trainer detail; unknown
// or missing trainers fall into the "Unassigned" bucket. Breaks count
// toward the grand total but are excluded from both detail breakdowns.
func AggregateHours(entries []domain.PlanEntry, trainerNames map[primitive.ObjectID]string) domain.HoursBreakdown {
	hb := domain.HoursBreakdown{
		ByActivity: make(map[string]float64),
		ByTrainer:  make(map[string]float64),
	}
	for _, e := range entries {
		hours := DurationHours(e.StartTime, e.EndTime)
		switch e.ActivityType {
		case domain.ActivityCourse:
			hb.Course += hours
		case domain.ActivityHRSession:
			hb.HRSession += hours
		case domain.ActivityMockInterview:
			hb.MockInterview += hours
		case domain.ActivityBreak:
			hb.Break += hours
			continue // breaks stay out of the detail breakdowns
		default:
			continue // event/other carry no tracked hours
		}

		hb.ByActivity[e.ActivityName] += hours

		trainer := UnassignedTrainer
		if e.TrainerID != nil {
			if name, ok := trainerNames[*e.TrainerID]; ok && name != "" {
				trainer = name
			}
		}
		hb.ByTrainer[trainer] += hours
	}
	hb.TrainingTotal = hb.Course + hb.HRSession + hb.MockInterview
	hb.Total = hb.TrainingTotal + hb.Break
	return hb
}
