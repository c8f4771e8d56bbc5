package schedule

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"skillbridge/batch-scheduler/internal/domain"
)

// Per-course daily cap in fractional hours, with a small tolerance to
// absorb floating rounding.
const (
	courseDailyCapHours = 2.0
	capToleranceHours   = 0.01
)

// Rules carries the reference data the validator checks candidates
// against: the batch's configured course names and the ids of
// trainer-eligible roster users.
type Rules struct {
	CourseNames []string
	TrainerIDs  map[primitive.ObjectID]bool
}

func (r Rules) hasCourse(name string) bool {
	for _, n := range r.CourseNames {
		if n == name {
			return true
		}
	}
	return false
}

// Validate checks a candidate plan entry against the scheduling rules
// and the other entries already placed in the same week. It is pure
// and synchronous: no I/O, no mutation. All violated rules are
// collected into a field -> message map; nil means the candidate is
// valid. When a candidate is being edited, entries matching its own id
// are excluded from the daily-cap sum.
func Validate(candidate domain.PlanEntry, existing []domain.PlanEntry, rules Rules) map[string]string {
	errs := map[string]string{}
	set := func(field, msg string) {
		if _, ok := errs[field]; !ok {
			errs[field] = msg
		}
	}

	// 1. Activity type.
	if candidate.ActivityType == "" {
		set("activityType", "Activity type is required")
	} else if !domain.KnownActivityType(candidate.ActivityType) {
		set("activityType", fmt.Sprintf("Unknown activity type %q", candidate.ActivityType))
	}

	// 2. Activity name.
	if candidate.ActivityName == "" {
		set("activityName", "Activity name is required")
	} else {
		switch candidate.ActivityType {
		case domain.ActivityCourse:
			if !rules.hasCourse(candidate.ActivityName) {
				set("activityName", fmt.Sprintf("%q is not a course of this batch", candidate.ActivityName))
			}
		case domain.ActivityBreak, domain.ActivityHRSession, domain.ActivityMockInterview:
			if !isFixedOption(candidate.ActivityType, candidate.ActivityName) {
				set("activityName", fmt.Sprintf("%q is not a valid option for %s", candidate.ActivityName, candidate.ActivityType))
			}
		}
		// event/other take free text.
	}

	// 3. Times present and well-formed.
	var startMin, endMin int
	startOK, endOK := false, false
	if candidate.StartTime == "" {
		set("startTime", "Start time is required")
	} else if m, err := ParseClock(candidate.StartTime); err != nil {
		set("startTime", err.Error())
	} else {
		startMin, startOK = m, true
	}
	if candidate.EndTime == "" {
		set("endTime", "End time is required")
	} else if m, err := ParseClock(candidate.EndTime); err != nil {
		set("endTime", err.Error())
	} else {
		endMin, endOK = m, true
	}

	// 4. Trainer requirement for course and HR sessions.
	if candidate.ActivityType.RequiresTrainer() {
		if candidate.TrainerID == nil || *candidate.TrainerID == primitive.NilObjectID {
			set("trainer", "Trainer is required for this activity type")
		} else if !rules.TrainerIDs[*candidate.TrainerID] {
			set("trainer", "Trainer must be a roster user with a trainer-eligible role")
		}
	}

	// 5. Per-course daily cap.
	if candidate.ActivityType == domain.ActivityCourse && startOK && endOK && endMin > startMin {
		total := float64(endMin-startMin) / 60.0
		for _, e := range existing {
			if e.ID == candidate.ID && candidate.ID != primitive.NilObjectID {
				continue
			}
			if e.Date != candidate.Date || e.ActivityType != domain.ActivityCourse || e.ActivityName != candidate.ActivityName {
				continue
			}
			total += DurationHours(e.StartTime, e.EndTime)
		}
		if total > courseDailyCapHours+capToleranceHours {
			set("activityName", fmt.Sprintf("Course limit exceeded (Max 2h/day). Current: %.1fh", total))
		}
	}

	// 6. Ordering.
	if startOK && endOK && endMin <= startMin {
		set("endTime", "End time must be after start time")
	}

	// 7. Hard cutoff, regardless of activity type.
	if endOK && endMin > HardCutoffMinutes {
		set("endTime", fmt.Sprintf("End time must not be later than %s", HardCutoff))
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
