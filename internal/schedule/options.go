package schedule

import "skillbridge/batch-scheduler/internal/domain"

// Fixed activity-name option lists for the non-course, non-free-text
// activity types. These are the single source for both validation and
// the selector endpoint. Course names come from the batch's configured
// courses; event/other names are free text.
var activityNameOptions = map[domain.ActivityType][]string{
	domain.ActivityBreak: {
		"Tea Break",
		"Lunch Break",
	},
	domain.ActivityHRSession: {
		"HR Session",
		"Soft Skills",
		"Communication Skills",
		"Aptitude Training",
	},
	domain.ActivityMockInterview: {
		"Technical Mock Interview",
		"HR Mock Interview",
		"Group Discussion",
	},
}

// ActivityNameOptions returns the fixed option list for the given
// activity type, or nil when the type takes free text or course names.
func ActivityNameOptions(t domain.ActivityType) []string {
	opts := activityNameOptions[t]
	if opts == nil {
		return nil
	}
	out := make([]string, len(opts))
	copy(out, opts)
	return out
}

// AllActivityNameOptions returns the full option map keyed by activity
// type, for the selector endpoint.
func AllActivityNameOptions() map[domain.ActivityType][]string {
	out := make(map[domain.ActivityType][]string, len(activityNameOptions))
	for t := range activityNameOptions {
		out[t] = ActivityNameOptions(t)
	}
	return out
}

func isFixedOption(t domain.ActivityType, name string) bool {
	for _, opt := range activityNameOptions[t] {
		if opt == name {
			return true
		}
	}
	return false
}
