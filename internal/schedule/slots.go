package schedule

import (
	"sort"

	"skillbridge/batch-scheduler/internal/domain"
)

// EntriesByDate groups entries per date, each date's entries sorted
// ascending by start time.
func EntriesByDate(entries []domain.PlanEntry) map[string][]domain.PlanEntry {
	byDate := make(map[string][]domain.PlanEntry)
	for _, e := range entries {
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	for d := range byDate {
		day := byDate[d]
		sort.SliceStable(day, func(i, j int) bool {
			return day[i].StartTime < day[j].StartTime
		})
		byDate[d] = day
	}
	return byDate
}

// NextSlotIndex returns the number of schedule rows needed for the
// visible days: the busiest day's entry count plus one open slot.
func NextSlotIndex(byDate map[string][]domain.PlanEntry, days []string) int {
	max := 0
	for _, d := range days {
		if n := len(byDate[d]); n > max {
			max = n
		}
	}
	return max + 1
}
