package schedule

import (
	"reflect"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

// Batch window used throughout: 2024-01-01 (a Monday) to 2024-02-28 (a Wednesday).
func testWindow(t *testing.T, ref string) Window {
	t.Helper()
	return ResolveWindow(mustDate(t, ref), mustDate(t, "2024-01-01"), mustDate(t, "2024-02-28"))
}

func TestResolveWindowDays(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want []string
	}{
		{
			name: "midweek reference",
			ref:  "2024-01-10",
			want: []string{"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12"},
		},
		{
			name: "monday reference",
			ref:  "2024-01-08",
			want: []string{"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12"},
		},
		{
			name: "sunday belongs to the preceding monday's week",
			ref:  "2024-01-14",
			want: []string{"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12"},
		},
		{
			name: "reference before batch start clamps forward",
			ref:  "2023-11-15",
			want: []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"},
		},
		{
			name: "reference after batch end clamps back",
			ref:  "2024-06-01",
			want: []string{"2024-02-26", "2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testWindow(t, tt.ref).Days()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Days() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindowWeekNumber(t *testing.T) {
	tests := []struct {
		ref  string
		want int
	}{
		{ref: "2024-01-01", want: 1},
		{ref: "2024-01-05", want: 1},
		{ref: "2024-01-08", want: 2},
		{ref: "2024-02-28", want: 9},
	}

	for _, tt := range tests {
		if got := testWindow(t, tt.ref).WeekNumber(); got != tt.want {
			t.Errorf("WeekNumber() for ref %s = %d, want %d", tt.ref, got, tt.want)
		}
	}
}

func TestWindowNavigationClamping(t *testing.T) {
	first := testWindow(t, "2024-01-03")
	if first.HasPrev() {
		t.Error("first week should report HasPrev() == false")
	}
	if got := first.Prev(); !got.Start.Equal(first.Start) {
		t.Errorf("Prev() at the start boundary moved the window to %v", got.Start)
	}
	if !first.HasNext() {
		t.Error("first week should report HasNext() == true")
	}

	last := testWindow(t, "2024-02-27")
	if last.HasNext() {
		t.Error("last week should report HasNext() == false")
	}
	if got := last.Next(); !got.Start.Equal(last.Start) {
		t.Errorf("Next() at the end boundary moved the window to %v", got.Start)
	}
	if !last.HasPrev() {
		t.Error("last week should report HasPrev() == true")
	}

	// Stepping forward from an interior week lands on the following Monday.
	mid := testWindow(t, "2024-01-10")
	next := mid.Next()
	if got := FormatDate(next.Start); got != "2024-01-15" {
		t.Errorf("Next() from week of 2024-01-10 starts %s, want 2024-01-15", got)
	}
	prev := mid.Prev()
	if got := FormatDate(prev.Start); got != "2024-01-01" {
		t.Errorf("Prev() from week of 2024-01-10 starts %s, want 2024-01-01", got)
	}
}

func TestWindowContains(t *testing.T) {
	w := testWindow(t, "2024-01-10")
	if !w.Contains("2024-01-08") || !w.Contains("2024-01-12") {
		t.Error("window should contain its own weekdays")
	}
	if w.Contains("2024-01-13") {
		t.Error("window should not contain the weekend")
	}
	if w.Contains("2024-01-15") {
		t.Error("window should not contain the following week")
	}
}
