package service

import (
	"encoding/csv"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"skillbridge/batch-scheduler/internal/domain"
)

func TestRenderPlanCSV(t *testing.T) {
	asha := primitive.NewObjectID()
	names := map[primitive.ObjectID]string{asha: "Asha"}

	entries := []domain.PlanEntry{
		{Date: "2024-01-10", StartTime: "09:30", EndTime: "11:00", ActivityType: domain.ActivityCourse, ActivityName: "Excel", TrainerID: &asha, Notes: "bring laptops"},
		{Date: "2024-01-10", StartTime: "11:00", EndTime: "11:15", ActivityType: domain.ActivityBreak, ActivityName: "Tea Break"},
	}

	body, err := renderPlanCSV(entries, names)
	if err != nil {
		t.Fatalf("renderPlanCSV() error = %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	if err != nil {
		t.Fatalf("reading rendered CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rendered %d rows, want header + 2", len(rows))
	}

	header := strings.Join(rows[0], ",")
	if header != "date,day,start_time,end_time,activity_type,activity,trainer,notes" {
		t.Errorf("header = %q", header)
	}

	first := rows[1]
	if first[0] != "2024-01-10" || first[1] != "Wednesday" {
		t.Errorf("first row date/day = %q/%q, want 2024-01-10/Wednesday", first[0], first[1])
	}
	if first[6] != "Asha" {
		t.Errorf("first row trainer = %q, want the resolved display name", first[6])
	}
	if second := rows[2]; second[6] != "" {
		t.Errorf("break row trainer = %q, want empty", second[6])
	}
}

func TestRenderPlanCSVEmpty(t *testing.T) {
	body, err := renderPlanCSV(nil, nil)
	if err != nil {
		t.Fatalf("renderPlanCSV() error = %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	if err != nil {
		t.Fatalf("reading rendered CSV: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("empty plan rendered %d rows, want header only", len(rows))
	}
}
