package services

import (
	"testing"

	"campus-connect-server/models"
)

func TestAttendancePercentage(t *testing.T) {
	tests := []struct {
		name    string
		present int
		counted int
		want    int
	}{
		{"two of three rounds up", 2, 3, 67},
		{"one of three rounds down", 1, 3, 33},
		{"perfect", 5, 5, 100},
		{"none present", 0, 4, 0},
		{"zero counted", 0, 0, 0},
		{"negative counted", 1, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AttendancePercentage(tt.present, tt.counted); got != tt.want {
				t.Errorf("AttendancePercentage(%d, %d) = %d, want %d", tt.present, tt.counted, got, tt.want)
			}
		})
	}
}

func TestComputeSubjectStatsExcludesNoClass(t *testing.T) {
	subject := models.Subject{ID: 1, Name: "Data Structures"}
	records := []models.AttendanceRecord{
		{SubjectID: 1, Status: models.AttendancePresent},
		{SubjectID: 1, Status: models.AttendancePresent},
		{SubjectID: 1, Status: models.AttendanceAbsent},
		{SubjectID: 1, Status: models.AttendanceNoClass},
	}

	stats := ComputeSubjectStats(subject, records)

	if stats.Present != 2 || stats.Absent != 1 || stats.NoClass != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.Counted != 3 {
		t.Errorf("Counted = %d, want 3 (noclass must not count)", stats.Counted)
	}
	if stats.Percentage != 67 {
		t.Errorf("Percentage = %d, want 67", stats.Percentage)
	}
}

func TestComputeSubjectStatsEmpty(t *testing.T) {
	stats := ComputeSubjectStats(models.Subject{ID: 2, Name: "Electives"}, nil)
	if stats.Counted != 0 || stats.Percentage != 0 {
		t.Errorf("empty subject should have 0 counted and 0 percent, got %+v", stats)
	}
}

func TestComputeOverallStatsWeightsByRecords(t *testing.T) {
	subjects := []models.Subject{
		{ID: 1, Name: "Algorithms"},
		{ID: 2, Name: "Networks"},
	}
	recordsBySubject := map[uint][]models.AttendanceRecord{
		1: {
			{SubjectID: 1, Status: models.AttendancePresent},
		},
		2: {
			{SubjectID: 2, Status: models.AttendancePresent},
			{SubjectID: 2, Status: models.AttendanceAbsent},
			{SubjectID: 2, Status: models.AttendanceAbsent},
		},
	}

	overall := ComputeOverallStats(subjects, recordsBySubject)

	if len(overall.Subjects) != 2 {
		t.Fatalf("expected 2 subject entries, got %d", len(overall.Subjects))
	}
	if overall.TotalPresent != 2 || overall.TotalCounted != 4 {
		t.Fatalf("totals = %d/%d, want 2/4", overall.TotalPresent, overall.TotalCounted)
	}
	// 2/4 = 50, not the average of the per-subject percentages (100 and 33)
	if overall.OverallPercentage != 50 {
		t.Errorf("OverallPercentage = %d, want 50", overall.OverallPercentage)
	}
}

func TestComputeOverallStatsNoSubjects(t *testing.T) {
	overall := ComputeOverallStats(nil, nil)
	if overall.OverallPercentage != 0 || len(overall.Subjects) != 0 {
		t.Errorf("expected empty stats, got %+v", overall)
	}
}
