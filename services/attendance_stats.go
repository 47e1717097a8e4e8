package services

import (
	"math"

	"campus-connect-server/models"
)

// SubjectStats holds per-subject attendance counts and percentage.
type SubjectStats struct {
	SubjectID   uint   `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	Present     int    `json:"present"`
	Absent      int    `json:"absent"`
	NoClass     int    `json:"no_class"`
	Counted     int    `json:"counted"`
	Percentage  int    `json:"percentage"`
}

// OverallStats aggregates across subjects. The overall percentage divides the
// summed numerators by the summed denominators, not an average of per-subject
// percentages, so subjects with few recorded classes do not skew the result.
type OverallStats struct {
	Subjects          []SubjectStats `json:"subjects"`
	TotalPresent      int            `json:"total_present"`
	TotalCounted      int            `json:"total_counted"`
	OverallPercentage int            `json:"overall_percentage"`
}

// AttendancePercentage computes round(present/counted*100). A zero
// denominator yields 0, not an error.
func AttendancePercentage(present, counted int) int {
	if counted <= 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(counted) * 100))
}

// ComputeSubjectStats partitions a subject's records by status. Records with
// status "noclass" are excluded from the denominator.
func ComputeSubjectStats(subject models.Subject, records []models.AttendanceRecord) SubjectStats {
	stats := SubjectStats{
		SubjectID:   subject.ID,
		SubjectName: subject.Name,
	}
	for _, rec := range records {
		switch rec.Status {
		case models.AttendancePresent:
			stats.Present++
		case models.AttendanceAbsent:
			stats.Absent++
		case models.AttendanceNoClass:
			stats.NoClass++
		}
	}
	stats.Counted = stats.Present + stats.Absent
	stats.Percentage = AttendancePercentage(stats.Present, stats.Counted)
	return stats
}

// ComputeOverallStats builds the full statistics view for a user's subjects.
func ComputeOverallStats(subjects []models.Subject, recordsBySubject map[uint][]models.AttendanceRecord) OverallStats {
	overall := OverallStats{Subjects: make([]SubjectStats, 0, len(subjects))}
	for _, subject := range subjects {
		stats := ComputeSubjectStats(subject, recordsBySubject[subject.ID])
		overall.Subjects = append(overall.Subjects, stats)
		overall.TotalPresent += stats.Present
		overall.TotalCounted += stats.Counted
	}
	overall.OverallPercentage = AttendancePercentage(overall.TotalPresent, overall.TotalCounted)
	return overall
}
