package models

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceNoClass AttendanceStatus = "noclass"
)

// AttendanceRecord is unique per (user, subject, date) by replacement:
// marking a date deletes that date's records before inserting the new set.
type AttendanceRecord struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"user_id" gorm:"not null;index:idx_attendance_user_date"`
	SubjectID uint             `json:"subject_id" gorm:"not null;index"`
	Date      string           `json:"date" gorm:"size:10;not null;index:idx_attendance_user_date"` // YYYY-MM-DD
	Status    AttendanceStatus `json:"status" gorm:"type:varchar(20);not null;check:status IN ('present','absent','noclass')"`
	Reason    string           `json:"reason" gorm:"size:512"`
	CreatedAt time.Time        `json:"created_at"`

	// Relations
	Subject Subject `json:"-" gorm:"foreignKey:SubjectID"`
}

// IsValidAttendanceStatus checks a submitted status value.
func IsValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceNoClass:
		return true
	default:
		return false
	}
}
