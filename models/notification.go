package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	Title     string         `json:"title" gorm:"not null"`
	Message   string         `json:"message" gorm:"not null"`
	Type      string         `json:"type" gorm:"not null"` // announcement, message, listing, community, system
	Link      string         `json:"link" gorm:"size:512"`
	Read      bool           `json:"read" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

type PushToken struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	Token     string         `json:"token" gorm:"not null;unique"`
	Platform  string         `json:"platform" gorm:"not null"` // ios, android
	DeviceID  string         `json:"device_id"`
	Active    bool           `json:"active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// ScheduledNotification fires at most once per calendar day per matching
// schedule, guarded by LastSentDate.
type ScheduledNotification struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Title        string         `json:"title" gorm:"not null"`
	Message      string         `json:"message" gorm:"not null"`
	Link         string         `json:"link" gorm:"size:512"`
	Recipients   string         `json:"recipients" gorm:"type:text"` // JSON array of user IDs; empty means broadcast
	DaysOfWeek   string         `json:"days_of_week" gorm:"type:text;not null"` // JSON array, 0=Sunday..6=Saturday
	Hour         int            `json:"hour" gorm:"not null"`
	EndDate      string         `json:"end_date" gorm:"size:10"` // YYYY-MM-DD, empty means no end
	LastSentDate string         `json:"last_sent_date" gorm:"size:10"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	CreatedBy    uint           `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// RecipientIDs decodes the recipients rule. nil means broadcast.
func (sn *ScheduledNotification) RecipientIDs() []uint {
	if sn.Recipients == "" {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(sn.Recipients), &ids); err != nil {
		return nil
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// Days decodes the recurrence days of week.
func (sn *ScheduledNotification) Days() []int {
	var days []int
	if err := json.Unmarshal([]byte(sn.DaysOfWeek), &days); err != nil {
		return nil
	}
	return days
}

// MatchesDay reports whether the schedule recurs on the given weekday.
func (sn *ScheduledNotification) MatchesDay(weekday time.Weekday) bool {
	for _, d := range sn.Days() {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// Expired reports whether the schedule's end date has passed as of today.
func (sn *ScheduledNotification) Expired(today string) bool {
	return sn.EndDate != "" && today > sn.EndDate
}
