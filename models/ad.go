package models

import (
	"time"

	"gorm.io/gorm"
)

// Ad view/click counts are incremented in redis and flushed to these columns
// by the ad metrics job.
type Ad struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Title     string         `json:"title" gorm:"size:255;not null"`
	ImageURL  string         `json:"image_url" gorm:"size:512;not null"`
	TargetURL string         `json:"target_url" gorm:"size:512"`
	Views     int64          `json:"views" gorm:"default:0"`
	Clicks    int64          `json:"clicks" gorm:"default:0"`
	StartsAt  *time.Time     `json:"starts_at"`
	EndsAt    *time.Time     `json:"ends_at"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedBy uint           `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Live reports whether the ad should be served at the given time.
func (a *Ad) Live(now time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.StartsAt != nil && now.Before(*a.StartsAt) {
		return false
	}
	if a.EndsAt != nil && now.After(*a.EndsAt) {
		return false
	}
	return true
}
