package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

type UserStatus string

const (
	StatusActive UserStatus = "active"
	StatusBanned UserStatus = "banned"
)

type User struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	FullName          string     `json:"full_name" gorm:"size:255;not null"`
	Email             string     `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash      string     `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role              UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'student';check:role IN ('student','admin')"`
	Status            UserStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';check:status IN ('active','banned')"`
	Campus            string     `json:"campus" gorm:"size:255"`
	ProfilePictureURL *string    `json:"profile_picture_url" gorm:"size:255"`
	CreatedAt         time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	PushTokens []PushToken `json:"push_tokens,omitempty" gorm:"foreignKey:UserID"`
	Subjects   []Subject   `json:"subjects,omitempty" gorm:"foreignKey:UserID"`
	Listings   []Listing   `json:"listings,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleStudent
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	return nil
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsBanned checks if the user account is banned
func (u *User) IsBanned() bool {
	return u.Status == StatusBanned
}
