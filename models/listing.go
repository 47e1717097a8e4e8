package models

import (
	"time"

	"gorm.io/gorm"
)

type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingSold      ListingStatus = "sold"
)

type ListingCategory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Icon      string    `json:"icon" gorm:"size:255"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Listing struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"not null;index"`
	CategoryID  uint           `json:"category_id" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Price       float64        `json:"price" gorm:"not null"`
	Images      string         `json:"images" gorm:"type:text"` // JSON array of image URLs
	Status      ListingStatus  `json:"status" gorm:"type:varchar(20);not null;default:'available';check:status IN ('available','sold')"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User     User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Category ListingCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
