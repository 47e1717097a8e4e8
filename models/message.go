package models

import (
	"time"

	"gorm.io/gorm"
)

type Message struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	SenderID    uint           `json:"sender_id" gorm:"not null;index"`
	RecipientID uint           `json:"recipient_id" gorm:"not null;index"`
	Content     string         `json:"content" gorm:"type:text;not null"`
	ListingID   *uint          `json:"listing_id"` // set when the conversation started from a listing
	Read        bool           `json:"read" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Sender    User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Recipient User `json:"recipient,omitempty" gorm:"foreignKey:RecipientID"`
}
