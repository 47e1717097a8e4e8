package models

import (
	"time"

	"gorm.io/gorm"
)

type Community struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Description  string         `json:"description" gorm:"type:text"`
	ImageURL     string         `json:"image_url" gorm:"size:512"`
	CreatedBy    uint           `json:"created_by" gorm:"not null"`
	MembersCount int64          `json:"members_count" gorm:"default:0"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Posts []CommunityPost `json:"posts,omitempty" gorm:"foreignKey:CommunityID"`
}

type CommunityMember struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CommunityID uint      `json:"community_id" gorm:"not null;index:idx_member_community_user,unique"`
	UserID      uint      `json:"user_id" gorm:"not null;index:idx_member_community_user,unique"`
	CreatedAt   time.Time `json:"created_at"`
}

type CommunityPost struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	CommunityID   uint           `json:"community_id" gorm:"not null;index"`
	UserID        uint           `json:"user_id" gorm:"not null"`
	Title         string         `json:"title" gorm:"size:255;not null"`
	Content       string         `json:"content" gorm:"type:text;not null"`
	ImageURL      string         `json:"image_url" gorm:"size:512"`
	CommentsCount int64          `json:"comments_count" gorm:"default:0"`
	LikesCount    int64          `json:"likes_count" gorm:"default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User     User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Comments []PostComment `json:"comments,omitempty" gorm:"foreignKey:PostID"`
}

type PostComment struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	PostID    uint           `json:"post_id" gorm:"not null;index"`
	UserID    uint           `json:"user_id" gorm:"not null"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;index:idx_like_post_user,unique"`
	UserID    uint      `json:"user_id" gorm:"not null;index:idx_like_post_user,unique"`
	CreatedAt time.Time `json:"created_at"`
}
